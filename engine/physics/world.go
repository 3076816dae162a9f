package physics

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/memmaker/sweepmove/engine/util"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Settings for the default integrator.
type Settings struct {
	// Gravity in units per second squared, applied downwards on the y axis.
	Gravity float32 `yaml:"gravity"`
}

func DefaultSettings() Settings {
	return Settings{
		Gravity: 800,
	}
}

func (s Settings) Validate() error {
	if s.Gravity < 0 {
		return errors.Errorf("gravity must not be negative, got %v", s.Gravity)
	}
	return nil
}

// World owns all simulated bodies.
type World struct {
	settings Settings
	bodies   []*Body
	byNode   map[*util.Transform]*Body
	byID     map[uuid.UUID]*Body

	stepping       int
	pendingRemoval bool
}

func NewWorld(settings Settings) *World {
	return &World{
		settings: settings,
		byNode:   make(map[*util.Transform]*Body),
		byID:     make(map[uuid.UUID]*Body),
	}
}

func (w *World) Settings() Settings {
	return w.settings
}

// Add attaches a new body with the given local bounding box to node.
func (w *World) Add(node *util.Transform, kind Kind, boundingBox util.AABB) (*Body, error) {
	if node == nil {
		return nil, errors.New("cannot attach a body to a nil node")
	}
	if existing, ok := w.byNode[node]; ok {
		return nil, errors.Errorf("node %q already has body %s", node.GetName(), existing.ID)
	}
	size := boundingBox.Size()
	if size.X() < 0 || size.Y() < 0 || size.Z() < 0 {
		return nil, errors.Errorf("invalid bounding box for %q: %s", node.GetName(), boundingBox)
	}
	switch kind {
	case KindStatic, KindDynamic, KindBullet:
	case KindCustom:
		return nil, errors.New("custom bodies are created as dynamic and handed a mover with SetMover")
	default:
		return nil, errors.Errorf("unknown body kind %d", int(kind))
	}

	body := &Body{
		ID:          uuid.New(),
		BoundingBox: boundingBox,
		kind:        kind,
		node:        node,
	}
	w.bodies = append(w.bodies, body)
	w.byNode[node] = body
	w.byID[body.ID] = body
	util.LogPhysicsDebug("body added", zapBody(body)...)
	return body, nil
}

// Remove takes the body out of the world. While Update is running the body is only
// flagged, it is skipped for the rest of the step and dropped afterwards.
func (w *World) Remove(body *Body) {
	if body == nil || body.removed {
		return
	}
	body.removed = true
	delete(w.byNode, body.node)
	delete(w.byID, body.ID)
	util.LogPhysicsDebug("body removed", zapBody(body)...)
	if w.stepping > 0 {
		w.pendingRemoval = true
		return
	}
	w.compact()
}

func (w *World) compact() {
	live := w.bodies[:0]
	for _, body := range w.bodies {
		if !body.removed {
			live = append(live, body)
		}
	}
	for i := len(live); i < len(w.bodies); i++ {
		w.bodies[i] = nil
	}
	w.bodies = live
	w.pendingRemoval = false
}

func (w *World) BodyOf(node *util.Transform) (*Body, bool) {
	body, ok := w.byNode[node]
	return body, ok
}

func (w *World) Lookup(id uuid.UUID) (*Body, bool) {
	body, ok := w.byID[id]
	return body, ok
}

// Bodies returns a copy of the list of live bodies in registration order.
func (w *World) Bodies() []*Body {
	result := make([]*Body, 0, len(w.bodies))
	for _, body := range w.bodies {
		if !body.removed {
			result = append(result, body)
		}
	}
	return result
}

// BodiesUnder lists the bodies attached to root and its descendants, depth first.
func (w *World) BodiesUnder(root *util.Transform) []*Body {
	var result []*Body
	if root == nil {
		return result
	}
	root.Walk(func(node *util.Transform) {
		if body, ok := w.byNode[node]; ok && !body.removed {
			result = append(result, body)
		}
	})
	return result
}

// Trace sweeps the box of mover from start to end against every other live body and
// returns the earliest contact together with the body that caused it (nil on a clear path).
func (w *World) Trace(mover *Body, start, end mgl32.Vec3) (util.Trace, *Body) {
	result := util.NewTrace(end)
	var hitBody *Body
	sweptBox := util.SweptBounds(mover.BoundingBox, start, end)
	for _, body := range w.bodies {
		if body == mover || body.removed {
			continue
		}
		target := body.WorldBox()
		if !sweptBox.Overlaps(target) {
			continue
		}
		trace := util.SweepAABB(mover.BoundingBox, start, end, target)
		if trace.AllSolid || trace.Fraction < result.Fraction {
			result = trace
			hitBody = body
			if trace.AllSolid {
				break
			}
		}
	}
	return result, hitBody
}

// Update runs one step for the given bodies. Custom bodies run their mover, dynamic and
// bullet bodies are integrated and swept against the world.
func (w *World) Update(bodies []*Body, deltaTime float64) {
	w.stepping++
	defer func() {
		w.stepping--
		if w.stepping == 0 && w.pendingRemoval {
			w.compact()
		}
	}()

	dt := float32(deltaTime)
	for _, body := range bodies {
		if body.removed {
			continue
		}
		if body.kind == KindCustom {
			body.mover.Update(deltaTime)
			continue
		}
		moves, gravity := body.integrated()
		if !moves {
			continue
		}
		if gravity {
			body.Velocity[1] -= w.settings.Gravity * dt
		}
		w.move(body, dt)
	}
}

func (w *World) move(body *Body, dt float32) {
	start := body.GetPosition()
	end := start.Add(body.Velocity.Mul(dt))
	trace, hitBody := w.Trace(body, start, end)
	body.SetPosition(trace.EndPos)
	if hitBody == nil {
		return
	}
	if trace.AllSolid {
		if util.LogEnabled(util.LogPhysics, util.LogLevelDebug) {
			util.LogPhysicsDebug("body starts inside another", append(zapBody(body), zap.Stringer("other", hitBody))...)
		}
	} else {
		body.Velocity = util.ClipVelocity(body.Velocity, trace.Normal, util.Overclip)
	}
	body.collide(hitBody)
	hitBody.collide(body)
}

func zapBody(body *Body) []zap.Field {
	return []zap.Field{
		zap.String("name", body.GetName()),
		zap.Stringer("kind", body.kind),
		zap.Stringer("id", body.ID),
	}
}
