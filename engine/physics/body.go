package physics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/memmaker/sweepmove/engine/util"
)

// Kind decides who owns the motion of a body.
type Kind int

const (
	// KindStatic bodies never move. They are only ever hit.
	KindStatic Kind = iota
	// KindDynamic bodies fall with gravity and are moved by World.Update.
	KindDynamic
	// KindCustom bodies are moved by their Mover, World.Update does not integrate them.
	KindCustom
	// KindBullet bodies are integrated without gravity and usually remove themselves on contact.
	KindBullet
)

func (k Kind) String() string {
	switch k {
	case KindStatic:
		return "static"
	case KindDynamic:
		return "dynamic"
	case KindCustom:
		return "custom"
	case KindBullet:
		return "bullet"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Mover drives a KindCustom body.
type Mover interface {
	Update(deltaTime float64)
}

type selfDriven struct{}

func (selfDriven) Update(float64) {}

// SelfDriven is the mover for bodies that are stepped by their owner outside of
// World.Update, like the player.
var SelfDriven Mover = selfDriven{}

type CollisionHandler func(self, other *Body)

type Body struct {
	ID          uuid.UUID
	BoundingBox util.AABB
	Velocity    mgl32.Vec3

	kind      Kind
	node      *util.Transform
	mover     Mover
	onCollide CollisionHandler
	removed   bool
}

func (b *Body) Kind() Kind {
	return b.kind
}

func (b *Body) Node() *util.Transform {
	return b.node
}

func (b *Body) GetName() string {
	return b.node.GetName()
}

func (b *Body) GetPosition() mgl32.Vec3 {
	return b.node.GetPosition()
}

func (b *Body) SetPosition(position mgl32.Vec3) {
	b.node.SetPosition(position)
}

// WorldBox is the bounding box moved to the current node position.
func (b *Body) WorldBox() util.AABB {
	return b.BoundingBox.Translate(b.node.GetPosition())
}

func (b *Body) IsRemoved() bool {
	return b.removed
}

// SetMover hands the motion of a dynamic body over to m. A nil mover gives it back
// to the default integrator. Static and bullet bodies keep their kind.
func (b *Body) SetMover(m Mover) {
	switch b.kind {
	case KindDynamic, KindCustom:
		if m == nil {
			b.kind = KindDynamic
			b.mover = nil
			return
		}
		b.kind = KindCustom
		b.mover = m
	case KindStatic, KindBullet:
		util.LogPhysicsWarning("mover ignored", zapBody(b)...)
	}
}

func (b *Body) Mover() Mover {
	return b.mover
}

func (b *Body) OnCollide(handler CollisionHandler) {
	b.onCollide = handler
}

func (b *Body) collide(other *Body) {
	if b.onCollide != nil && !b.removed {
		b.onCollide(b, other)
	}
}

// integrated reports whether World.Update moves the body itself and whether gravity applies.
func (b *Body) integrated() (moves bool, gravity bool) {
	switch b.kind {
	case KindStatic:
		return false, false
	case KindDynamic:
		return true, true
	case KindCustom:
		return false, false
	case KindBullet:
		return true, false
	}
	return false, false
}

func (b *Body) String() string {
	return fmt.Sprintf("Body{%s %s %s}", b.node.GetName(), b.kind, b.ID)
}
