package game

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/sweepmove/engine/physics"
	"github.com/memmaker/sweepmove/engine/util"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type MovementFlags int

const (
	// JumpHeld is set from the tick a jump fires until the jump input is released.
	JumpHeld MovementFlags = 1 << 1
)

// inputScale is the magnitude of a fully pressed movement input.
const inputScale = 127

// Command is the movement input of one tick. Every axis ranges from -127 to 127.
type Command struct {
	Forward float32
	Right   float32
	Up      float32
}

// Player moves a body with Quake style ground and air movement.
type Player struct {
	node     *util.Transform
	body     *physics.Body
	world    *physics.World
	settings MovementSettings

	Command       Command
	MovementFlags MovementFlags
	Speed         float32
	Gravity       float32
	ViewForward   mgl32.Vec3
	ViewRight     mgl32.Vec3

	deltaTime    float32
	walking      bool
	groundPlane  bool
	groundNormal mgl32.Vec3
	stepOffset   float32
}

// NewPlayer registers a body for node in world. The body is driven by Player.Update,
// World.Update leaves it alone.
func NewPlayer(world *physics.World, node *util.Transform, boundingBox util.AABB, settings MovementSettings) (*Player, error) {
	if err := settings.Validate(); err != nil {
		return nil, errors.Wrap(err, "player settings")
	}
	body, err := world.Add(node, physics.KindDynamic, boundingBox)
	if err != nil {
		return nil, errors.Wrap(err, "register player body")
	}
	body.SetMover(physics.SelfDriven)
	p := &Player{
		node:         node,
		body:         body,
		world:        world,
		settings:     settings,
		Speed:        settings.Speed,
		Gravity:      settings.Gravity,
		groundNormal: util.UpVector,
	}
	p.SyncViewFromNode()
	return p, nil
}

func (p *Player) Body() *physics.Body {
	return p.body
}

func (p *Player) Node() *util.Transform {
	return p.node
}

func (p *Player) Position() mgl32.Vec3 {
	return p.node.GetPosition()
}

func (p *Player) Velocity() mgl32.Vec3 {
	return p.body.Velocity
}

// Grounded is true while something is below the player, even if it is too steep to walk on.
func (p *Player) Grounded() bool {
	return p.groundPlane
}

func (p *Player) Walking() bool {
	return p.walking
}

func (p *Player) GroundNormal() mgl32.Vec3 {
	return p.groundNormal
}

func (p *Player) JumpHeld() bool {
	return p.MovementFlags&JumpHeld != 0
}

// StepOffset is how far the last tick stepped up, capped at 16. Zero if it did not step.
// Cameras use it to smooth out stairs.
func (p *Player) StepOffset() float32 {
	return p.stepOffset
}

func (p *Player) SetCommand(command Command) {
	p.Command = command
}

func (p *Player) SetView(forward, right mgl32.Vec3) {
	p.ViewForward = forward
	p.ViewRight = right
}

// SyncViewFromNode takes the view axes from the orientation of the node.
func (p *Player) SyncViewFromNode() {
	p.SetView(p.node.GetForward(), p.node.GetRight())
}

// Update runs one movement tick.
func (p *Player) Update(deltaTime float64) {
	p.deltaTime = float32(deltaTime)
	p.stepOffset = 0

	if p.Command.Up < p.settings.JumpThreshold {
		p.MovementFlags &^= JumpHeld
	}

	p.checkGround()

	if p.walking {
		p.walkMove()
	} else {
		p.airMove()
	}

	p.checkGround()
}

func (p *Player) setPosition(position mgl32.Vec3) {
	p.node.SetPosition(position)
}

func (p *Player) trace(start, end mgl32.Vec3) util.Trace {
	trace, _ := p.world.Trace(p.body, start, end)
	return trace
}

func (p *Player) checkGround() {
	position := p.Position()
	below := position.Sub(mgl32.Vec3{0, p.settings.GroundProbe, 0})
	trace := p.trace(position, below)

	// nothing below us, free fall
	if !trace.Hit() {
		p.groundPlane = false
		p.walking = false
		return
	}

	normal := trace.Normal
	if trace.AllSolid {
		normal = util.UpVector
	}
	p.groundPlane = true
	p.groundNormal = normal
	p.walking = normal.Dot(util.UpVector) >= p.settings.MinWalkNormal
}

func (p *Player) checkJump() bool {
	if p.Command.Up < p.settings.JumpThreshold {
		return false
	}

	if p.JumpHeld() {
		p.Command.Up = 0
		return false
	}

	p.groundPlane = false
	p.walking = false
	p.MovementFlags |= JumpHeld
	p.body.Velocity[1] = p.settings.JumpVelocity

	if util.LogEnabled(util.LogMovement, util.LogLevelDebug) {
		util.LogMovementDebug("jump", zap.String("player", p.node.GetName()), zap.Float32("y", p.Position().Y()))
	}
	return true
}

func (p *Player) walkMove() {
	if p.checkJump() {
		p.airMove()
		return
	}

	p.friction()

	wishdir, wishspeed := p.wishDirection(true)
	p.accelerate(wishdir, wishspeed, p.settings.Accelerate)

	// slide along the ground plane
	p.body.Velocity = util.ClipVelocity(p.body.Velocity, p.groundNormal, p.settings.Overclip)

	// standing still
	if p.body.Velocity.X() == 0 && p.body.Velocity.Z() == 0 {
		return
	}

	p.stepSlideMove(false)
}

func (p *Player) airMove() {
	p.friction()

	wishdir, wishspeed := p.wishDirection(false)
	p.accelerate(wishdir, wishspeed, p.settings.AirAccelerate)

	// a ground plane too steep to walk on still deflects us
	if p.groundPlane {
		p.body.Velocity = util.ClipVelocity(p.body.Velocity, p.groundNormal, p.settings.Overclip)
	}

	p.stepSlideMove(true)
}

// wishDirection turns the command into a direction and a speed. On the ground the view
// axes are flattened and laid onto the ground plane, in the air they stay horizontal.
func (p *Player) wishDirection(onGround bool) (mgl32.Vec3, float32) {
	forward := p.ViewForward
	right := p.ViewRight
	forward[1] = 0
	right[1] = 0
	if onGround {
		forward = util.ClipVelocity(forward, p.groundNormal, p.settings.Overclip)
		right = util.ClipVelocity(right, p.groundNormal, p.settings.Overclip)
	}
	forward = util.SafeNormalize(forward)
	right = util.SafeNormalize(right)

	wishvel := forward.Mul(p.Command.Forward).Add(right.Mul(p.Command.Right))
	if !onGround {
		wishvel[1] = 0
	}

	wishdir, wishspeed := util.NormalizeWithLength(wishvel)
	return wishdir, wishspeed * p.cmdScale()
}

// cmdScale maps the input magnitude onto the player speed, so diagonal input is not faster.
func (p *Player) cmdScale() float32 {
	command := p.Command
	max := util.Abs(command.Forward)
	if util.Abs(command.Right) > max {
		max = util.Abs(command.Right)
	}
	if util.Abs(command.Up) > max {
		max = util.Abs(command.Up)
	}
	if max == 0 {
		return 0
	}

	total := mgl32.Vec3{command.Forward, command.Right, command.Up}.Len()
	return p.Speed * max / (inputScale * total)
}

func (p *Player) friction() {
	vel := p.body.Velocity

	vec := vel
	if p.walking {
		// ignore slope movement
		vec[1] = 0
	}

	speed := vec.Len()
	if speed < 1 {
		vel[0] = 0
		vel[2] = 0
		p.body.Velocity = vel
		return
	}

	drop := float32(0)
	if p.walking {
		control := util.Max(speed, p.settings.StopSpeed)
		drop += control * p.settings.Friction * p.deltaTime
	}

	newspeed := util.Max(speed-drop, 0) / speed
	p.body.Velocity = vel.Mul(newspeed)
}

func (p *Player) accelerate(wishdir mgl32.Vec3, wishspeed, accel float32) {
	currentspeed := p.body.Velocity.Dot(wishdir)
	addspeed := wishspeed - currentspeed
	if addspeed <= 0 {
		return
	}
	accelspeed := util.Min(accel*p.deltaTime*wishspeed, addspeed)
	p.body.Velocity = p.body.Velocity.Add(wishdir.Mul(accelspeed))
}
