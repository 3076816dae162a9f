package game

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/sweepmove/engine/physics"
	"github.com/memmaker/sweepmove/engine/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPlayerBox = util.NewAABBFromMin(mgl32.Vec3{-16, 0, -16}, mgl32.Vec3{32, 56, 32})

type testLevel struct {
	world *physics.World
	root  *util.Transform
}

// newTestLevel has a large floor with its top face at y = 0.
func newTestLevel(t *testing.T) *testLevel {
	t.Helper()
	level := &testLevel{
		world: physics.NewWorld(physics.DefaultSettings()),
		root:  util.NewDefaultTransform("level"),
	}
	level.addBlock(t, "floor", mgl32.Vec3{-1000, -16, -1000}, mgl32.Vec3{2000, 16, 2000})
	return level
}

func (l *testLevel) addBlock(t *testing.T, name string, min, size mgl32.Vec3) *physics.Body {
	t.Helper()
	node := util.NewDefaultTransform(name)
	l.root.AddChild(node)
	body, err := l.world.Add(node, physics.KindStatic, util.NewAABBFromMin(min, size))
	require.NoError(t, err)
	return body
}

func (l *testLevel) addPlayer(t *testing.T, position mgl32.Vec3, yaw float32) *Player {
	t.Helper()
	node := util.NewTransform("player", position)
	node.SetYaw(yaw)
	l.root.AddChild(node)
	player, err := NewPlayer(l.world, node, testPlayerBox, DefaultMovementSettings())
	require.NoError(t, err)
	return player
}

func TestNewPlayer(t *testing.T) {
	level := newTestLevel(t)
	player := level.addPlayer(t, mgl32.Vec3{}, -90)

	assert.Equal(t, physics.KindCustom, player.Body().Kind())
	assert.Equal(t, float32(320), player.Speed)
	assert.Equal(t, float32(800), player.Gravity)
	assertVec(t, mgl32.Vec3{1, 0, 0}, player.ViewForward, 1e-5)

	_, err := NewPlayer(level.world, player.Node(), testPlayerBox, DefaultMovementSettings())
	assert.Error(t, err, "the node already has a body")

	settings := DefaultMovementSettings()
	settings.Overclip = 0.5
	_, err = NewPlayer(level.world, util.NewDefaultTransform("other"), testPlayerBox, settings)
	assert.Error(t, err)
}

func TestPlayerUpdate_Resting(t *testing.T) {
	level := newTestLevel(t)
	player := level.addPlayer(t, mgl32.Vec3{}, 0)
	player.Body().Velocity = mgl32.Vec3{0, -1, 0}

	player.Update(1)

	assertVec(t, mgl32.Vec3{}, player.Position(), 1e-6)
	assert.InDelta(t, 0, player.Velocity().Y(), 0.01)
	assert.Zero(t, player.Velocity().X())
	assert.Zero(t, player.Velocity().Z())
	assert.True(t, player.Grounded())
	assert.True(t, player.Walking())
	assert.Equal(t, util.UpVector, player.GroundNormal())
}

func TestPlayerUpdate_FallsWhenUnsupported(t *testing.T) {
	level := newTestLevel(t)
	player := level.addPlayer(t, mgl32.Vec3{0, 100, 0}, 0)

	player.Update(0.1)

	assert.False(t, player.Grounded())
	assert.Less(t, player.Velocity().Y(), float32(0))
	assert.Less(t, player.Position().Y(), float32(100))

	for i := 0; i < 50; i++ {
		player.Update(0.1)
	}

	assert.True(t, player.Walking())
	assert.InDelta(t, 0, player.Position().Y(), 0.1)
	assert.GreaterOrEqual(t, player.Position().Y(), float32(0))
}

func TestPlayerUpdate_AccelerateAndStop(t *testing.T) {
	level := newTestLevel(t)
	player := level.addPlayer(t, mgl32.Vec3{}, 0)
	const dt = 0.016

	player.SetCommand(Command{Forward: 127})
	previous := float32(0)
	for i := 0; i < 60; i++ {
		player.Update(dt)
		speed := util.HorizontalLength(player.Velocity())
		assert.GreaterOrEqual(t, speed+1e-3, previous, "tick %d", i)
		assert.LessOrEqual(t, speed, player.Speed+0.5, "tick %d", i)
		previous = speed
	}
	assert.InDelta(t, 320, previous, 0.5)
	assert.Less(t, player.Velocity().Z(), float32(0), "default view faces -z")
	assert.InDelta(t, 0, player.Position().Y(), 1)
	assert.True(t, player.Walking())

	player.SetCommand(Command{})
	ticks := 0
	for ; ticks < 60 && util.HorizontalLength(player.Velocity()) > 0; ticks++ {
		player.Update(dt)
	}
	assert.Less(t, ticks, 60, "friction brings the player to a stop")
	assert.Zero(t, util.HorizontalLength(player.Velocity()))
}

func TestPlayerUpdate_DiagonalIsNotFaster(t *testing.T) {
	level := newTestLevel(t)
	player := level.addPlayer(t, mgl32.Vec3{}, 0)

	player.SetCommand(Command{Forward: 127, Right: 127})
	for i := 0; i < 60; i++ {
		player.Update(0.016)
	}

	assert.InDelta(t, 320, util.HorizontalLength(player.Velocity()), 0.5)
}

func TestPlayerUpdate_StepsOntoLowLedge(t *testing.T) {
	level := newTestLevel(t)
	level.addBlock(t, "ledge", mgl32.Vec3{20, 0, -100}, mgl32.Vec3{100, 10, 200})
	player := level.addPlayer(t, mgl32.Vec3{}, -90)
	player.Body().Velocity = mgl32.Vec3{300, 0, 0}
	player.SetCommand(Command{Forward: 127})

	player.Update(0.1)

	assert.InDelta(t, 10+util.SurfaceEpsilon, player.Position().Y(), 0.01)
	assert.Greater(t, player.Position().X(), float32(20))
	assert.InDelta(t, 320, player.Velocity().X(), 1)
	assert.InDelta(t, 10+util.SurfaceEpsilon, player.StepOffset(), 0.01)
	assert.True(t, player.Walking())

	player.SetCommand(Command{})
	player.Update(0.1)
	assert.Zero(t, player.StepOffset(), "reset every tick")
}

func TestPlayerUpdate_BlockedByTallLedge(t *testing.T) {
	level := newTestLevel(t)
	level.addBlock(t, "wall", mgl32.Vec3{20, 0, -100}, mgl32.Vec3{100, 30, 200})
	player := level.addPlayer(t, mgl32.Vec3{}, -90)
	player.Body().Velocity = mgl32.Vec3{300, 0, 0}
	player.SetCommand(Command{Forward: 127})

	player.Update(0.1)

	assert.Less(t, player.Position().X(), float32(4))
	assert.Less(t, util.Abs(player.Velocity().X()), float32(1))
	assert.Less(t, player.Position().Y(), float32(1))
	assert.Zero(t, player.StepOffset())
}

func TestPlayerUpdate_JumpOncePerPress(t *testing.T) {
	level := newTestLevel(t)
	player := level.addPlayer(t, mgl32.Vec3{}, 0)

	player.SetCommand(Command{Up: 127})
	player.Update(0.01)

	assert.InDelta(t, 262, player.Velocity().Y(), 0.01)
	assert.True(t, player.JumpHeld())
	assert.False(t, player.Grounded())
	assert.Greater(t, player.Position().Y(), float32(2))

	// back on the ground with the button still down
	player.Node().SetPosition(mgl32.Vec3{})
	player.Body().Velocity = mgl32.Vec3{}
	player.SetCommand(Command{Up: 127})
	player.Update(0.01)

	assert.InDelta(t, 0, player.Velocity().Y(), 0.01)
	assert.Zero(t, player.Command.Up, "held jump input is swallowed")
	assert.True(t, player.JumpHeld())
	assert.True(t, player.Walking())

	player.SetCommand(Command{})
	player.Update(0.01)
	assert.False(t, player.JumpHeld())

	player.SetCommand(Command{Up: 127})
	player.Update(0.01)
	assert.InDelta(t, 262, player.Velocity().Y(), 0.01)
}

func TestPlayerUpdate_EnclosedTerminates(t *testing.T) {
	level := newTestLevel(t)
	level.addBlock(t, "north", mgl32.Vec3{-40, 0, -40}, mgl32.Vec3{80, 80, 20})
	level.addBlock(t, "south", mgl32.Vec3{-40, 0, 20}, mgl32.Vec3{80, 80, 20})
	level.addBlock(t, "west", mgl32.Vec3{-40, 0, -20}, mgl32.Vec3{20, 80, 40})
	level.addBlock(t, "east", mgl32.Vec3{20, 0, -20}, mgl32.Vec3{20, 80, 40})
	level.addBlock(t, "ceiling", mgl32.Vec3{-40, 60, -40}, mgl32.Vec3{80, 20, 80})
	player := level.addPlayer(t, mgl32.Vec3{}, -30)
	player.Body().Velocity = mgl32.Vec3{500, 300, -400}

	player.SetCommand(Command{Forward: 127, Right: -127, Up: 127})
	for i := 0; i < 20; i++ {
		player.Update(0.05)
	}

	position := player.Position()
	assert.True(t, util.IsFinite(position))
	assert.True(t, util.IsFinite(player.Velocity()))
	assert.InDelta(t, 0, position.X(), 4.1)
	assert.InDelta(t, 0, position.Z(), 4.1)
	assert.GreaterOrEqual(t, position.Y(), float32(0))
	assert.LessOrEqual(t, position.Y(), float32(4))
}

func TestCmdScale(t *testing.T) {
	level := newTestLevel(t)
	player := level.addPlayer(t, mgl32.Vec3{}, 0)

	assert.Zero(t, player.cmdScale())

	player.SetCommand(Command{Forward: 127})
	assert.InDelta(t, 320.0/127, player.cmdScale(), 1e-5)

	player.SetCommand(Command{Forward: 127, Right: 127})
	// the full wish speed stays 320 when the inputs are combined
	assert.InDelta(t, 320, player.cmdScale()*mgl32.Vec2{127, 127}.Len(), 1e-3)
}

func assertVec(t *testing.T, expected, actual mgl32.Vec3, delta float64) {
	t.Helper()
	for i := range expected {
		assert.InDelta(t, expected[i], actual[i], delta, "component %d of %v", i, actual)
	}
}
