package main

import (
	"encoding/json"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/sweepmove/engine/physics"
	"github.com/memmaker/sweepmove/engine/util"
	"github.com/memmaker/sweepmove/game"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type demoOptions struct {
	configFile string
	levelFile  string
	ticks      int
	deltaTime  float64
}

var playerBox = util.NewAABBFromMin(mgl32.Vec3{-15, 0, -15}, mgl32.Vec3{30, 56, 30})

// runDemo walks a player across a small level while a crate falls and a few bullets fly.
func runDemo(options demoOptions) error {
	config := game.DefaultConfig()
	if options.configFile != "" {
		loaded, err := game.LoadConfigFile(options.configFile)
		if err != nil {
			return err
		}
		config = loaded
	}

	world := physics.NewWorld(config.Physics)
	level := util.NewDefaultTransform("level")

	if options.levelFile != "" {
		if err := loadLevel(world, level, options.levelFile); err != nil {
			return err
		}
	} else if err := buildTestLevel(world, level); err != nil {
		return err
	}

	playerNode := util.NewTransform("player", mgl32.Vec3{0, 0, 0})
	playerNode.SetYaw(-90) // look down +x
	level.AddChild(playerNode)
	player, err := game.NewPlayer(world, playerNode, playerBox, config.Movement)
	if err != nil {
		return err
	}

	crate, err := addCrate(world, level)
	if err != nil {
		return err
	}

	timer := util.NewTimer()
	for tick := 0; tick < options.ticks; tick++ {
		player.SetCommand(scriptedCommand(tick))

		if tick%20 == 0 {
			if _, err := fireBullet(world, level, mgl32.Vec3{-100, 30, 200}, crate.GetPosition()); err != nil {
				return err
			}
		}

		stop := timer.Start("bodies")
		world.Update(world.BodiesUnder(level), options.deltaTime)
		stop()

		stop = timer.Start("player")
		player.Update(options.deltaTime)
		stop()

		if tick%10 == 0 {
			position := player.Position()
			util.LogSystemInfo("tick",
				zap.Int("tick", tick),
				zap.Float32s("position", position[:]),
				zap.Float32("speed", util.HorizontalLength(player.Velocity())),
				zap.Bool("grounded", player.Grounded()),
				zap.Float32("step", player.StepOffset()),
			)
		}
	}
	timer.Report()

	snapshot, err := json.Marshal(playerNode)
	if err != nil {
		return errors.Wrap(err, "snapshot player")
	}
	util.LogSystemInfo("final player state", zap.ByteString("node", snapshot))
	return nil
}

// scriptedCommand runs forward, jumps once and stops.
func scriptedCommand(tick int) game.Command {
	command := game.Command{}
	if tick < 120 {
		command.Forward = 127
	}
	if tick >= 60 && tick < 64 {
		command.Up = 127
	}
	return command
}

func buildTestLevel(world *physics.World, level *util.Transform) error {
	type staticBox struct {
		name     string
		position mgl32.Vec3
		box      util.AABB
	}
	boxes := []staticBox{
		{"floor", mgl32.Vec3{0, 0, 0}, util.NewAABBFromMin(mgl32.Vec3{-1000, -16, -1000}, mgl32.Vec3{2000, 16, 2000})},
		{"step", mgl32.Vec3{200, 0, 0}, util.NewAABBFromMin(mgl32.Vec3{0, 0, -200}, mgl32.Vec3{100, 16, 400})},
		{"ledge", mgl32.Vec3{300, 0, 0}, util.NewAABBFromMin(mgl32.Vec3{0, 0, -200}, mgl32.Vec3{100, 32, 400})},
		{"wall", mgl32.Vec3{600, 0, 0}, util.NewAABBFromMin(mgl32.Vec3{0, 0, -500}, mgl32.Vec3{32, 128, 1000})},
	}
	for _, b := range boxes {
		node := util.NewTransform(b.name, b.position)
		level.AddChild(node)
		if _, err := world.Add(node, physics.KindStatic, b.box); err != nil {
			return errors.Wrapf(err, "add %s", b.name)
		}
	}
	return nil
}

func loadLevel(world *physics.World, level *util.Transform, filename string) error {
	boxes, err := util.LoadCollisionBoxes(filename)
	if err != nil {
		return err
	}
	for _, placed := range boxes {
		node := util.NewTransform(placed.Name, placed.Position)
		level.AddChild(node)
		if _, err := world.Add(node, physics.KindStatic, placed.Box); err != nil {
			return errors.Wrapf(err, "add %s", placed.Name)
		}
	}
	return nil
}

func addCrate(world *physics.World, level *util.Transform) (*physics.Body, error) {
	node := util.NewTransform("crate", mgl32.Vec3{-100, 200, 0})
	level.AddChild(node)
	crate, err := world.Add(node, physics.KindDynamic, util.NewAABB(mgl32.Vec3{0, 16, 0}, mgl32.Vec3{32, 32, 32}))
	if err != nil {
		return nil, errors.Wrap(err, "add crate")
	}
	hits := 0
	crate.OnCollide(func(self, other *physics.Body) {
		if other.Kind() == physics.KindBullet {
			hits++
			util.LogSystemInfo("crate hit", zap.Stringer("by", other), zap.Int("hits", hits))
		}
	})
	return crate, nil
}

// fireBullet launches a bullet that removes itself and its node on the first contact.
func fireBullet(world *physics.World, level *util.Transform, from, target mgl32.Vec3) (*physics.Body, error) {
	node := util.NewTransform("bullet", from)
	level.AddChild(node)
	bullet, err := world.Add(node, physics.KindBullet, util.NewAABB(mgl32.Vec3{}, mgl32.Vec3{2, 2, 2}))
	if err != nil {
		return nil, errors.Wrap(err, "add bullet")
	}
	bullet.Velocity = util.SafeNormalize(target.Sub(from)).Mul(1500)
	bullet.OnCollide(func(self, other *physics.Body) {
		world.Remove(self)
		level.RemoveChild(self.Node())
	})
	return bullet, nil
}
