package main

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/sweepmove/engine/physics"
	"github.com/memmaker/sweepmove/engine/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBulletHitsRestingCrate(t *testing.T) {
	logs := observeRun(t)
	world := physics.NewWorld(physics.DefaultSettings())
	level := util.NewDefaultTransform("level")
	require.NoError(t, buildTestLevel(world, level))
	crate, err := addCrate(world, level)
	require.NoError(t, err)
	resting := mgl32.Vec3{-100, util.SurfaceEpsilon, 0}
	crate.SetPosition(resting)

	bullet, err := fireBullet(world, level, mgl32.Vec3{-100, 16, 200}, mgl32.Vec3{-100, 16, 0})
	require.NoError(t, err)
	for tick := 0; tick < 30 && !bullet.IsRemoved(); tick++ {
		world.Update(world.BodiesUnder(level), 1.0/60.0)
	}

	assert.True(t, bullet.IsRemoved())
	assert.NotContains(t, level.Children(), bullet.Node())
	assert.Equal(t, 1, logs.FilterMessage("crate hit").Len())
	position := crate.GetPosition()
	assert.InDelta(t, resting.X(), position.X(), 1e-3)
	assert.InDelta(t, resting.Z(), position.Z(), 1e-3)
	assert.InDelta(t, resting.Y(), position.Y(), 1e-3, "a resting crate stays put")
}
