package util

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// AABB is an axis aligned box given by its two corners. Min <= Max on every axis.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// NewAABB builds a box around center. extents is the full size on each axis.
func NewAABB(center, extents mgl32.Vec3) AABB {
	half := extents.Mul(0.5)
	return AABB{
		Min: center.Sub(half),
		Max: center.Add(half),
	}
}

func NewAABBFromMin(min, extents mgl32.Vec3) AABB {
	return AABB{
		Min: min,
		Max: min.Add(extents),
	}
}

// NewAABBFromPoints orders the corners so the result is a valid box.
func NewAABBFromPoints(a, b mgl32.Vec3) AABB {
	return AABB{
		Min: mgl32.Vec3{Min(a.X(), b.X()), Min(a.Y(), b.Y()), Min(a.Z(), b.Z())},
		Max: mgl32.Vec3{Max(a.X(), b.X()), Max(a.Y(), b.Y()), Max(a.Z(), b.Z())},
	}
}

func (a AABB) Center() mgl32.Vec3 {
	return a.Min.Add(a.Max).Mul(0.5)
}

func (a AABB) Size() mgl32.Vec3 {
	return a.Max.Sub(a.Min)
}

func (a AABB) HalfExtents() mgl32.Vec3 {
	return a.Size().Mul(0.5)
}

// Overlaps is true when the boxes overlap or touch on all three axes.
func (a AABB) Overlaps(b AABB) bool {
	return a.Min.X() <= b.Max.X() && a.Max.X() >= b.Min.X() &&
		a.Min.Y() <= b.Max.Y() && a.Max.Y() >= b.Min.Y() &&
		a.Min.Z() <= b.Max.Z() && a.Max.Z() >= b.Min.Z()
}

// OverlapsStrict ignores touching faces: only an intersection with volume counts.
func (a AABB) OverlapsStrict(b AABB) bool {
	return a.Min.X() < b.Max.X() && a.Max.X() > b.Min.X() &&
		a.Min.Y() < b.Max.Y() && a.Max.Y() > b.Min.Y() &&
		a.Min.Z() < b.Max.Z() && a.Max.Z() > b.Min.Z()
}

func (a AABB) Contains(vec3 mgl32.Vec3) bool {
	return vec3.X() >= a.Min.X() && vec3.X() <= a.Max.X() &&
		vec3.Y() >= a.Min.Y() && vec3.Y() <= a.Max.Y() &&
		vec3.Z() >= a.Min.Z() && vec3.Z() <= a.Max.Z()
}

func (a AABB) Translate(offset mgl32.Vec3) AABB {
	return AABB{
		Min: a.Min.Add(offset),
		Max: a.Max.Add(offset),
	}
}

func (a AABB) ExpandByPoint(point mgl32.Vec3) AABB {
	return AABB{
		Min: mgl32.Vec3{Min(a.Min.X(), point.X()), Min(a.Min.Y(), point.Y()), Min(a.Min.Z(), point.Z())},
		Max: mgl32.Vec3{Max(a.Max.X(), point.X()), Max(a.Max.Y(), point.Y()), Max(a.Max.Z(), point.Z())},
	}
}

func (a AABB) Union(b AABB) AABB {
	return a.ExpandByPoint(b.Min).ExpandByPoint(b.Max)
}

// MinkowskiExpand grows the box by halfExtents on every side. Testing a point against
// the result is the same as testing a box with those half extents against a.
func (a AABB) MinkowskiExpand(halfExtents mgl32.Vec3) AABB {
	return AABB{
		Min: a.Min.Sub(halfExtents),
		Max: a.Max.Add(halfExtents),
	}
}

func (a AABB) String() string {
	return fmt.Sprintf("AABB{min: %v, max: %v}", a.Min, a.Max)
}
