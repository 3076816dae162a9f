package util

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// SurfaceEpsilon is how far a swept box stops in front of the face it hits.
const SurfaceEpsilon = float32(1.0 / 32.0)

// Trace is the result of sweeping a box along a segment.
// Fraction 1 means nothing was in the way, AllSolid means the box started inside something.
type Trace struct {
	AllSolid bool
	Fraction float32
	EndPos   mgl32.Vec3
	Normal   mgl32.Vec3
}

func NewTrace(end mgl32.Vec3) Trace {
	return Trace{Fraction: 1, EndPos: end}
}

func (t Trace) Hit() bool {
	return t.AllSolid || t.Fraction < 1
}

func (t Trace) String() string {
	return fmt.Sprintf("Trace{allsolid: %v, fraction: %.4f, endpos: %v, normal: %v}", t.AllSolid, t.Fraction, t.EndPos, t.Normal)
}

// SweptBounds covers the box at both ends of the segment. Used for broad phase culling.
func SweptBounds(box AABB, start, end mgl32.Vec3) AABB {
	return box.Translate(start).Union(box.Translate(end))
}

// SweepAABB moves box (in local space) from start to end and reports the first contact
// with the stationary target (in world space).
// The target is grown by the half extents of the box, then the center of the box is
// ray tested against the grown target slab by slab. The last axis to be entered decides
// the contact time and the normal; equal entry times keep the earlier axis (x, y, z).
func SweepAABB(box AABB, start, end mgl32.Vec3, target AABB) Trace {
	mover := box.Translate(start)
	if mover.OverlapsStrict(target) {
		return Trace{AllSolid: true, Fraction: 0, EndPos: start}
	}

	expanded := target.MinkowskiExpand(box.HalfExtents())
	origin := mover.Center()
	delta := end.Sub(start)

	enter := math32.Inf(-1)
	exit := math32.Inf(1)
	hitAxis := -1
	for axis := 0; axis < 3; axis++ {
		lo, hi := expanded.Min[axis], expanded.Max[axis]
		o, d := origin[axis], delta[axis]
		if d == 0 {
			// parallel to the slab, either always inside it or never
			if o <= lo || o >= hi {
				return NewTrace(end)
			}
			continue
		}
		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > enter {
			enter = t1
			hitAxis = axis
		}
		if t2 < exit {
			exit = t2
		}
	}

	if hitAxis < 0 || enter >= exit || exit <= 0 || enter > 1 {
		return NewTrace(end)
	}

	var normal mgl32.Vec3
	if delta[hitAxis] > 0 {
		normal[hitAxis] = -1
	} else {
		normal[hitAxis] = 1
	}

	fraction := Clamp(enter-SurfaceEpsilon/Abs(delta[hitAxis]), 0, 1)
	return Trace{
		Fraction: fraction,
		EndPos:   Lerp3(start, end, fraction),
		Normal:   normal,
	}
}
