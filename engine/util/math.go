package util

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Overclip is the bias applied when clipping a velocity into a plane. Slightly above one,
// so the clipped velocity points marginally away from the plane.
const Overclip = 1.001

var (
	UpVector   = mgl32.Vec3{0, 1, 0}
	ZeroVector = mgl32.Vec3{}
)

func Abs(x float32) float32 {
	return math32.Abs(x)
}

func Min(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func Max(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func Clamp(value, min, max float32) float32 {
	return Min(Max(value, min), max)
}

func Mix(a, b, factor float32) float32 {
	return a*(1-factor) + factor*b
}

func Lerp3(one, two mgl32.Vec3, factor float32) mgl32.Vec3 {
	return mgl32.Vec3{Mix(one.X(), two.X(), factor), Mix(one.Y(), two.Y(), factor), Mix(one.Z(), two.Z(), factor)}
}

// SafeNormalize returns v scaled to unit length. The zero vector is returned unchanged,
// mgl32's Normalize would divide by zero there.
func SafeNormalize(v mgl32.Vec3) mgl32.Vec3 {
	length := math32.Sqrt(v.Dot(v))
	if length == 0 {
		return v
	}
	inv := 1 / length
	return mgl32.Vec3{v[0] * inv, v[1] * inv, v[2] * inv}
}

// NormalizeWithLength is SafeNormalize that also hands back the original length.
func NormalizeWithLength(v mgl32.Vec3) (mgl32.Vec3, float32) {
	length := math32.Sqrt(v.Dot(v))
	if length == 0 {
		return v, 0
	}
	inv := 1 / length
	return mgl32.Vec3{v[0] * inv, v[1] * inv, v[2] * inv}, length
}

// ClipVelocity removes the part of v that goes into the plane with the given normal.
// The removed amount is scaled by overbounce when v enters the plane and divided by it
// otherwise.
func ClipVelocity(v, normal mgl32.Vec3, overbounce float32) mgl32.Vec3 {
	backoff := v.Dot(normal)
	if backoff < 0 {
		backoff *= overbounce
	} else {
		backoff /= overbounce
	}
	return v.Sub(normal.Mul(backoff))
}

func IsFinite(v mgl32.Vec3) bool {
	for _, c := range v {
		if math32.IsNaN(c) || math32.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func HorizontalLength(v mgl32.Vec3) float32 {
	return math32.Sqrt(v.X()*v.X() + v.Z()*v.Z())
}
