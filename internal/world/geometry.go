package world

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the tolerance used when comparing world-space scalars.
const Epsilon = 1e-9

// Up is the world up axis. Sockets and synthetic muzzle offsets are expressed
// in the forward/right/up basis derived from an actor's facing and this axis.
var Up = mgl64.Vec3{0, 0, 1}

// Clamp limits value to the range [min, max].
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// SafeNormalize returns the unit vector along v. The boolean reports whether
// v carried enough length to normalize; callers receive the zero vector when
// it did not.
func SafeNormalize(v mgl64.Vec3) (mgl64.Vec3, bool) {
	length := v.Len()
	if length < Epsilon {
		return mgl64.Vec3{}, false
	}
	return v.Mul(1 / length), true
}

// Dist returns the distance between two points.
func Dist(a, b mgl64.Vec3) float64 {
	return b.Sub(a).Len()
}

// FacingBasis derives the right and up vectors for the provided facing
// direction. Facings parallel to the world up axis fall back to an x-forward
// basis so sockets remain well defined.
func FacingBasis(facing mgl64.Vec3) (forward, right, up mgl64.Vec3) {
	forward, ok := SafeNormalize(facing)
	if !ok {
		forward = mgl64.Vec3{1, 0, 0}
	}
	right, ok = SafeNormalize(forward.Cross(Up))
	if !ok {
		right = mgl64.Vec3{0, 1, 0}
	}
	up = right.Cross(forward)
	return forward, right, up
}
