package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera models a viewpoint that can deproject a reticle screen position
// into a world-space ray. Player-controlled wizards aim through a camera;
// agents without one aim along their facing instead.
type Camera struct {
	Position mgl64.Vec3
	Forward  mgl64.Vec3

	// FOVDegrees is the vertical field of view. Non-positive values fall
	// back to 90 degrees.
	FOVDegrees float64

	// Aspect is the viewport width/height ratio. Non-positive values fall
	// back to 16:9.
	Aspect float64
}

// Deproject converts a reticle position in normalized screen coordinates
// (0,0 top-left, 1,1 bottom-right) into a world-space ray origin and unit
// direction.
func (c Camera) Deproject(reticle mgl64.Vec2) (origin, direction mgl64.Vec3) {
	fov := c.FOVDegrees
	if fov <= 0 {
		fov = 90
	}
	aspect := c.Aspect
	if aspect <= 0 {
		aspect = 16.0 / 9.0
	}

	forward, right, up := FacingBasis(c.Forward)
	tanHalf := math.Tan(fov * math.Pi / 360)

	// Screen space has y growing downward; flip it for world up.
	ndcX := (Clamp(reticle.X(), 0, 1) - 0.5) * 2
	ndcY := (0.5 - Clamp(reticle.Y(), 0, 1)) * 2

	dir := forward.
		Add(right.Mul(ndcX * tanHalf * aspect)).
		Add(up.Mul(ndcY * tanHalf))
	unit, ok := SafeNormalize(dir)
	if !ok {
		unit = forward
	}
	return c.Position, unit
}
