package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Obstacle is an axis-aligned box of static world geometry. Aim rays resolve
// against obstacles alongside actors; projectiles treat them as inert.
type Obstacle struct {
	ID         string
	Min        mgl64.Vec3
	Max        mgl64.Vec3
	SurfaceTag string
}

// Contains reports whether the point lies inside the obstacle bounds.
func (o Obstacle) Contains(p mgl64.Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < o.Min[i] || p[i] > o.Max[i] {
			return false
		}
	}
	return true
}

// Normalize swaps any inverted min/max extents so downstream intersection
// math never sees a degenerate box.
func (o Obstacle) Normalize() Obstacle {
	for i := 0; i < 3; i++ {
		if o.Min[i] > o.Max[i] {
			o.Min[i], o.Max[i] = o.Max[i], o.Min[i]
		}
	}
	return o
}

// rayBoxIntersect runs the slab test for a ray against an axis-aligned box.
// It returns the entry distance and surface normal; ok is false when the ray
// misses or the box lies behind the origin.
func rayBoxIntersect(origin, dir mgl64.Vec3, box Obstacle) (distance float64, normal mgl64.Vec3, ok bool) {
	tMin := 0.0
	tMax := 1e30
	axis := -1
	sign := 0.0

	for i := 0; i < 3; i++ {
		if dir[i] > -Epsilon && dir[i] < Epsilon {
			if origin[i] < box.Min[i] || origin[i] > box.Max[i] {
				return 0, mgl64.Vec3{}, false
			}
			continue
		}
		inv := 1 / dir[i]
		tNear := (box.Min[i] - origin[i]) * inv
		tFar := (box.Max[i] - origin[i]) * inv
		near := -1.0
		if tNear > tFar {
			tNear, tFar = tFar, tNear
			near = 1.0
		}
		if tNear > tMin {
			tMin = tNear
			axis = i
			sign = near
		}
		if tFar < tMax {
			tMax = tFar
		}
		if tMin > tMax {
			return 0, mgl64.Vec3{}, false
		}
	}

	if axis < 0 {
		// Origin inside the box; treat as immediate contact facing back
		// along the ray.
		return 0, dir.Mul(-1), true
	}

	normal = mgl64.Vec3{}
	normal[axis] = sign
	return tMin, normal, true
}

// raySphereIntersect returns the nearest positive distance at which the ray
// enters a sphere. ok is false when the ray misses or the sphere lies behind
// the origin.
func raySphereIntersect(origin, dir, center mgl64.Vec3, radius float64) (distance float64, ok bool) {
	if radius <= 0 {
		return 0, false
	}
	oc := origin.Sub(center)
	b := oc.Dot(dir)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sqrtDisc := math.Sqrt(disc)
	t := -b - sqrtDisc
	if t < 0 {
		t = -b + sqrtDisc
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}
