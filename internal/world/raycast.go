package world

import (
	"github.com/go-gl/mathgl/mgl64"
)

// RayHit describes the nearest intersection found by CastRay. Exactly one of
// ActorID/ObstacleID is populated depending on what the ray struck.
type RayHit struct {
	ActorID    string
	ObstacleID string
	Point      mgl64.Vec3
	Normal     mgl64.Vec3
	Distance   float64
	SurfaceTag string
}

// IgnoreSet filters entities out of a ray cast, typically the aiming actor
// and everything rigidly attached to it.
type IgnoreSet map[string]struct{}

// NewIgnoreSet builds an ignore set from the provided actor IDs, skipping
// empty entries.
func NewIgnoreSet(ids ...string) IgnoreSet {
	set := make(IgnoreSet, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		set[id] = struct{}{}
	}
	return set
}

// Contains reports whether the set holds the provided ID.
func (s IgnoreSet) Contains(id string) bool {
	if len(s) == 0 {
		return false
	}
	_, ok := s[id]
	return ok
}

// CastRay traces a ray through the world and returns the nearest hit across
// actor collision spheres and obstacle boxes, ignoring the provided actor
// IDs. The direction is normalized internally; degenerate directions miss
// everything. ok is false when nothing lies within maxDistance.
func (w *World) CastRay(origin, direction mgl64.Vec3, maxDistance float64, ignore IgnoreSet) (RayHit, bool) {
	if w == nil || maxDistance <= 0 {
		return RayHit{}, false
	}
	dir, valid := SafeNormalize(direction)
	if !valid {
		return RayHit{}, false
	}

	best := RayHit{Distance: maxDistance}
	found := false

	for _, id := range w.order {
		actor := w.actors[id]
		if actor == nil || ignore.Contains(actor.ID) {
			continue
		}
		dist, ok := raySphereIntersect(origin, dir, actor.Position, actor.Radius)
		if !ok || dist >= best.Distance {
			continue
		}
		point := origin.Add(dir.Mul(dist))
		normal, ok := SafeNormalize(point.Sub(actor.Position))
		if !ok {
			normal = dir.Mul(-1)
		}
		best = RayHit{
			ActorID:    actor.ID,
			Point:      point,
			Normal:     normal,
			Distance:   dist,
			SurfaceTag: actor.SurfaceTag,
		}
		found = true
	}

	for _, obstacle := range w.obstacles {
		dist, normal, ok := rayBoxIntersect(origin, dir, obstacle)
		if !ok || dist >= best.Distance {
			continue
		}
		best = RayHit{
			ObstacleID: obstacle.ID,
			Point:      origin.Add(dir.Mul(dist)),
			Normal:     normal,
			Distance:   dist,
			SurfaceTag: obstacle.SurfaceTag,
		}
		found = true
	}

	if !found {
		return RayHit{}, false
	}
	return best, true
}
