package world

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestCastRayReturnsNearestActor(t *testing.T) {
	w := New()
	w.AddActor(&Actor{ID: "near", Kind: KindWizard, Position: mgl64.Vec3{10, 0, 0}, Radius: 1})
	w.AddActor(&Actor{ID: "far", Kind: KindWizard, Position: mgl64.Vec3{30, 0, 0}, Radius: 1})

	hit, ok := w.CastRay(mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}, 100, nil)
	if !ok {
		t.Fatalf("expected a hit, got miss")
	}
	if hit.ActorID != "near" {
		t.Fatalf("expected nearest actor 'near', got %q", hit.ActorID)
	}
	if math.Abs(hit.Distance-9) > 1e-6 {
		t.Fatalf("expected hit distance 9, got %f", hit.Distance)
	}
	if math.Abs(hit.Normal.Len()-1) > 1e-9 {
		t.Fatalf("expected unit hit normal, got length %f", hit.Normal.Len())
	}
}

func TestCastRayHonorsIgnoreSet(t *testing.T) {
	w := New()
	w.AddActor(&Actor{ID: "self", Kind: KindWizard, Position: mgl64.Vec3{5, 0, 0}, Radius: 1})
	w.AddActor(&Actor{ID: "wand", Kind: KindProp, Position: mgl64.Vec3{6, 0, 0}, Radius: 0.5, AttachedTo: "self"})
	w.AddActor(&Actor{ID: "target", Kind: KindWizard, Position: mgl64.Vec3{20, 0, 0}, Radius: 1})

	ignore := NewIgnoreSet(append([]string{"self"}, w.AttachedIDs("self")...)...)
	hit, ok := w.CastRay(mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}, 100, ignore)
	if !ok {
		t.Fatalf("expected a hit past the ignored actors")
	}
	if hit.ActorID != "target" {
		t.Fatalf("expected target hit, got %q", hit.ActorID)
	}
}

func TestCastRayPrefersCloserObstacle(t *testing.T) {
	w := New()
	w.AddActor(&Actor{ID: "wizard", Kind: KindWizard, Position: mgl64.Vec3{50, 0, 0}, Radius: 1})
	w.AddObstacle(Obstacle{
		ID:         "wall",
		Min:        mgl64.Vec3{20, -5, -5},
		Max:        mgl64.Vec3{21, 5, 5},
		SurfaceTag: "stone",
	})

	hit, ok := w.CastRay(mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}, 100, nil)
	if !ok {
		t.Fatalf("expected obstacle hit")
	}
	if hit.ObstacleID != "wall" || hit.ActorID != "" {
		t.Fatalf("expected wall hit, got actor=%q obstacle=%q", hit.ActorID, hit.ObstacleID)
	}
	if math.Abs(hit.Distance-20) > 1e-6 {
		t.Fatalf("expected hit distance 20, got %f", hit.Distance)
	}
	if hit.SurfaceTag != "stone" {
		t.Fatalf("expected stone surface tag, got %q", hit.SurfaceTag)
	}
	if !hit.Normal.ApproxEqual(mgl64.Vec3{-1, 0, 0}) {
		t.Fatalf("expected -x normal, got %v", hit.Normal)
	}
}

func TestCastRayMissesEmptyWorld(t *testing.T) {
	w := New()
	if _, ok := w.CastRay(mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}, 10000, nil); ok {
		t.Fatalf("expected miss in empty world")
	}
}

func TestCastRayRejectsDegenerateDirection(t *testing.T) {
	w := New()
	w.AddActor(&Actor{ID: "a", Position: mgl64.Vec3{1, 0, 0}, Radius: 5})
	if _, ok := w.CastRay(mgl64.Vec3{}, mgl64.Vec3{}, 100, nil); ok {
		t.Fatalf("expected degenerate direction to miss")
	}
}

func TestCastRayIgnoresActorsBehindOrigin(t *testing.T) {
	w := New()
	w.AddActor(&Actor{ID: "behind", Position: mgl64.Vec3{-10, 0, 0}, Radius: 1})
	if _, ok := w.CastRay(mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}, 100, nil); ok {
		t.Fatalf("expected actor behind the origin to be ignored")
	}
}
