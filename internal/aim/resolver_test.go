package aim

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"spellbolt/server/internal/events"
	"spellbolt/server/internal/world"
)

type resolverHarness struct {
	world    *world.World
	agent    *world.Actor
	bus      *events.Bus
	resolver *Resolver
	captured []events.Event
}

func newResolverHarness(t *testing.T, cfg Config) *resolverHarness {
	t.Helper()

	w := world.New()
	agent := &world.Actor{
		ID:       "wizard-1",
		Kind:     world.KindWizard,
		Position: mgl64.Vec3{0, 0, 0},
		Facing:   mgl64.Vec3{1, 0, 0},
		Team:     1,
		Radius:   30,
	}
	if !w.AddActor(agent) {
		t.Fatalf("failed to register aiming agent")
	}

	h := &resolverHarness{world: w, agent: agent, bus: events.NewBus()}
	h.bus.Subscribe(func(ev events.Event) {
		h.captured = append(h.captured, ev)
	})

	ignore := world.NewIgnoreSet(agent.ID)
	h.resolver = NewResolver(cfg, Deps{
		AgentID:  agent.ID,
		Position: func() mgl64.Vec3 { return agent.Position },
		Facing:   func() mgl64.Vec3 { return agent.Facing },
		CastRay: func(origin, direction mgl64.Vec3, maxDistance float64) (world.RayHit, bool) {
			return w.CastRay(origin, direction, maxDistance, ignore)
		},
		TeamOf:    w.TeamOf,
		HasAnyTag: func(id string, tags []string) bool { actor, ok := w.Actor(id); return ok && actor.HasAnyTag(tags) },
		Clock:     w.Clock().Seconds,
		Publisher: h.bus,
	})
	return h
}

func (h *resolverHarness) eventsOfKind(kind events.Kind) []events.Event {
	var matched []events.Event
	for _, ev := range h.captured {
		if ev.EventKind() == kind {
			matched = append(matched, ev)
		}
	}
	return matched
}

func TestRequestUpdateEmptyWorldScenario(t *testing.T) {
	h := newResolverHarness(t, Config{MaxDistance: 10000})

	snapshot := h.resolver.RequestUpdate()

	if snapshot.DidHit {
		t.Fatalf("expected miss in empty world")
	}
	if !snapshot.AimLocation.ApproxEqualThreshold(mgl64.Vec3{10000, 0, 0}, 1e-6) {
		t.Fatalf("expected aim location at ray far end, got %v", snapshot.AimLocation)
	}
	if snapshot.Classification != ClassNothing {
		t.Fatalf("expected Nothing classification, got %s", snapshot.Classification)
	}
	if math.Abs(snapshot.AimDirection.Len()-1) > 1e-9 {
		t.Fatalf("expected unit aim direction on miss, got length %f", snapshot.AimDirection.Len())
	}
	if snapshot.HitDistance != 10000 {
		t.Fatalf("expected hit distance at max range, got %f", snapshot.HitDistance)
	}
}

func TestGetDirectionFromCorrectsForMuzzleOffset(t *testing.T) {
	h := newResolverHarness(t, DefaultConfig())
	h.world.AddActor(&world.Actor{
		ID:       "dummy",
		Kind:     world.KindProp,
		Position: mgl64.Vec3{1000, 0, 0},
		Radius:   0.5,
	})

	h.resolver.RequestUpdate()

	muzzle := mgl64.Vec3{0, 0, 70}
	direction := h.resolver.GetDirectionFrom(muzzle)

	if direction.Z() >= 0 {
		t.Fatalf("expected downward correction from elevated muzzle, got %v", direction)
	}
	if math.Abs(direction.Len()-1) > 1e-9 {
		t.Fatalf("expected unit direction, got length %f", direction.Len())
	}
	if direction.ApproxEqual(h.agent.ForwardVector()) {
		t.Fatalf("expected corrected direction to differ from raw facing")
	}
}

func TestGetDirectionFromFallsBackWhenReversed(t *testing.T) {
	h := newResolverHarness(t, DefaultConfig())
	h.resolver.RequestUpdate()

	// A point far beyond the aim location makes the correction point back
	// toward the agent; the resolver must fall back to facing.
	behind := mgl64.Vec3{20000, 0, 0}
	direction := h.resolver.GetDirectionFrom(behind)
	if !direction.ApproxEqual(mgl64.Vec3{1, 0, 0}) {
		t.Fatalf("expected facing fallback, got %v", direction)
	}
}

func TestChangeSuppressionOnStaticWorld(t *testing.T) {
	h := newResolverHarness(t, DefaultConfig())
	h.world.AddActor(&world.Actor{
		ID:       "statue",
		Kind:     world.KindProp,
		Position: mgl64.Vec3{500, 0, 0},
		Radius:   20,
	})

	h.resolver.RequestUpdate()
	initialTargetEvents := len(h.eventsOfKind(events.KindAimTargetChanged))
	initialLocationEvents := len(h.eventsOfKind(events.KindAimLocationUpdated))

	for i := 0; i < 10; i++ {
		h.resolver.RequestUpdate()
	}

	if got := len(h.eventsOfKind(events.KindAimTargetChanged)); got != initialTargetEvents {
		t.Fatalf("expected no target-changed events after first resolution, got %d extra", got-initialTargetEvents)
	}
	if got := len(h.eventsOfKind(events.KindAimLocationUpdated)); got != initialLocationEvents {
		t.Fatalf("expected no location-updated events after first resolution, got %d extra", got-initialLocationEvents)
	}
}

func TestTargetChangeEmitsNotification(t *testing.T) {
	h := newResolverHarness(t, DefaultConfig())
	statue := &world.Actor{ID: "statue", Kind: world.KindProp, Position: mgl64.Vec3{500, 0, 0}, Radius: 20}
	h.world.AddActor(statue)

	h.resolver.RequestUpdate()
	h.world.RemoveActor("statue")
	h.resolver.RequestUpdate()

	changes := h.eventsOfKind(events.KindAimTargetChanged)
	if len(changes) != 2 {
		t.Fatalf("expected 2 target-changed events (acquire, lose), got %d", len(changes))
	}
	last := changes[len(changes)-1].(events.AimTargetChanged)
	if last.TargetID != "" {
		t.Fatalf("expected empty target after removal, got %q", last.TargetID)
	}
}

func TestBlockedStateTransitions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinAimDistance = 50
	h := newResolverHarness(t, cfg)

	h.resolver.RequestUpdate()
	if h.resolver.IsBlocked() {
		t.Fatalf("expected clear aim in empty world")
	}

	h.world.AddObstacle(world.Obstacle{
		ID:  "wall",
		Min: mgl64.Vec3{10, -50, -50},
		Max: mgl64.Vec3{12, 50, 50},
	})
	h.resolver.RequestUpdate()
	if !h.resolver.IsBlocked() {
		t.Fatalf("expected blocked aim against near wall")
	}

	blockedEvents := h.eventsOfKind(events.KindAimBlockedChanged)
	if len(blockedEvents) != 1 {
		t.Fatalf("expected exactly one blocked transition, got %d", len(blockedEvents))
	}
	if ev := blockedEvents[0].(events.AimBlockedChanged); !ev.Blocked {
		t.Fatalf("expected blocked=true transition")
	}

	// Repeated updates with unchanged blockage stay silent.
	h.resolver.RequestUpdate()
	if got := len(h.eventsOfKind(events.KindAimBlockedChanged)); got != 1 {
		t.Fatalf("expected no further blocked transitions, got %d", got)
	}
}

func TestClassificationPriorityOrder(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InteractableTags = []string{"interactable"}
	cfg.FriendlyTags = []string{"companion"}
	h := newResolverHarness(t, cfg)

	cases := []struct {
		name  string
		actor *world.Actor
		want  Classification
	}{
		{
			name:  "interactable tag beats team",
			actor: &world.Actor{ID: "lever", Tags: []string{"interactable"}, Team: 2},
			want:  ClassInteractable,
		},
		{
			name:  "friendly tag beats hostile team",
			actor: &world.Actor{ID: "pet", Tags: []string{"companion"}, Team: 2},
			want:  ClassFriendly,
		},
		{
			name:  "same team is friendly",
			actor: &world.Actor{ID: "ally", Team: 1},
			want:  ClassFriendly,
		},
		{
			name:  "different team is enemy",
			actor: &world.Actor{ID: "foe", Team: 2},
			want:  ClassEnemy,
		},
		{
			name:  "no team defaults to world",
			actor: &world.Actor{ID: "crate", Team: world.TeamNone},
			want:  ClassWorld,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.actor.Position = mgl64.Vec3{300, 0, 0}
			tc.actor.Radius = 10
			if !h.world.AddActor(tc.actor) {
				t.Fatalf("failed to add actor %q", tc.actor.ID)
			}
			defer h.world.RemoveActor(tc.actor.ID)

			snapshot := h.resolver.RequestUpdate()
			if snapshot.TargetID != tc.actor.ID {
				t.Fatalf("expected ray to strike %q, got %q", tc.actor.ID, snapshot.TargetID)
			}
			if snapshot.Classification != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, snapshot.Classification)
			}
		})
	}
}

func TestClassifySelf(t *testing.T) {
	h := newResolverHarness(t, DefaultConfig())
	if got := h.resolver.Classify(h.agent.ID); got != ClassSelf {
		t.Fatalf("expected self classification, got %s", got)
	}
}

func TestCameraAimOverridesFacing(t *testing.T) {
	h := newResolverHarness(t, DefaultConfig())
	camera := world.Camera{
		Position: mgl64.Vec3{-100, 0, 80},
		Forward:  mgl64.Vec3{1, 0, 0},
	}
	h.resolver.deps.Camera = func() (world.Camera, bool) { return camera, true }

	h.world.AddActor(&world.Actor{ID: "target", Position: mgl64.Vec3{400, 0, 80}, Radius: 20})
	snapshot := h.resolver.RequestUpdate()

	if snapshot.TargetID != "target" {
		t.Fatalf("expected camera ray to strike elevated target, got %q", snapshot.TargetID)
	}
	if !snapshot.DidHit {
		t.Fatalf("expected camera ray hit")
	}
}

func TestAutoRefreshTicksAtInterval(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AutoRefresh = true
	cfg.AutoRefreshInterval = 0.05
	h := newResolverHarness(t, cfg)

	updates := 0
	h.resolver.deps.CastRay = func(origin, direction mgl64.Vec3, maxDistance float64) (world.RayHit, bool) {
		updates++
		return world.RayHit{}, false
	}

	for i := 0; i < 5; i++ {
		h.resolver.Tick(0.016)
	}

	if updates != 1 {
		t.Fatalf("expected exactly one auto-refresh after 80ms of 50ms interval, got %d", updates)
	}
}

func TestAimDirectionAlwaysUnitLength(t *testing.T) {
	h := newResolverHarness(t, DefaultConfig())
	h.world.AddActor(&world.Actor{ID: "near", Position: mgl64.Vec3{60, 10, -20}, Radius: 15})

	for i := 0; i < 3; i++ {
		snapshot := h.resolver.RequestUpdate()
		if math.Abs(snapshot.AimDirection.Len()-1) > 1e-9 {
			t.Fatalf("expected unit aim direction, got length %f", snapshot.AimDirection.Len())
		}
		h.world.RemoveActor("near")
	}
}
