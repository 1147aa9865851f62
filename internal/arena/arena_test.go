package arena

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"spellbolt/server/internal/combat"
	"spellbolt/server/internal/events"
	"spellbolt/server/internal/telemetry"
	"spellbolt/server/spells/catalog"
)

const definitionsJSON = `[
  {"id": "flamebolt", "element": "flame", "speed": 3000, "damage": 15, "lifetimeSeconds": 5, "collisionRadius": 15},
  {"id": "frostbolt", "element": "frost", "speed": 2000, "damage": 10, "lifetimeSeconds": 4, "collisionRadius": 12}
]`

type recordingEffects struct {
	impacts []string
	trails  []string
}

func (r *recordingEffects) PlayImpactEffect(name string, _, _ mgl64.Vec3) {
	r.impacts = append(r.impacts, name)
}

func (r *recordingEffects) PlayTrailEffect(name, _ string) {
	r.trails = append(r.trails, name)
}

type arenaHarness struct {
	arena    *Arena
	effects  *recordingEffects
	counters *telemetry.Counters
	captured []events.Event
}

func newArenaHarness(t *testing.T) *arenaHarness {
	t.Helper()
	kinds, err := catalog.Parse([]byte(definitionsJSON))
	if err != nil {
		t.Fatalf("unexpected catalog error: %v", err)
	}
	h := &arenaHarness{
		effects:  &recordingEffects{},
		counters: telemetry.NewCounters(),
	}
	h.arena = New(DefaultConfig(), Deps{
		Catalog:  kinds,
		Effects:  h.effects,
		Counters: h.counters,
	})
	h.arena.Events().Subscribe(func(ev events.Event) {
		h.captured = append(h.captured, ev)
	})
	return h
}

func (h *arenaHarness) spawn(t *testing.T, cfg WizardConfig) *Agent {
	t.Helper()
	agent, err := h.arena.SpawnWizard(cfg)
	if err != nil {
		t.Fatalf("unexpected spawn error: %v", err)
	}
	return agent
}

func (h *arenaHarness) run(ticks int, delta float64) {
	for i := 0; i < ticks; i++ {
		h.arena.Tick(delta)
	}
}

func TestDuelHitReducesHealth(t *testing.T) {
	h := newArenaHarness(t)
	attacker := h.spawn(t, WizardConfig{
		ID:       "wizard-1",
		Position: mgl64.Vec3{0, 0, 0},
		Facing:   mgl64.Vec3{1, 0, 0},
		Team:     1,
	})
	defender := h.spawn(t, WizardConfig{
		ID:       "wizard-2",
		Position: mgl64.Vec3{1000, 0, 0},
		Facing:   mgl64.Vec3{-1, 0, 0},
		Team:     2,
	})

	attacker.Aim.RequestUpdate()
	if !attacker.Aim.IsAimingAt("wizard-2") {
		t.Fatalf("expected attacker aiming at defender, snapshot %+v", attacker.Aim.Snapshot())
	}

	outcome := attacker.Fire.Fire()
	if !outcome.Accepted() {
		t.Fatalf("expected accepted fire, got %s", outcome.Reason)
	}

	// 3000 u/s covers the 1000-unit gap within a second of 50ms ticks.
	h.run(20, 0.05)

	if defender.Health.Health >= defender.Health.MaxHealth {
		t.Fatalf("expected defender damaged, health %f", defender.Health.Health)
	}
	if got := defender.Health.MaxHealth - defender.Health.Health; got != 15 {
		t.Fatalf("expected 15 damage, got %f", got)
	}
	if len(h.effects.impacts) != 0 {
		// Impact effect only plays when the kind names one; flamebolt here
		// carries no effect names.
		t.Fatalf("expected no impact effects for unnamed effect, got %v", h.effects.impacts)
	}
	snap := h.counters.Snapshot()
	if snap.FiresTotal != 1 || snap.ProjectileHits != 1 {
		t.Fatalf("unexpected counters: %+v", snap)
	}
}

func TestFriendlyProjectilePassesThrough(t *testing.T) {
	h := newArenaHarness(t)
	attacker := h.spawn(t, WizardConfig{
		ID:       "wizard-1",
		Position: mgl64.Vec3{0, 0, 0},
		Facing:   mgl64.Vec3{1, 0, 0},
		Team:     1,
		// Level muzzle keeps the shot on the eye line so it continues past
		// the ally straight into the enemy behind.
		Sockets: map[string]mgl64.Vec3{"muzzle": {60, 0, 0}},
	})
	ally := h.spawn(t, WizardConfig{
		ID:       "wizard-2",
		Position: mgl64.Vec3{500, 0, 0},
		Facing:   mgl64.Vec3{-1, 0, 0},
		Team:     1,
	})
	enemy := h.spawn(t, WizardConfig{
		ID:       "wizard-3",
		Position: mgl64.Vec3{1500, 0, 0},
		Facing:   mgl64.Vec3{-1, 0, 0},
		Team:     2,
	})

	attacker.Aim.RequestUpdate()
	if outcome := attacker.Fire.Fire(); !outcome.Accepted() {
		t.Fatalf("expected accepted fire, got %s", outcome.Reason)
	}
	h.run(20, 0.05)

	if ally.Health.Health != ally.Health.MaxHealth {
		t.Fatalf("expected ally untouched, health %f", ally.Health.Health)
	}
	if enemy.Health.Health >= enemy.Health.MaxHealth {
		t.Fatalf("expected projectile to pass the ally and strike the enemy, health %f", enemy.Health.Health)
	}
}

func TestDefeatRemovesWizardFromWorld(t *testing.T) {
	h := newArenaHarness(t)
	attacker := h.spawn(t, WizardConfig{
		ID:       "wizard-1",
		Position: mgl64.Vec3{0, 0, 0},
		Facing:   mgl64.Vec3{1, 0, 0},
		Team:     1,
	})
	h.spawn(t, WizardConfig{
		ID:       "wizard-2",
		Position: mgl64.Vec3{1000, 0, 0},
		Facing:   mgl64.Vec3{-1, 0, 0},
		Team:     2,
	})

	// 15 damage per hit against a 100-point pool needs seven hits.
	for shot := 0; shot < 7; shot++ {
		attacker.Aim.RequestUpdate()
		if outcome := attacker.Fire.Fire(); !outcome.Accepted() {
			t.Fatalf("shot %d rejected: %s", shot, outcome.Reason)
		}
		h.run(20, 0.05)
	}

	defender, _ := h.arena.Agent("wizard-2")
	if !defender.Defeated {
		t.Fatalf("expected defender defeated, health %f", defender.Health.Health)
	}
	if _, stillThere := h.arena.World().Actor("wizard-2"); stillThere {
		t.Fatalf("expected defeated wizard removed from world")
	}
}

func TestProjectileExpiresInOpenAir(t *testing.T) {
	h := newArenaHarness(t)
	attacker := h.spawn(t, WizardConfig{
		ID:       "wizard-1",
		Position: mgl64.Vec3{0, 0, 0},
		Facing:   mgl64.Vec3{1, 0, 0},
		Team:     1,
	})

	attacker.Aim.RequestUpdate()
	if outcome := attacker.Fire.Fire(); !outcome.Accepted() {
		t.Fatalf("expected accepted fire, got %s", outcome.Reason)
	}
	if len(h.arena.Snapshot().Projectiles) != 1 {
		t.Fatalf("expected one live projectile")
	}

	// Flamebolt lifetime is five seconds.
	h.run(110, 0.05)

	if got := len(h.arena.Snapshot().Projectiles); got != 0 {
		t.Fatalf("expected projectile expired, %d still live", got)
	}
	snap := h.counters.Snapshot()
	if snap.ProjectileMisses != 1 || snap.ProjectileHits != 0 {
		t.Fatalf("unexpected counters: %+v", snap)
	}
}

func TestBotTracksAndDefeatsTarget(t *testing.T) {
	h := newArenaHarness(t)
	h.spawn(t, WizardConfig{
		ID:          "bot-1",
		Position:    mgl64.Vec3{0, 0, 0},
		Facing:      mgl64.Vec3{0, 1, 0},
		Team:        1,
		Bot:         true,
		BotTargetID: "wizard-2",
	})
	target := h.spawn(t, WizardConfig{
		ID:       "wizard-2",
		Position: mgl64.Vec3{800, 300, 0},
		Facing:   mgl64.Vec3{-1, 0, 0},
		Team:     2,
	})

	// Seven hits at two per second, plus flight time.
	h.run(200, 0.05)

	if !target.Defeated {
		t.Fatalf("expected bot to defeat target, health %f", target.Health.Health)
	}
}

func TestSnapshotReflectsMatchState(t *testing.T) {
	h := newArenaHarness(t)
	attacker := h.spawn(t, WizardConfig{
		ID:       "wizard-1",
		Position: mgl64.Vec3{0, 0, 0},
		Facing:   mgl64.Vec3{1, 0, 0},
		Team:     1,
	})

	attacker.Aim.RequestUpdate()
	attacker.Fire.Fire()
	h.arena.Tick(0.05)

	snap := h.arena.Snapshot()
	if len(snap.Agents) != 1 || snap.Agents[0].ID != "wizard-1" {
		t.Fatalf("unexpected agents: %+v", snap.Agents)
	}
	if !snap.Agents[0].OnCooldown {
		t.Fatalf("expected agent on cooldown right after firing")
	}
	if len(snap.Projectiles) != 1 || snap.Projectiles[0].KindID != "flamebolt" {
		t.Fatalf("unexpected projectiles: %+v", snap.Projectiles)
	}
	if snap.Tick == 0 {
		t.Fatalf("expected advanced tick in snapshot")
	}
}

func TestFinalTickHitBeatsLifetimeExpiry(t *testing.T) {
	h := newArenaHarness(t)
	attacker := h.spawn(t, WizardConfig{
		ID:       "wizard-1",
		Position: mgl64.Vec3{0, 0, 0},
		Facing:   mgl64.Vec3{1, 0, 0},
		Team:     1,
	})
	target := h.spawn(t, WizardConfig{
		ID:       "wizard-2",
		Position: mgl64.Vec3{58, 0, 0},
		Facing:   mgl64.Vec3{-1, 0, 0},
		Team:     2,
	})

	// Contact lands at x=8, inside the second 5-unit step, and the 0.1s
	// lifetime deadline falls due on that same tick. The hit must win.
	kind := catalog.Kind{ID: "testbolt", Speed: 100, Damage: 5, LifetimeSeconds: 0.1, CollisionRadius: 10}
	if _, err := h.arena.spawnProjectile(attacker, combat.SpawnRequest{
		Position:  mgl64.Vec3{0, 0, 0},
		Direction: mgl64.Vec3{1, 0, 0},
		Kind:      kind,
		OwnerID:   attacker.ID,
	}); err != nil {
		t.Fatalf("unexpected spawn error: %v", err)
	}

	h.run(2, 0.05)

	if got := target.Health.MaxHealth - target.Health.Health; got != 5 {
		t.Fatalf("expected 5 damage on the final tick, got %f", got)
	}
	var terminated []events.ProjectileTerminated
	for _, ev := range h.captured {
		if term, ok := ev.(events.ProjectileTerminated); ok {
			terminated = append(terminated, term)
		}
	}
	if len(terminated) != 1 {
		t.Fatalf("expected one terminal event, got %d", len(terminated))
	}
	if !terminated[0].DidHit {
		t.Fatalf("expected hit to win over same-tick expiry, got %+v", terminated[0])
	}
}
