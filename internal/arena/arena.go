// Package arena assembles the simulation: the world registry, the per-wizard
// aim resolvers and fire controllers, live projectiles, and the bridges into
// structured logging and telemetry.
package arena

import (
	"context"

	"spellbolt/server/internal/events"
	"spellbolt/server/internal/telemetry"
	"spellbolt/server/internal/world"
	"spellbolt/server/logging"
	combatlog "spellbolt/server/logging/combat"
	"spellbolt/server/spells/catalog"
)

// Config tunes the arena's per-wizard components.
type Config struct {
	Aim    AimDefaults
	Combat CombatDefaults

	// MaxHealth is the health pool granted to spawned wizards. Non-positive
	// values fall back to the world default.
	MaxHealth float64
}

// AimDefaults carries the aim tuning applied to every spawned wizard.
type AimDefaults struct {
	AutoRefresh      bool
	InteractableTags []string
	FriendlyTags     []string
}

// CombatDefaults carries the fire tuning applied to every spawned wizard.
type CombatDefaults struct {
	Cooldown          float64
	RespectAimBlocked bool
	DefaultKind       string
}

// DefaultConfig returns the stock duel tuning.
func DefaultConfig() Config {
	return Config{
		Aim: AimDefaults{
			AutoRefresh:      true,
			InteractableTags: []string{"interactable"},
		},
		Combat: CombatDefaults{
			Cooldown:          0.5,
			RespectAimBlocked: true,
			DefaultKind:       "flamebolt",
		},
		MaxHealth: 100,
	}
}

// Deps bundles the external services the arena publishes into.
type Deps struct {
	Catalog  *catalog.Catalog
	Effects  EffectSink
	Log      logging.Publisher
	Counters *telemetry.Counters
	Logger   telemetry.Logger
}

// Arena owns one simulated match. All methods run on the simulation
// goroutine; the transport layer talks to it through the event bus and
// snapshots, never by direct mutation.
type Arena struct {
	cfg  Config
	deps Deps

	world       *world.World
	bus         *events.Bus
	agents      map[string]*Agent
	agentOrder  []string
	projectiles map[string]*liveProjectile
	projOrder   []string
}

// New constructs an empty arena and wires the observability bridge.
func New(cfg Config, deps Deps) *Arena {
	if deps.Effects == nil {
		deps.Effects = NopEffects()
	}
	if deps.Log == nil {
		deps.Log = logging.NopPublisher()
	}
	a := &Arena{
		cfg:         cfg,
		deps:        deps,
		world:       world.New(),
		bus:         events.NewBus(),
		agents:      make(map[string]*Agent),
		projectiles: make(map[string]*liveProjectile),
	}
	a.bus.Subscribe(a.observe)
	return a
}

// World exposes the underlying registry for obstacle setup and inspection.
func (a *Arena) World() *world.World {
	return a.world
}

// Events exposes the gameplay event bus for transport subscribers.
func (a *Arena) Events() *events.Bus {
	return a.bus
}

// Agent returns the live agent with the given ID.
func (a *Arena) Agent(id string) (*Agent, bool) {
	agent, ok := a.agents[id]
	return agent, ok
}

// Tick advances the match by delta seconds: simulation time, then
// projectile flight, then due timers, then per-wizard aim and cooldown
// upkeep. Timers fire after flight so a hit landed on a projectile's final
// tick cancels its lifetime deadline instead of losing to it.
func (a *Arena) Tick(delta float64) {
	if delta <= 0 {
		return
	}
	a.world.AdvanceClock(delta)
	a.tickProjectiles(delta)
	a.world.FireTimers()

	for _, id := range append([]string(nil), a.agentOrder...) {
		agent, ok := a.agents[id]
		if !ok || agent.Defeated {
			continue
		}
		if agent.bot != nil {
			agent.bot.act(a, agent)
		}
		agent.Aim.Tick(delta)
		agent.Fire.Tick()
	}
}

// observe bridges gameplay events into the log router and counters. It runs
// synchronously inside each publish.
func (a *Arena) observe(ev events.Event) {
	ctx := context.Background()
	tick := a.world.Clock().Tick()

	switch ev := ev.(type) {
	case events.FireSucceeded:
		a.deps.Counters.RecordFire(true)
		combatlog.Fire(ctx, a.deps.Log, tick,
			logging.EntityRef{ID: ev.AgentID, Kind: logging.EntityKindWizard},
			combatlog.FirePayload{ProjectileID: ev.ProjectileID, KindID: ev.KindID}, nil)
	case events.FireBlocked:
		a.deps.Counters.RecordFire(false)
		combatlog.FireBlocked(ctx, a.deps.Log, tick,
			logging.EntityRef{ID: ev.AgentID, Kind: logging.EntityKindWizard},
			combatlog.FireBlockedPayload{Reason: ev.Reason, KindID: ev.KindID}, nil)
	case events.ProjectileHit:
		combatlog.ProjectileHit(ctx, a.deps.Log, tick,
			logging.EntityRef{ID: ev.AgentID, Kind: logging.EntityKindWizard},
			logging.EntityRef{ID: ev.TargetID, Kind: logging.EntityKindWizard},
			combatlog.HitPayload{ProjectileID: ev.ProjectileID, Damage: ev.Damage}, nil)
	case events.ProjectileTerminated:
		a.deps.Counters.RecordProjectileEnd(ev.DidHit)
	}
}

func (a *Arena) logf(format string, args ...any) {
	if a.deps.Logger == nil {
		return
	}
	a.deps.Logger.Printf(format, args...)
}
