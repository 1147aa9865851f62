package arena

import (
	"context"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"spellbolt/server/internal/aim"
	"spellbolt/server/internal/combat"
	"spellbolt/server/internal/projectile"
	"spellbolt/server/internal/world"
	"spellbolt/server/logging"
	combatlog "spellbolt/server/logging/combat"
	"spellbolt/server/logging/lifecycle"
)

const defaultWizardRadius = 40

// WizardConfig describes one wizard entering the arena.
type WizardConfig struct {
	ID           string
	ControllerID string
	Position     mgl64.Vec3
	Facing       mgl64.Vec3
	Team         world.TeamID
	Radius       float64
	Tags         []string

	// Sockets are attachment offsets in the wizard's facing basis. A socket
	// named "muzzle" takes precedence over the synthetic muzzle offset.
	Sockets map[string]mgl64.Vec3

	// Camera, when set, aims the wizard through a viewpoint deprojection
	// instead of position-along-facing.
	Camera *world.Camera

	// DefaultKind overrides the arena-wide default projectile for this
	// wizard.
	DefaultKind string

	// Bot attaches a duel brain that tracks and fires at BotTargetID.
	Bot         bool
	BotTargetID string
}

// Agent is one live wizard: its actor, health pool, aim resolver, and fire
// controller.
type Agent struct {
	ID           string
	ControllerID string
	Health       world.HealthState
	Aim          *aim.Resolver
	Fire         *combat.Controller
	Defeated     bool

	actor  *world.Actor
	camera *world.Camera
	bot    *duelBot
}

// Position returns the agent's current world position.
func (ag *Agent) Position() mgl64.Vec3 {
	return ag.actor.Position
}

// Facing returns the agent's unit facing.
func (ag *Agent) Facing() mgl64.Vec3 {
	return ag.actor.ForwardVector()
}

// SetFacing updates the facing direction, ignoring degenerate vectors.
func (ag *Agent) SetFacing(facing mgl64.Vec3) {
	if dir, ok := world.SafeNormalize(facing); ok {
		ag.actor.Facing = dir
	}
}

// MoveTo teleports the agent root.
func (ag *Agent) MoveTo(position mgl64.Vec3) {
	ag.actor.Position = position
}

// SpawnWizard registers a wizard and wires its aim and fire components.
func (a *Arena) SpawnWizard(cfg WizardConfig) (*Agent, error) {
	if cfg.ID == "" {
		return nil, fmt.Errorf("arena: wizard id required")
	}
	if _, exists := a.agents[cfg.ID]; exists {
		return nil, fmt.Errorf("arena: wizard %q already spawned", cfg.ID)
	}
	radius := cfg.Radius
	if radius <= 0 {
		radius = defaultWizardRadius
	}

	actor := &world.Actor{
		ID:         cfg.ID,
		Kind:       world.KindWizard,
		Position:   cfg.Position,
		Facing:     cfg.Facing,
		Team:       cfg.Team,
		Radius:     radius,
		Tags:       cfg.Tags,
		Controller: cfg.ControllerID,
		Sockets:    cfg.Sockets,
		SurfaceTag: "flesh",
	}
	if !a.world.AddActor(actor) {
		return nil, fmt.Errorf("arena: world rejected wizard %q", cfg.ID)
	}

	agent := &Agent{
		ID:           cfg.ID,
		ControllerID: cfg.ControllerID,
		Health:       world.NewHealthState(a.cfg.MaxHealth),
		actor:        actor,
		camera:       cfg.Camera,
	}

	aimCfg := aim.DefaultConfig()
	aimCfg.AutoRefresh = a.cfg.Aim.AutoRefresh
	aimCfg.InteractableTags = a.cfg.Aim.InteractableTags
	aimCfg.FriendlyTags = a.cfg.Aim.FriendlyTags
	agent.Aim = aim.NewResolver(aimCfg, aim.Deps{
		AgentID:  cfg.ID,
		Position: func() mgl64.Vec3 { return actor.Position },
		Facing:   func() mgl64.Vec3 { return actor.ForwardVector() },
		Camera: func() (world.Camera, bool) {
			if agent.camera == nil {
				return world.Camera{}, false
			}
			return *agent.camera, true
		},
		CastRay: func(origin, direction mgl64.Vec3, maxDistance float64) (world.RayHit, bool) {
			ignore := world.NewIgnoreSet(append(a.world.AttachedIDs(cfg.ID), cfg.ID)...)
			return a.world.CastRay(origin, direction, maxDistance, ignore)
		},
		TeamOf: a.world.TeamOf,
		HasAnyTag: func(id string, tags []string) bool {
			target, ok := a.world.Actor(id)
			return ok && target.HasAnyTag(tags)
		},
		Clock:     a.world.Clock().Seconds,
		Publisher: a.bus,
	})

	fireCfg := combat.DefaultConfig()
	fireCfg.Cooldown = a.cfg.Combat.Cooldown
	fireCfg.RespectAimBlocked = a.cfg.Combat.RespectAimBlocked
	fireCfg.DefaultKind = a.cfg.Combat.DefaultKind
	if cfg.DefaultKind != "" {
		fireCfg.DefaultKind = cfg.DefaultKind
	}
	agent.Fire = combat.NewController(fireCfg, combat.Deps{
		AgentID:        cfg.ID,
		Aim:            agent.Aim,
		Kinds:          a.deps.Catalog,
		SocketPosition: actor.SocketPosition,
		OffsetPosition: actor.OffsetPosition,
		Facing:         actor.ForwardVector,
		Clock:          a.world.Clock().Seconds,
		Spawn: func(req combat.SpawnRequest) (string, error) {
			return a.spawnProjectile(agent, req)
		},
		Publisher: a.bus,
	})

	if cfg.Bot {
		agent.bot = &duelBot{targetID: cfg.BotTargetID}
	}

	a.agents[cfg.ID] = agent
	a.agentOrder = append(a.agentOrder, cfg.ID)

	lifecycle.WizardSpawned(context.Background(), a.deps.Log, a.world.Clock().Tick(),
		logging.EntityRef{ID: cfg.ID, Kind: logging.EntityKindWizard},
		lifecycle.WizardSpawnedPayload{
			SpawnX: cfg.Position.X(),
			SpawnY: cfg.Position.Y(),
			SpawnZ: cfg.Position.Z(),
			Team:   int(cfg.Team),
		})
	return agent, nil
}

// applyDamage is the damage sink projectiles terminate in. Hits on bodies
// without a health pool are logged and otherwise ignored.
func (a *Arena) applyDamage(targetID string, amount float64, impact projectile.Impact, instigatorID, ownerID string) {
	agent, ok := a.agents[targetID]
	if !ok {
		return
	}
	absorbed := agent.Health.ApplyDamage(amount)
	if absorbed <= 0 {
		return
	}

	ctx := context.Background()
	tick := a.world.Clock().Tick()
	attacker := logging.EntityRef{ID: ownerID, Kind: logging.EntityKindWizard}
	target := logging.EntityRef{ID: targetID, Kind: logging.EntityKindWizard}
	combatlog.Damage(ctx, a.deps.Log, tick, attacker, target,
		combatlog.DamagePayload{Amount: absorbed, TargetHealth: agent.Health.Health}, nil)

	if !agent.Health.Alive() {
		a.defeat(agent, attacker)
	}
}

// defeat retires a wizard: the actor leaves the world so projectiles and aim
// rays no longer see it, but the agent record survives for final state
// reporting.
func (a *Arena) defeat(agent *Agent, attacker logging.EntityRef) {
	if agent.Defeated {
		return
	}
	agent.Defeated = true
	a.world.RemoveActor(agent.ID)

	ctx := context.Background()
	tick := a.world.Clock().Tick()
	target := logging.EntityRef{ID: agent.ID, Kind: logging.EntityKindWizard}
	combatlog.Defeat(ctx, a.deps.Log, tick, attacker, target, combatlog.DefeatPayload{}, nil)
	lifecycle.WizardDefeated(ctx, a.deps.Log, tick, target)
	a.logf("wizard %s defeated", agent.ID)
}
