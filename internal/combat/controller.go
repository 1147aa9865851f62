// Package combat houses the fire controller: the component that decides
// whether a discharge is currently permitted, computes the trajectory-
// corrected launch vector, and spawns the projectile.
package combat

import (
	"github.com/go-gl/mathgl/mgl64"

	"spellbolt/server/internal/aim"
	"spellbolt/server/internal/events"
	"spellbolt/server/internal/world"
	"spellbolt/server/spells/catalog"
)

// Config tunes a fire controller. Zero values normalize to defaults.
type Config struct {
	// Cooldown is the minimum interval between accepted fires in seconds.
	Cooldown float64

	// MuzzleSocket names the attachment point preferred as the launch
	// position. When the agent exposes no such socket the controller uses
	// MuzzleOffset relative to the agent root instead.
	MuzzleSocket string
	MuzzleOffset mgl64.Vec3

	// RespectAimBlocked gates fire on the resolver's blocked-aim state.
	RespectAimBlocked bool

	// DefaultKind is the catalog ID fired by Fire().
	DefaultKind string
}

// DefaultConfig mirrors the tuning the arena ships with.
func DefaultConfig() Config {
	return Config{
		Cooldown:          0.5,
		MuzzleSocket:      "muzzle",
		MuzzleOffset:      mgl64.Vec3{60, 0, 70},
		RespectAimBlocked: true,
	}
}

func (c Config) normalized() Config {
	if c.Cooldown < 0 {
		c.Cooldown = 0
	}
	return c
}

// AimSource is the slice of the aim resolver the controller consumes. A nil
// source degrades to facing-direction fire rather than failing dispatches.
type AimSource interface {
	RequestUpdate() aim.Snapshot
	GetDirectionFrom(point mgl64.Vec3) mgl64.Vec3
	IsBlocked() bool
}

// KindResolver resolves projectile kind IDs, typically a spell catalog.
type KindResolver interface {
	Resolve(id string) (catalog.Kind, bool)
}

// SpawnRequest carries everything the world needs to create a projectile.
type SpawnRequest struct {
	Position  mgl64.Vec3
	Direction mgl64.Vec3
	Kind      catalog.Kind
	OwnerID   string
}

// SpawnFunc creates a projectile and returns its ID. Any error surfaces to
// the caller as a SpawnFailed rejection.
type SpawnFunc func(SpawnRequest) (string, error)

// Deps bundles the adapters a controller needs without importing the arena.
type Deps struct {
	// AgentID names the firing actor in event payloads and spawn requests.
	AgentID string

	// Aim supplies trajectory correction; nil degrades to facing fire.
	Aim AimSource

	// Kinds resolves named projectile kinds; nil makes every named
	// dispatch fail with NoProjectileKind.
	Kinds KindResolver

	// SocketPosition and OffsetPosition resolve the muzzle location.
	SocketPosition func(name string) (mgl64.Vec3, bool)
	OffsetPosition func(offset mgl64.Vec3) mgl64.Vec3

	// Facing supplies the fallback launch direction.
	Facing func() mgl64.Vec3

	// Clock returns simulation seconds for the cooldown gate.
	Clock func() float64

	// Spawn creates the projectile in the world.
	Spawn SpawnFunc

	// Publisher receives fire-succeeded, fire-blocked, and cooldown events.
	Publisher events.Publisher
}

// Controller gates and dispatches projectile launches for one agent. It is
// single-threaded like the rest of the simulation; a dispatch runs to
// completion before anything else observes its effects.
type Controller struct {
	cfg  Config
	deps Deps
	gate Gate

	wasOnCooldown bool
}

// NewController builds a controller with normalized configuration.
func NewController(cfg Config, deps Deps) *Controller {
	cfg = cfg.normalized()
	return &Controller{cfg: cfg, deps: deps, gate: NewGate(cfg.Cooldown)}
}

// Config returns the normalized configuration in effect.
func (c *Controller) Config() Config {
	return c.cfg
}

// Fire dispatches the default projectile kind.
func (c *Controller) Fire() FireOutcome {
	if c.cfg.DefaultKind == "" {
		return c.reject(BlockNoProjectileKind, "")
	}
	return c.FireKind(c.cfg.DefaultKind)
}

// FireKind dispatches a kind by catalog ID.
func (c *Controller) FireKind(kindID string) FireOutcome {
	if c.deps.Kinds == nil {
		return c.reject(BlockNoProjectileKind, kindID)
	}
	kind, ok := c.deps.Kinds.Resolve(kindID)
	if !ok {
		return c.reject(BlockNoProjectileKind, kindID)
	}
	return c.dispatch(kind)
}

// FireSpec dispatches an explicit, already-resolved kind.
func (c *Controller) FireSpec(kind catalog.Kind) FireOutcome {
	if kind.ID == "" {
		return c.reject(BlockNoProjectileKind, "")
	}
	return c.dispatch(kind)
}

// dispatch applies the gating sequence uniformly for every fire path:
// kind, cooldown, blocked aim, muzzle, trajectory correction, spawn.
func (c *Controller) dispatch(kind catalog.Kind) FireOutcome {
	now := c.now()

	if !c.gate.Ready(now) {
		outcome := c.reject(BlockOnCooldown, kind.ID)
		outcome.Remaining = c.gate.Remaining(now)
		return outcome
	}

	if c.cfg.RespectAimBlocked && c.deps.Aim != nil && c.deps.Aim.IsBlocked() {
		return c.reject(BlockAimBlocked, kind.ID)
	}

	if c.deps.Aim == nil && c.deps.Facing == nil {
		return c.reject(BlockNoAimSource, kind.ID)
	}

	muzzle := c.MuzzlePosition()
	direction := c.launchDirection(muzzle)

	if c.deps.Spawn == nil {
		return c.reject(BlockSpawnFailed, kind.ID)
	}
	projectileID, err := c.deps.Spawn(SpawnRequest{
		Position:  muzzle,
		Direction: direction,
		Kind:      kind,
		OwnerID:   c.deps.AgentID,
	})
	if err != nil || projectileID == "" {
		return c.reject(BlockSpawnFailed, kind.ID)
	}

	c.gate.Trigger(now)
	c.wasOnCooldown = c.gate.Cooldown() > 0
	if c.wasOnCooldown {
		c.publish(events.CooldownStateChanged{
			AgentID:    c.deps.AgentID,
			OnCooldown: true,
			Remaining:  c.gate.Cooldown(),
		})
	}

	c.publish(events.FireSucceeded{
		AgentID:      c.deps.AgentID,
		ProjectileID: projectileID,
		KindID:       kind.ID,
		Direction:    direction,
	})

	return FireOutcome{ProjectileID: projectileID, KindID: kind.ID, Direction: direction}
}

// launchDirection computes the trajectory-corrected launch vector. Firing
// straight out of the muzzle would visibly miss the reticle's target
// whenever muzzle and eye-line diverge, so the controller asks the resolver
// for the direction from the muzzle to the current aim point.
func (c *Controller) launchDirection(muzzle mgl64.Vec3) mgl64.Vec3 {
	if c.deps.Aim != nil {
		c.deps.Aim.RequestUpdate()
		return c.deps.Aim.GetDirectionFrom(muzzle)
	}
	return c.facing()
}

// CanFire reports whether a default-kind dispatch would currently be
// accepted, without side effects.
func (c *Controller) CanFire() bool {
	return c.canFireKind(c.cfg.DefaultKind)
}

// CanFireKind reports whether a dispatch of the named kind would currently
// be accepted, without side effects.
func (c *Controller) CanFireKind(kindID string) bool {
	return c.canFireKind(kindID)
}

func (c *Controller) canFireKind(kindID string) bool {
	if kindID == "" || c.deps.Kinds == nil {
		return false
	}
	if _, ok := c.deps.Kinds.Resolve(kindID); !ok {
		return false
	}
	if !c.gate.Ready(c.now()) {
		return false
	}
	if c.cfg.RespectAimBlocked && c.deps.Aim != nil && c.deps.Aim.IsBlocked() {
		return false
	}
	return true
}

// CooldownRemaining returns the seconds left before the gate reopens.
func (c *Controller) CooldownRemaining() float64 {
	return c.gate.Remaining(c.now())
}

// CooldownProgress returns recovery as a 0..1 fraction; 1 means ready.
func (c *Controller) CooldownProgress() float64 {
	return c.gate.Progress(c.now())
}

// MuzzlePosition resolves the launch point: the named socket when the agent
// exposes one, otherwise the synthetic offset maintained relative to the
// agent root.
func (c *Controller) MuzzlePosition() mgl64.Vec3 {
	if c.deps.SocketPosition != nil && c.cfg.MuzzleSocket != "" {
		if position, ok := c.deps.SocketPosition(c.cfg.MuzzleSocket); ok {
			return position
		}
	}
	if c.deps.OffsetPosition != nil {
		return c.deps.OffsetPosition(c.cfg.MuzzleOffset)
	}
	return c.cfg.MuzzleOffset
}

// Tick publishes the Cooling→Ready edge of the cooldown gate. The
// Ready→Cooling edge publishes inside dispatch, so HUD consumers see both
// transitions without polling.
func (c *Controller) Tick() {
	onCooldown := !c.gate.Ready(c.now())
	if onCooldown == c.wasOnCooldown {
		return
	}
	c.wasOnCooldown = onCooldown
	c.publish(events.CooldownStateChanged{
		AgentID:    c.deps.AgentID,
		OnCooldown: onCooldown,
		Remaining:  c.CooldownRemaining(),
	})
}

func (c *Controller) publish(ev events.Event) {
	if c.deps.Publisher == nil {
		return
	}
	c.deps.Publisher.Publish(ev)
}

func (c *Controller) reject(reason BlockReason, kindID string) FireOutcome {
	c.publish(events.FireBlocked{
		AgentID: c.deps.AgentID,
		Reason:  reason.String(),
		KindID:  kindID,
	})
	return FireOutcome{Reason: reason, KindID: kindID}
}

func (c *Controller) facing() mgl64.Vec3 {
	if c.deps.Facing == nil {
		return mgl64.Vec3{1, 0, 0}
	}
	facing, ok := world.SafeNormalize(c.deps.Facing())
	if !ok {
		return mgl64.Vec3{1, 0, 0}
	}
	return facing
}

func (c *Controller) now() float64 {
	if c.deps.Clock == nil {
		return 0
	}
	return c.deps.Clock()
}
