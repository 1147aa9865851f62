// Package projectile implements the self-terminating spell projectile:
// straight constant-speed travel, exactly one resolving hit, and a
// cancellable lifetime timer for the expiry path.
package projectile

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"

	"spellbolt/server/internal/events"
	"spellbolt/server/internal/world"
)

// Phase tracks the projectile lifecycle. The only transitions are
// InFlight→Resolved (hit) and InFlight→Expired (timeout); both are terminal.
type Phase int

const (
	PhaseInFlight Phase = iota
	PhaseResolved
	PhaseExpired
)

// String returns a readable phase name for logs.
func (p Phase) String() string {
	switch p {
	case PhaseInFlight:
		return "in_flight"
	case PhaseResolved:
		return "resolved"
	case PhaseExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Impact carries hit geometry for the damage sink and effect playback.
type Impact struct {
	Point  mgl64.Vec3
	Normal mgl64.Vec3
}

// Hooks bundle the external collaborators a projectile touches, so the
// entity never imports the arena: the team query, the damage sink, effect
// playback, the event publisher, and world removal.
type Hooks struct {
	// TeamOf answers the team/faction query; absence means "no team".
	TeamOf func(id string) (world.TeamID, bool)

	// ApplyDamage is the single damage-application call. The projectile
	// does not know how health or death is represented.
	ApplyDamage func(targetID string, amount float64, impact Impact, instigatorID, ownerID string)

	// PlayImpactEffect and PlayTrailEffect are fire-and-forget
	// notifications with no completion signal.
	PlayImpactEffect func(name string, location, normal mgl64.Vec3)
	PlayTrailEffect  func(name, projectileID string)

	// Publisher receives projectile-hit and projectile-terminated events.
	Publisher events.Publisher

	// Remove pulls the projectile's actor out of the world once it
	// terminates.
	Remove func(projectileID string)
}

// State is a live projectile. It is the sole owner of its termination
// decision: nothing external destroys it except the expiry timer it
// registers itself.
type State struct {
	ID           string
	KindID       string
	Element      string
	Position     mgl64.Vec3
	Direction    mgl64.Vec3
	Speed        float64
	Damage       float64
	Radius       float64
	OwnerID      string
	InstigatorID string
	Team         world.TeamID
	HasTeam      bool
	TrailEffect  string
	ImpactEffect string

	phase    Phase
	didHit   bool
	lifetime *world.Timer
	hooks    Hooks
}

// SpawnConfig carries everything needed to launch a projectile.
type SpawnConfig struct {
	ID        string
	KindID    string
	Element   string
	Position  mgl64.Vec3
	Direction mgl64.Vec3

	Speed           float64
	Damage          float64
	LifetimeSeconds float64
	Radius          float64

	// OwnerID and InstigatorID form the identity set the projectile
	// ignores for collision purposes: the launcher and its controlling
	// pawn.
	OwnerID      string
	InstigatorID string

	// Team is the launcher's team at launch time; HasTeam false means the
	// launcher exposed none.
	Team    world.TeamID
	HasTeam bool

	TrailEffect  string
	ImpactEffect string

	// Scheduler hosts the lifetime timer on the simulation clock.
	Scheduler *world.Scheduler

	Hooks Hooks
}

// Spawn validates the configuration, registers the lifetime timer, and
// starts the trail effect. The returned state is InFlight.
func Spawn(cfg SpawnConfig) (*State, error) {
	if cfg.ID == "" {
		return nil, errors.New("projectile: missing id")
	}
	direction, ok := world.SafeNormalize(cfg.Direction)
	if !ok {
		return nil, errors.New("projectile: degenerate launch direction")
	}
	if cfg.Speed <= 0 {
		return nil, errors.New("projectile: non-positive speed")
	}
	if cfg.LifetimeSeconds <= 0 {
		return nil, errors.New("projectile: non-positive lifetime")
	}
	if cfg.Scheduler == nil {
		return nil, errors.New("projectile: missing scheduler")
	}

	s := &State{
		ID:           cfg.ID,
		KindID:       cfg.KindID,
		Element:      cfg.Element,
		Position:     cfg.Position,
		Direction:    direction,
		Speed:        cfg.Speed,
		Damage:       cfg.Damage,
		Radius:       cfg.Radius,
		OwnerID:      cfg.OwnerID,
		InstigatorID: cfg.InstigatorID,
		Team:         cfg.Team,
		HasTeam:      cfg.HasTeam,
		TrailEffect:  cfg.TrailEffect,
		ImpactEffect: cfg.ImpactEffect,
		hooks:        cfg.Hooks,
	}
	if s.Radius < 0 {
		s.Radius = 0
	}
	if s.Damage < 0 {
		s.Damage = 0
	}

	s.lifetime = cfg.Scheduler.After(cfg.LifetimeSeconds, s.Expire)

	if s.hooks.PlayTrailEffect != nil && s.TrailEffect != "" {
		s.hooks.PlayTrailEffect(s.TrailEffect, s.ID)
	}
	return s, nil
}

// CurrentPhase returns the lifecycle phase.
func (s *State) CurrentPhase() Phase {
	if s == nil {
		return PhaseExpired
	}
	return s.phase
}

// DidHit reports whether the projectile resolved a hit before terminating.
func (s *State) DidHit() bool {
	return s != nil && s.didHit
}

// Alive reports whether the projectile is still in flight.
func (s *State) Alive() bool {
	return s != nil && s.phase == PhaseInFlight
}

func (s *State) publish(ev events.Event) {
	if s.hooks.Publisher == nil {
		return
	}
	s.hooks.Publisher.Publish(ev)
}
