// Package aim resolves where an agent is aiming in world space and classifies
// what sits under the reticle. Consumers never poll: they request an update
// or subscribe to the change events the resolver publishes.
package aim

import (
	"github.com/go-gl/mathgl/mgl64"

	"spellbolt/server/internal/events"
	"spellbolt/server/internal/world"
)

// Config tunes a resolver. Zero values are normalized to the defaults below
// rather than rejected.
type Config struct {
	// MaxDistance is the aim ray length in world units.
	MaxDistance float64

	// ReticlePosition is the normalized screen position the ray passes
	// through for camera-equipped agents. Default is screen center.
	ReticlePosition mgl64.Vec2

	// MinAimDistance is the hit distance below which aim counts as blocked
	// (muzzle pressed against a wall).
	MinAimDistance float64

	// LocationThreshold suppresses location-updated notifications for aim
	// point movement smaller than this distance.
	LocationThreshold float64

	// AutoRefresh opts the resolver into periodic self-driven updates.
	AutoRefresh         bool
	AutoRefreshInterval float64

	// InteractableTags classify a target as interactable, ahead of any
	// friend/foe verdict.
	InteractableTags []string

	// FriendlyTags classify a target as friendly regardless of team.
	FriendlyTags []string
}

// DefaultConfig mirrors the tuning the arena ships with.
func DefaultConfig() Config {
	return Config{
		MaxDistance:         10000,
		ReticlePosition:     mgl64.Vec2{0.5, 0.5},
		MinAimDistance:      50,
		LocationThreshold:   10,
		AutoRefreshInterval: 0.05,
	}
}

func (c Config) normalized() Config {
	defaults := DefaultConfig()
	if c.MaxDistance <= 0 {
		c.MaxDistance = defaults.MaxDistance
	}
	if c.MinAimDistance < 0 {
		c.MinAimDistance = 0
	}
	if c.LocationThreshold < 0 {
		c.LocationThreshold = 0
	}
	if c.AutoRefreshInterval <= 0 {
		c.AutoRefreshInterval = defaults.AutoRefreshInterval
	}
	c.ReticlePosition = mgl64.Vec2{
		world.Clamp(c.ReticlePosition.X(), 0, 1),
		world.Clamp(c.ReticlePosition.Y(), 0, 1),
	}
	return c
}

// Deps bundles the world adapters a resolver needs without importing the
// arena. The ray-cast adapter is expected to already ignore the aiming agent
// and everything rigidly attached to it.
type Deps struct {
	// AgentID names the aiming actor in event payloads.
	AgentID string

	// Position and Facing describe the agent root.
	Position func() mgl64.Vec3
	Facing   func() mgl64.Vec3

	// Camera supplies the agent's viewpoint when one exists. Agents without
	// a camera aim from their position along facing.
	Camera func() (world.Camera, bool)

	// CastRay traces the world with the agent's ignore set applied.
	CastRay func(origin, direction mgl64.Vec3, maxDistance float64) (world.RayHit, bool)

	// TeamOf and HasAnyTag answer classification queries. Either may be nil
	// when the world carries no team or tag data.
	TeamOf    func(id string) (world.TeamID, bool)
	HasAnyTag func(id string, tags []string) bool

	// Clock returns simulation seconds for snapshot timestamps.
	Clock func() float64

	// Publisher receives the resolver's change events.
	Publisher events.Publisher
}

// Resolver performs world-space aim resolution with change suppression.
// Resolution is synchronous and single-threaded; the cached snapshot is
// written only by RequestUpdate.
type Resolver struct {
	cfg  Config
	deps Deps

	snapshot     Snapshot
	hasSnapshot  bool
	prevTarget   string
	prevLocation mgl64.Vec3
	blocked      bool

	autoTimer float64
}

// NewResolver builds a resolver with normalized configuration.
func NewResolver(cfg Config, deps Deps) *Resolver {
	return &Resolver{cfg: cfg.normalized(), deps: deps}
}

// Config returns the normalized configuration in effect.
func (r *Resolver) Config() Config {
	return r.cfg
}

// Snapshot returns the cached aim data from the most recent resolution.
func (r *Resolver) Snapshot() Snapshot {
	return r.snapshot
}

// IsBlocked reports whether the reticle currently rests on geometry closer
// than the minimum aim distance.
func (r *Resolver) IsBlocked() bool {
	return r != nil && r.blocked
}

// IsAimingAt reports whether the cached snapshot targets the given actor.
func (r *Resolver) IsAimingAt(id string) bool {
	return r != nil && id != "" && r.snapshot.TargetID == id
}

// RequestUpdate performs one ray cast, replaces the cached snapshot, and
// publishes notifications for any changes that cross the configured
// thresholds. It returns the fresh snapshot.
func (r *Resolver) RequestUpdate() Snapshot {
	if r == nil {
		return Snapshot{}
	}

	next := r.resolve()

	wasBlocked := r.blocked
	r.blocked = next.DidHit && next.HitDistance < r.cfg.MinAimDistance
	if r.blocked != wasBlocked {
		r.publish(events.AimBlockedChanged{AgentID: r.deps.AgentID, Blocked: r.blocked})
	}

	if !r.hasSnapshot || next.TargetID != r.prevTarget {
		r.prevTarget = next.TargetID
		r.publish(events.AimTargetChanged{
			AgentID:        r.deps.AgentID,
			TargetID:       next.TargetID,
			Classification: next.Classification.String(),
		})
	}

	if !r.hasSnapshot || world.Dist(r.prevLocation, next.AimLocation) > r.cfg.LocationThreshold {
		r.prevLocation = next.AimLocation
		r.publish(events.AimLocationUpdated{
			AgentID:   r.deps.AgentID,
			Location:  next.AimLocation,
			Direction: next.AimDirection,
		})
	}

	r.snapshot = next
	r.hasSnapshot = true
	return next
}

// BroadcastCurrentState re-emits the cached target, location, and blocked
// state. Useful for consumers that subscribe after the first resolution.
func (r *Resolver) BroadcastCurrentState() {
	if r == nil {
		return
	}
	r.publish(events.AimTargetChanged{
		AgentID:        r.deps.AgentID,
		TargetID:       r.snapshot.TargetID,
		Classification: r.snapshot.Classification.String(),
	})
	r.publish(events.AimLocationUpdated{
		AgentID:   r.deps.AgentID,
		Location:  r.snapshot.AimLocation,
		Direction: r.snapshot.AimDirection,
	})
	r.publish(events.AimBlockedChanged{AgentID: r.deps.AgentID, Blocked: r.blocked})
}

// GetDirectionFrom returns the unit vector from an arbitrary world point
// toward the cached aim location. It falls back to the agent's facing when
// the result is degenerate or points backward relative to facing, which
// guards against a muzzle clipping through a wall producing a reversed
// launch direction. This is the trajectory-correction primitive.
func (r *Resolver) GetDirectionFrom(point mgl64.Vec3) mgl64.Vec3 {
	facing := r.facing()
	direction, ok := world.SafeNormalize(r.snapshot.AimLocation.Sub(point))
	if !ok || direction.Dot(facing) < 0.1 {
		return facing
	}
	return direction
}

// Tick drives the opt-in auto-refresh mode. It accumulates elapsed time and
// requests an update each configured interval; with auto-refresh off it does
// nothing.
func (r *Resolver) Tick(delta float64) {
	if r == nil || !r.cfg.AutoRefresh || delta < 0 {
		return
	}
	r.autoTimer += delta
	if r.autoTimer >= r.cfg.AutoRefreshInterval {
		r.autoTimer = 0
		r.RequestUpdate()
	}
}

func (r *Resolver) resolve() Snapshot {
	var snapshot Snapshot
	if r.deps.Clock != nil {
		snapshot.Timestamp = r.deps.Clock()
	}

	origin, direction := r.rayBasis()

	var hit world.RayHit
	didHit := false
	if r.deps.CastRay != nil {
		hit, didHit = r.deps.CastRay(origin, direction, r.cfg.MaxDistance)
	}

	if didHit {
		snapshot.DidHit = true
		snapshot.AimLocation = hit.Point
		snapshot.TargetID = hit.ActorID
		snapshot.HitDistance = hit.Distance
		snapshot.HitNormal = hit.Normal
		snapshot.SurfaceTag = hit.SurfaceTag
		snapshot.Classification = r.Classify(hit.ActorID)
	} else {
		snapshot.DidHit = false
		snapshot.AimLocation = origin.Add(direction.Mul(r.cfg.MaxDistance))
		snapshot.HitDistance = r.cfg.MaxDistance
		snapshot.HitNormal = world.Up
		snapshot.Classification = ClassNothing
	}

	aimDirection, ok := world.SafeNormalize(snapshot.AimLocation.Sub(r.position()))
	if !ok {
		aimDirection = direction
	}
	snapshot.AimDirection = aimDirection

	return snapshot
}

// Classify checks interactable tags first, then friendly tags,
// then team relationship, then world. Entities that resolve to the aiming
// agent itself report ClassSelf.
func (r *Resolver) Classify(targetID string) Classification {
	if targetID == "" {
		return ClassWorld
	}
	if targetID == r.deps.AgentID {
		return ClassSelf
	}
	if r.hasAnyTag(targetID, r.cfg.InteractableTags) {
		return ClassInteractable
	}
	if r.hasAnyTag(targetID, r.cfg.FriendlyTags) {
		return ClassFriendly
	}
	if r.deps.TeamOf != nil {
		ownTeam, ownOK := r.deps.TeamOf(r.deps.AgentID)
		targetTeam, targetOK := r.deps.TeamOf(targetID)
		if ownOK && targetOK {
			if ownTeam == targetTeam {
				return ClassFriendly
			}
			return ClassEnemy
		}
	}
	return ClassWorld
}

func (r *Resolver) rayBasis() (origin, direction mgl64.Vec3) {
	if r.deps.Camera != nil {
		if camera, ok := r.deps.Camera(); ok {
			return camera.Deproject(r.cfg.ReticlePosition)
		}
	}
	return r.position(), r.facing()
}

func (r *Resolver) position() mgl64.Vec3 {
	if r.deps.Position == nil {
		return mgl64.Vec3{}
	}
	return r.deps.Position()
}

func (r *Resolver) facing() mgl64.Vec3 {
	if r.deps.Facing == nil {
		return mgl64.Vec3{1, 0, 0}
	}
	facing, ok := world.SafeNormalize(r.deps.Facing())
	if !ok {
		return mgl64.Vec3{1, 0, 0}
	}
	return facing
}

func (r *Resolver) hasAnyTag(id string, tags []string) bool {
	if r.deps.HasAnyTag == nil || len(tags) == 0 {
		return false
	}
	return r.deps.HasAnyTag(id, tags)
}

func (r *Resolver) publish(ev events.Event) {
	if r.deps.Publisher == nil {
		return
	}
	r.deps.Publisher.Publish(ev)
}
