package combat

import (
	"github.com/go-gl/mathgl/mgl64"
)

// BlockReason is the closed taxonomy explaining why a dispatch was rejected.
// Every failure path of the fire controller maps to exactly one reason;
// there are no other failure modes.
type BlockReason int

const (
	// BlockNone marks an accepted dispatch.
	BlockNone BlockReason = iota
	// BlockOnCooldown rejects re-fire before the cooldown interval elapses.
	BlockOnCooldown
	// BlockNoProjectileKind rejects dispatches with no resolvable kind:
	// an unset default or a name absent from the catalog.
	BlockNoProjectileKind
	// BlockAimBlocked rejects fire while the aim resolver reports the
	// reticle pressed against nearby geometry.
	BlockAimBlocked
	// BlockNoAimSource rejects dispatches with no way to derive a launch
	// direction at all.
	BlockNoAimSource
	// BlockSpawnFailed surfaces a world-level spawn failure.
	BlockSpawnFailed
)

// String returns the wire name used in fire-blocked event payloads.
func (r BlockReason) String() string {
	switch r {
	case BlockNone:
		return "none"
	case BlockOnCooldown:
		return "on_cooldown"
	case BlockNoProjectileKind:
		return "no_projectile_kind"
	case BlockAimBlocked:
		return "aim_blocked"
	case BlockNoAimSource:
		return "no_aim_source"
	case BlockSpawnFailed:
		return "spawn_failed"
	default:
		return "unknown"
	}
}

// FireOutcome reports the result of a single dispatch call: either a
// reference to the spawned projectile or a rejection reason, never both.
type FireOutcome struct {
	// ProjectileID references the spawned projectile on success.
	ProjectileID string

	// KindID names the kind that was attempted, populated on success and
	// rejection alike so callers can correlate.
	KindID string

	// Direction is the corrected launch direction on success.
	Direction mgl64.Vec3

	// Reason is BlockNone on success.
	Reason BlockReason

	// Remaining carries the cooldown remaining at rejection time when
	// Reason is BlockOnCooldown.
	Remaining float64
}

// Accepted reports whether the dispatch produced a projectile.
func (o FireOutcome) Accepted() bool {
	return o.Reason == BlockNone
}
