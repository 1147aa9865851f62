package aim

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Classification is the resolver's verdict about what sits under the reticle.
type Classification int

const (
	// ClassNothing means the aim ray reached maximum distance untouched.
	ClassNothing Classification = iota
	// ClassWorld covers static geometry and actors with no recognized
	// relationship to the aiming agent.
	ClassWorld
	// ClassFriendly marks allies, by tag or by matching team.
	ClassFriendly
	// ClassEnemy marks hostiles, by differing team.
	ClassEnemy
	// ClassInteractable marks tagged interaction targets; it takes priority
	// over every other verdict.
	ClassInteractable
	// ClassSelf guards against a ray somehow resolving to the aiming agent.
	// The ray ignores the agent and its attachments, so this only appears
	// when a caller classifies an arbitrary entity.
	ClassSelf
)

// String returns the wire name used in event payloads.
func (c Classification) String() string {
	switch c {
	case ClassNothing:
		return "nothing"
	case ClassWorld:
		return "world"
	case ClassFriendly:
		return "friendly"
	case ClassEnemy:
		return "enemy"
	case ClassInteractable:
		return "interactable"
	case ClassSelf:
		return "self"
	default:
		return "unknown"
	}
}

// Snapshot is the immutable result of one targeting resolution. RequestUpdate
// replaces the cached snapshot wholesale; the previous one is retained only
// long enough to diff for change notifications.
type Snapshot struct {
	// AimLocation is the point the reticle indicates: the ray hit point, or
	// the ray's far end when nothing was struck.
	AimLocation mgl64.Vec3

	// AimDirection is the unit vector from the agent's position toward
	// AimLocation. It is well defined even when DidHit is false.
	AimDirection mgl64.Vec3

	// TargetID references the actor under the reticle, empty when the ray
	// missed or struck static geometry.
	TargetID string

	Classification Classification

	HitDistance float64
	HitNormal   mgl64.Vec3
	SurfaceTag  string
	DidHit      bool

	// Timestamp is the simulation time of capture.
	Timestamp float64
}
