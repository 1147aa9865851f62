package events

import (
	"github.com/go-gl/mathgl/mgl64"
)

// AimTargetChanged fires when the entity under an agent's reticle changes,
// including changes to or from "no target". Classification carries the aim
// resolver's verdict as a plain string so subscribers avoid an import cycle.
type AimTargetChanged struct {
	AgentID        string `json:"agentId"`
	TargetID       string `json:"targetId,omitempty"`
	Classification string `json:"classification"`
}

// EventKind implements Event.
func (AimTargetChanged) EventKind() Kind { return KindAimTargetChanged }

// AimLocationUpdated fires when the aim point moves beyond the resolver's
// location threshold. Sub-threshold jitter is deliberately suppressed.
type AimLocationUpdated struct {
	AgentID   string     `json:"agentId"`
	Location  mgl64.Vec3 `json:"location"`
	Direction mgl64.Vec3 `json:"direction"`
}

// EventKind implements Event.
func (AimLocationUpdated) EventKind() Kind { return KindAimLocationUpdated }

// AimBlockedChanged fires on transitions of the blocked-aim state (reticle
// resting on geometry closer than the minimum aim distance).
type AimBlockedChanged struct {
	AgentID string `json:"agentId"`
	Blocked bool   `json:"blocked"`
}

// EventKind implements Event.
func (AimBlockedChanged) EventKind() Kind { return KindAimBlockedChanged }

// FireSucceeded fires once per accepted dispatch, after the projectile
// exists and the cooldown has been recorded.
type FireSucceeded struct {
	AgentID      string     `json:"agentId"`
	ProjectileID string     `json:"projectileId"`
	KindID       string     `json:"kindId,omitempty"`
	Direction    mgl64.Vec3 `json:"direction"`
}

// EventKind implements Event.
func (FireSucceeded) EventKind() Kind { return KindFireSucceeded }

// FireBlocked fires once per rejected dispatch with the closed rejection
// reason, so callers never re-derive why a shot failed.
type FireBlocked struct {
	AgentID string `json:"agentId"`
	Reason  string `json:"reason"`
	KindID  string `json:"kindId,omitempty"`
}

// EventKind implements Event.
func (FireBlocked) EventKind() Kind { return KindFireBlocked }

// CooldownStateChanged fires on Ready/Cooling edges of the fire gate.
type CooldownStateChanged struct {
	AgentID    string  `json:"agentId"`
	OnCooldown bool    `json:"onCooldown"`
	Remaining  float64 `json:"remaining"`
}

// EventKind implements Event.
func (CooldownStateChanged) EventKind() Kind { return KindCooldownStateChanged }

// ProjectileHit fires when a projectile resolves its single qualifying hit.
type ProjectileHit struct {
	ProjectileID string     `json:"projectileId"`
	AgentID      string     `json:"agentId"`
	TargetID     string     `json:"targetId"`
	ImpactPoint  mgl64.Vec3 `json:"impactPoint"`
	ImpactNormal mgl64.Vec3 `json:"impactNormal"`
	Damage       float64    `json:"damage"`
}

// EventKind implements Event.
func (ProjectileHit) EventKind() Kind { return KindProjectileHit }

// ProjectileTerminated fires exactly once when a projectile leaves the
// world, whether it landed a hit or expired. DidHit lets pooling and
// statistics collaborators tell a wasted shot from a landed one.
type ProjectileTerminated struct {
	ProjectileID string `json:"projectileId"`
	AgentID      string `json:"agentId"`
	DidHit       bool   `json:"didHit"`
}

// EventKind implements Event.
func (ProjectileTerminated) EventKind() Kind { return KindProjectileTerminated }
