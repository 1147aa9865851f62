package world

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Kind labels the broad role an actor plays within the arena.
type Kind string

const (
	KindWizard     Kind = "wizard"
	KindProjectile Kind = "projectile"
	KindProp       Kind = "prop"
	KindPickup     Kind = "pickup"
)

// TeamID identifies a faction. The zero value TeamNone marks actors without
// an allegiance; such actors never count as friendly to anyone.
type TeamID int

// TeamNone is the sentinel for actors that expose no team identity.
const TeamNone TeamID = 0

// Actor is a positioned entity registered with the world. The world owns the
// registry; gameplay components reference actors by ID and never assume the
// referenced actor outlives them.
type Actor struct {
	ID       string
	Kind     Kind
	Position mgl64.Vec3
	Facing   mgl64.Vec3
	Team     TeamID
	Radius   float64
	Tags     []string

	// Controller names the pawn or controller steering this actor, when one
	// exists. Projectiles ignore both their launcher and its controller.
	Controller string

	// AttachedTo names the parent actor this one is rigidly attached to.
	// Aim rays ignore everything attached to the aiming actor.
	AttachedTo string

	// Sockets are named attachment offsets expressed in the actor's
	// forward/right/up basis, e.g. a muzzle point.
	Sockets map[string]mgl64.Vec3

	// SurfaceTag describes the actor's surface for aim-hit metadata.
	SurfaceTag string
}

// HasTag reports whether the actor carries the provided tag.
func (a *Actor) HasTag(tag string) bool {
	if a == nil || tag == "" {
		return false
	}
	for _, t := range a.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// HasAnyTag reports whether the actor carries at least one of the tags.
func (a *Actor) HasAnyTag(tags []string) bool {
	for _, tag := range tags {
		if a.HasTag(tag) {
			return true
		}
	}
	return false
}

// HasTeam reports whether the actor exposes a team identity.
func (a *Actor) HasTeam() bool {
	return a != nil && a.Team != TeamNone
}

// ForwardVector returns the actor's unit facing, defaulting to x-forward when
// the stored facing is degenerate.
func (a *Actor) ForwardVector() mgl64.Vec3 {
	if a == nil {
		return mgl64.Vec3{1, 0, 0}
	}
	forward, ok := SafeNormalize(a.Facing)
	if !ok {
		return mgl64.Vec3{1, 0, 0}
	}
	return forward
}

// OffsetPosition resolves an offset expressed in the actor's forward/right/up
// basis into a world-space point.
func (a *Actor) OffsetPosition(offset mgl64.Vec3) mgl64.Vec3 {
	if a == nil {
		return mgl64.Vec3{}
	}
	forward, right, up := FacingBasis(a.Facing)
	return a.Position.
		Add(forward.Mul(offset.X())).
		Add(right.Mul(offset.Y())).
		Add(up.Mul(offset.Z()))
}

// SocketPosition resolves the world-space position of a named socket. The
// boolean reports whether the socket exists.
func (a *Actor) SocketPosition(name string) (mgl64.Vec3, bool) {
	if a == nil || name == "" {
		return mgl64.Vec3{}, false
	}
	offset, ok := a.Sockets[name]
	if !ok {
		return mgl64.Vec3{}, false
	}
	return a.OffsetPosition(offset), true
}
