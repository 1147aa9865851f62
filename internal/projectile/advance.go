package projectile

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"spellbolt/server/internal/events"
	"spellbolt/server/internal/world"
)

// Candidate is a body the projectile may overlap this tick. Providers
// typically visit every solid actor near the travel segment.
type Candidate struct {
	ID       string
	Position mgl64.Vec3
	Radius   float64

	// Impact optionally carries precise hit geometry from the provider.
	// When nil the projectile synthesizes geometry from the overlap.
	Impact *Impact
}

// AdvanceConfig bundles the per-tick inputs for one movement step.
type AdvanceConfig struct {
	// Delta is the tick duration in seconds.
	Delta float64

	// VisitCandidates streams potential overlap targets. Returning false
	// from the visitor stops iteration early.
	VisitCandidates func(visit func(Candidate) bool)
}

// AdvanceResult reports what one movement step did.
type AdvanceResult struct {
	Position mgl64.Vec3
	HitID    string
	Stopped  bool
}

// Advance moves the projectile along its fixed direction and resolves the
// earliest non-exempt overlap on the travel segment. Movement and collision
// share one step so a fast projectile cannot tunnel through a thin body
// between ticks.
func (s *State) Advance(cfg AdvanceConfig) AdvanceResult {
	if s.phase != PhaseInFlight || cfg.Delta <= 0 {
		return AdvanceResult{Position: s.Position, Stopped: s.phase != PhaseInFlight}
	}

	start := s.Position
	end := start.Add(s.Direction.Mul(s.Speed * cfg.Delta))

	var (
		best     Candidate
		bestFrac float64
		bestHit  bool
	)
	if cfg.VisitCandidates != nil {
		cfg.VisitCandidates(func(c Candidate) bool {
			if s.exempt(c.ID) {
				return true
			}
			frac, ok := segmentSphereOverlap(start, end, c.Position, s.Radius+c.Radius)
			if !ok {
				return true
			}
			if !bestHit || frac < bestFrac {
				best, bestFrac, bestHit = c, frac, true
			}
			return true
		})
	}

	if !bestHit {
		s.Position = end
		return AdvanceResult{Position: end}
	}

	s.Position = start.Add(end.Sub(start).Mul(bestFrac))
	s.resolveHit(best)
	return AdvanceResult{Position: s.Position, HitID: best.ID, Stopped: true}
}

// exempt reports whether a candidate can never stop this projectile: itself,
// its owner, its instigator, or a friendly body.
func (s *State) exempt(id string) bool {
	if id == "" || id == s.ID || id == s.OwnerID || id == s.InstigatorID {
		return true
	}
	return s.friendly(id)
}

// friendly applies the team exemption: both sides must expose a team and the
// teams must match. A teamless body is never friendly to anyone.
func (s *State) friendly(id string) bool {
	if !s.HasTeam || s.Team == world.TeamNone {
		return false
	}
	if s.hooks.TeamOf == nil {
		return false
	}
	team, ok := s.hooks.TeamOf(id)
	if !ok || team == world.TeamNone {
		return false
	}
	return team == s.Team
}

// resolveHit performs the single terminal hit: damage, impact effect, the
// hit and termination events, and removal. The phase guard makes it
// idempotent against the lifetime timer racing a same-tick overlap.
func (s *State) resolveHit(c Candidate) {
	if s.phase != PhaseInFlight {
		return
	}
	s.phase = PhaseResolved
	s.didHit = true
	if s.lifetime != nil {
		s.lifetime.Cancel()
	}

	impact := s.impactGeometry(c)

	if s.hooks.ApplyDamage != nil && s.Damage > 0 {
		s.hooks.ApplyDamage(c.ID, s.Damage, impact, s.InstigatorID, s.OwnerID)
	}
	if s.hooks.PlayImpactEffect != nil && s.ImpactEffect != "" {
		s.hooks.PlayImpactEffect(s.ImpactEffect, impact.Point, impact.Normal)
	}

	s.publish(events.ProjectileHit{
		ProjectileID: s.ID,
		AgentID:      s.OwnerID,
		TargetID:     c.ID,
		ImpactPoint:  impact.Point,
		ImpactNormal: impact.Normal,
		Damage:       s.Damage,
	})
	s.terminate()
}

// impactGeometry prefers provider-supplied geometry and otherwise
// synthesizes it: the contact point is the projectile's stop position and
// the normal opposes travel.
func (s *State) impactGeometry(c Candidate) Impact {
	if c.Impact != nil {
		return *c.Impact
	}
	return Impact{
		Point:  s.Position,
		Normal: s.Direction.Mul(-1),
	}
}

// Expire is the lifetime-timer callback. Expiry is terminal and mutually
// exclusive with a resolved hit.
func (s *State) Expire() {
	if s.phase != PhaseInFlight {
		return
	}
	s.phase = PhaseExpired
	s.terminate()
}

// terminate publishes the single terminal event and removes the projectile
// from the world. Both ending paths funnel through here exactly once.
func (s *State) terminate() {
	s.publish(events.ProjectileTerminated{
		ProjectileID: s.ID,
		AgentID:      s.OwnerID,
		DidHit:       s.didHit,
	})
	if s.hooks.Remove != nil {
		s.hooks.Remove(s.ID)
	}
}

// segmentSphereOverlap returns the earliest fraction along [start, end] at
// which a point comes within radius of center.
func segmentSphereOverlap(start, end, center mgl64.Vec3, radius float64) (float64, bool) {
	seg := end.Sub(start)
	lenSq := seg.Dot(seg)
	if lenSq < world.Epsilon {
		if start.Sub(center).Len() <= radius {
			return 0, true
		}
		return 0, false
	}

	// Closest approach of the segment to the sphere center.
	t := world.Clamp(center.Sub(start).Dot(seg)/lenSq, 0, 1)
	closest := start.Add(seg.Mul(t))
	if closest.Sub(center).Len() > radius {
		return 0, false
	}

	// Walk back from the closest approach to the entry fraction so the
	// projectile stops at first contact rather than at deepest overlap.
	toCenter := center.Sub(start)
	proj := toCenter.Dot(seg) / lenSq
	perp := toCenter.Sub(seg.Mul(proj)).Len()
	span := radius*radius - perp*perp
	if span < 0 {
		span = 0
	}
	entry := proj - math.Sqrt(span)/math.Sqrt(lenSq)
	return world.Clamp(entry, 0, 1), true
}
