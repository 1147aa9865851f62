package combat

import "spellbolt/server/internal/world"

// Gate is the rate limiter preventing re-fire before the configured interval
// elapses. It stores only the time of the last accepted fire; remaining time
// and progress are computed on read.
type Gate struct {
	cooldown     float64
	lastFireTime float64
	hasFired     bool
}

// NewGate builds a gate with the provided cooldown duration in seconds.
// Negative durations are clamped to zero (always ready).
func NewGate(cooldown float64) Gate {
	if cooldown < 0 {
		cooldown = 0
	}
	return Gate{cooldown: cooldown}
}

// Cooldown returns the configured duration.
func (g *Gate) Cooldown() float64 {
	return g.cooldown
}

// Ready reports whether a fire would be accepted at the given time.
func (g *Gate) Ready(now float64) bool {
	return g.Remaining(now) <= 0
}

// Remaining returns the seconds left before the gate reopens, zero when
// ready.
func (g *Gate) Remaining(now float64) float64 {
	if !g.hasFired {
		return 0
	}
	remaining := g.cooldown - (now - g.lastFireTime)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Progress returns recovery as a 0..1 fraction; 1 means ready.
func (g *Gate) Progress(now float64) float64 {
	if g.cooldown <= 0 {
		return 1
	}
	return world.Clamp(1-g.Remaining(now)/g.cooldown, 0, 1)
}

// Trigger records an accepted fire, flipping the gate to cooling.
func (g *Gate) Trigger(now float64) {
	g.lastFireTime = now
	g.hasFired = true
}
