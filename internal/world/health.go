package world

import "math"

// HealthEpsilon defines the tolerance used when comparing health values.
const HealthEpsilon = 1e-6

// defaultMaxHealth backstops callers that initialize health with a
// non-positive maximum.
const defaultMaxHealth = 100

// HealthState captures current and maximum health for an actor. It is the
// damage sink the projectile pipeline terminates in; how defeat is handled
// beyond the Alive flag is the caller's concern.
type HealthState struct {
	Health    float64
	MaxHealth float64
}

// NewHealthState returns a full health pool, clamping non-positive maxima to
// the default.
func NewHealthState(maxHealth float64) HealthState {
	if maxHealth <= 0 || math.IsNaN(maxHealth) || math.IsInf(maxHealth, 0) {
		maxHealth = defaultMaxHealth
	}
	return HealthState{Health: maxHealth, MaxHealth: maxHealth}
}

// Alive reports whether the pool still holds health.
func (h *HealthState) Alive() bool {
	return h != nil && h.Health > HealthEpsilon
}

// ApplyDamage subtracts up to amount from the pool and returns the damage
// actually absorbed after clamping. Dead pools and non-positive amounts
// absorb nothing.
func (h *HealthState) ApplyDamage(amount float64) float64 {
	if h == nil || !h.Alive() {
		return 0
	}
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0
	}
	before := h.Health
	h.Health = Clamp(h.Health-amount, 0, h.MaxHealth)
	return before - h.Health
}

// Heal restores up to amount of health and returns the amount actually
// restored. Dead pools cannot be healed back up.
func (h *HealthState) Heal(amount float64) float64 {
	if h == nil || !h.Alive() {
		return 0
	}
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0
	}
	before := h.Health
	h.Health = Clamp(h.Health+amount, 0, h.MaxHealth)
	return h.Health - before
}

// Fraction returns health as a 0..1 share of the maximum for HUD consumers.
func (h *HealthState) Fraction() float64 {
	if h == nil || h.MaxHealth <= 0 {
		return 0
	}
	return Clamp(h.Health/h.MaxHealth, 0, 1)
}
