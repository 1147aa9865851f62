// Package combat publishes typed combat log events: projectile launches,
// hits, damage, and defeats.
package combat

import (
	"context"

	"spellbolt/server/logging"
)

const (
	// EventFire is emitted when a wizard launches a projectile.
	EventFire logging.EventType = "combat.fire"
	// EventFireBlocked is emitted when a fire attempt is rejected.
	EventFireBlocked logging.EventType = "combat.fire_blocked"
	// EventProjectileHit is emitted when a projectile strikes a body.
	EventProjectileHit logging.EventType = "combat.projectile_hit"
	// EventDamage is emitted when a hit deals damage to a target.
	EventDamage logging.EventType = "combat.damage"
	// EventDefeat is emitted when a wizard's health reaches zero.
	EventDefeat logging.EventType = "combat.defeat"
)

// FirePayload captures a successful launch.
type FirePayload struct {
	ProjectileID string `json:"projectileId"`
	KindID       string `json:"kindId"`
}

// FireBlockedPayload captures the rejection reason for a denied launch.
type FireBlockedPayload struct {
	Reason string `json:"reason"`
	KindID string `json:"kindId,omitempty"`
}

// HitPayload captures a projectile impact on a single target.
type HitPayload struct {
	ProjectileID string  `json:"projectileId"`
	KindID       string  `json:"kindId,omitempty"`
	Damage       float64 `json:"damage"`
}

// DamagePayload captures the amount dealt to a single target.
type DamagePayload struct {
	KindID       string  `json:"kindId,omitempty"`
	Amount       float64 `json:"amount"`
	TargetHealth float64 `json:"targetHealth"`
}

// DefeatPayload describes the context of a fatal blow.
type DefeatPayload struct {
	KindID string `json:"kindId,omitempty"`
}

// Fire publishes a successful launch event.
func Fire(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload FirePayload, extra map[string]any) {
	publish(ctx, pub, logging.Event{
		Type:     EventFire,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCombat,
		Payload:  payload,
		Extra:    extra,
	})
}

// FireBlocked publishes a rejected launch event.
func FireBlocked(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload FireBlockedPayload, extra map[string]any) {
	publish(ctx, pub, logging.Event{
		Type:     EventFireBlocked,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryCombat,
		Payload:  payload,
		Extra:    extra,
	})
}

// ProjectileHit publishes an impact event for a single target.
func ProjectileHit(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, target logging.EntityRef, payload HitPayload, extra map[string]any) {
	publish(ctx, pub, logging.Event{
		Type:     EventProjectileHit,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCombat,
		Payload:  payload,
		Extra:    extra,
	})
}

// Damage publishes a damage event for a single target.
func Damage(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, target logging.EntityRef, payload DamagePayload, extra map[string]any) {
	publish(ctx, pub, logging.Event{
		Type:     EventDamage,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCombat,
		Payload:  payload,
		Extra:    extra,
	})
}

// Defeat publishes a defeat event for the eliminated wizard.
func Defeat(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, target logging.EntityRef, payload DefeatPayload, extra map[string]any) {
	publish(ctx, pub, logging.Event{
		Type:     EventDefeat,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCombat,
		Payload:  payload,
		Extra:    extra,
	})
}

func publish(ctx context.Context, pub logging.Publisher, event logging.Event) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, event)
}
