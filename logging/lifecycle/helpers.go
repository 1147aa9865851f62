// Package lifecycle publishes typed session and match log events.
package lifecycle

import (
	"context"

	"spellbolt/server/logging"
)

const (
	// EventSessionJoined is emitted when a client session connects.
	EventSessionJoined logging.EventType = "lifecycle.session_joined"
	// EventSessionClosed is emitted when a session disconnects.
	EventSessionClosed logging.EventType = "lifecycle.session_closed"
	// EventWizardSpawned is emitted when a wizard enters the arena.
	EventWizardSpawned logging.EventType = "lifecycle.wizard_spawned"
	// EventWizardDefeated is emitted when a wizard leaves the fight.
	EventWizardDefeated logging.EventType = "lifecycle.wizard_defeated"
)

// SessionJoinedPayload captures connection metadata for a new session.
type SessionJoinedPayload struct {
	RemoteAddr string `json:"remoteAddr,omitempty"`
}

// SessionClosedPayload captures the reason a session ended.
type SessionClosedPayload struct {
	Reason string `json:"reason"`
}

// WizardSpawnedPayload captures the spawn transform.
type WizardSpawnedPayload struct {
	SpawnX float64 `json:"spawnX"`
	SpawnY float64 `json:"spawnY"`
	SpawnZ float64 `json:"spawnZ"`
	Team   int     `json:"team,omitempty"`
}

// SessionJoined publishes a session join event.
func SessionJoined(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload SessionJoinedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventSessionJoined,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
		Payload:  payload,
	})
}

// SessionClosed publishes a session close event.
func SessionClosed(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload SessionClosedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventSessionClosed,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
		Payload:  payload,
	})
}

// WizardSpawned publishes a wizard spawn event.
func WizardSpawned(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload WizardSpawnedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventWizardSpawned,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
		Payload:  payload,
	})
}

// WizardDefeated publishes a wizard defeat lifecycle event.
func WizardDefeated(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventWizardDefeated,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
	})
}
