package logging_test

import (
	"context"
	"testing"
	"time"

	"spellbolt/server/logging"
	"spellbolt/server/logging/sinks"
)

func newTestRouter(t *testing.T, cfg logging.Config, sink logging.Sink) *logging.Router {
	t.Helper()
	router, err := logging.NewRouter(nil, cfg, []logging.NamedSink{{Name: "memory", Sink: sink}})
	if err != nil {
		t.Fatalf("unexpected router error: %v", err)
	}
	return router
}

func closeRouter(t *testing.T, router *logging.Router) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := router.Close(ctx); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
}

func TestRouterDeliversToSink(t *testing.T) {
	mem := sinks.NewMemorySink()
	router := newTestRouter(t, logging.DefaultConfig(), mem)

	router.Publish(context.Background(), logging.Event{
		Type:     "combat.fire",
		Tick:     7,
		Actor:    logging.EntityRef{ID: "wizard-1", Kind: logging.EntityKindWizard},
		Severity: logging.SeverityInfo,
	})
	closeRouter(t, router)

	events := mem.Events()
	if len(events) != 1 {
		t.Fatalf("expected one delivered event, got %d", len(events))
	}
	if events[0].Type != "combat.fire" || events[0].Tick != 7 {
		t.Fatalf("unexpected event: %+v", events[0])
	}
	if events[0].Time.IsZero() {
		t.Fatalf("expected timestamp stamped on delivery")
	}
}

func TestRouterFiltersBelowMinimumSeverity(t *testing.T) {
	mem := sinks.NewMemorySink()
	cfg := logging.DefaultConfig()
	cfg.MinimumSeverity = logging.SeverityWarn
	router := newTestRouter(t, cfg, mem)

	router.Publish(context.Background(), logging.Event{Type: "combat.fire_blocked", Severity: logging.SeverityDebug})
	router.Publish(context.Background(), logging.Event{Type: "combat.defeat", Severity: logging.SeverityWarn})
	closeRouter(t, router)

	events := mem.Events()
	if len(events) != 1 {
		t.Fatalf("expected only the warn event, got %d", len(events))
	}
	if events[0].Type != "combat.defeat" {
		t.Fatalf("unexpected surviving event: %+v", events[0])
	}
}

func TestRouterAppliesAmbientFields(t *testing.T) {
	mem := sinks.NewMemorySink()
	cfg := logging.DefaultConfig()
	cfg.Fields = map[string]any{"arena": "duel-1"}
	router := newTestRouter(t, cfg, mem)

	router.Publish(context.Background(), logging.Event{Type: "lifecycle.wizard_spawned", Severity: logging.SeverityInfo})
	closeRouter(t, router)

	events := mem.Events()
	if len(events) != 1 {
		t.Fatalf("expected one event, got %d", len(events))
	}
	if events[0].Extra["arena"] != "duel-1" {
		t.Fatalf("expected ambient field, got %+v", events[0].Extra)
	}
}

func TestRouterIgnoresUntypedEvents(t *testing.T) {
	mem := sinks.NewMemorySink()
	router := newTestRouter(t, logging.DefaultConfig(), mem)

	router.Publish(context.Background(), logging.Event{})
	closeRouter(t, router)

	if got := len(mem.Events()); got != 0 {
		t.Fatalf("expected untyped event discarded, got %d", got)
	}
}

func TestWithFieldsDoesNotOverrideExisting(t *testing.T) {
	var captured []logging.Event
	pub := logging.WithFields(logging.PublisherFunc(func(_ context.Context, ev logging.Event) {
		captured = append(captured, ev)
	}), map[string]any{"arena": "duel-1"})

	pub.Publish(context.Background(), logging.Event{Type: "combat.fire"}.WithExtra("arena", "override"))
	if len(captured) != 1 {
		t.Fatalf("expected one event, got %d", len(captured))
	}
	if captured[0].Extra["arena"] != "override" {
		t.Fatalf("expected existing extra preserved, got %+v", captured[0].Extra)
	}
}
