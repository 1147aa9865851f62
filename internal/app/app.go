// Package app wires the duel server together: logging router, spell
// catalog, arena, simulation loop, and the HTTP/websocket surface.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"spellbolt/server/internal/arena"
	"spellbolt/server/internal/events"
	servernet "spellbolt/server/internal/net"
	"spellbolt/server/internal/net/proto"
	"spellbolt/server/internal/net/ws"
	"spellbolt/server/internal/sim"
	"spellbolt/server/internal/telemetry"
	"spellbolt/server/internal/world"
	"spellbolt/server/logging"
	loggingSinks "spellbolt/server/logging/sinks"
	"spellbolt/server/spells/catalog"
)

// Config carries the knobs cmd/server exposes as flags.
type Config struct {
	// Addr is the HTTP listen address, e.g. ":8080".
	Addr string

	// TickRate is simulation steps per second.
	TickRate int

	// CatalogDir holds the projectile kind definition files.
	CatalogDir string

	// LogJSONPath, when set, adds an NDJSON log sink writing to this file.
	LogJSONPath string

	// BotOpponent spawns a scripted duel opponent on team 2.
	BotOpponent bool

	Logger telemetry.Logger
}

// DefaultConfig returns the stock server tuning.
func DefaultConfig() Config {
	return Config{
		Addr:        ":8080",
		TickRate:    20,
		CatalogDir:  "config/spells",
		BotOpponent: true,
	}
}

// PlayerWizardID is the wizard a websocket client claims with ?id=.
const PlayerWizardID = "wizard-1"

const botWizardID = "wizard-2"

// Run assembles the server and blocks until ctx is cancelled or the HTTP
// listener fails.
func Run(ctx context.Context, cfg Config) error {
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.WrapLogger(log.Default())
	}

	router, err := newLoggingRouter(cfg)
	if err != nil {
		return fmt.Errorf("failed to construct logging router: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if cerr := router.Close(closeCtx); cerr != nil {
			logger.Printf("failed to close logging router: %v", cerr)
		}
	}()

	kinds, err := catalog.LoadDir(cfg.CatalogDir)
	if err != nil {
		return fmt.Errorf("failed to load spell catalog from %q: %w", cfg.CatalogDir, err)
	}
	logger.Printf("loaded %d projectile kinds from %s", kinds.Len(), cfg.CatalogDir)

	counters := telemetry.NewCounters()

	match := arena.New(arena.DefaultConfig(), arena.Deps{
		Catalog:  kinds,
		Log:      router,
		Counters: counters,
		Logger:   logger,
	})
	if err := spawnDuelists(match, cfg.BotOpponent); err != nil {
		return fmt.Errorf("failed to bootstrap arena: %w", err)
	}

	hub := ws.NewHub(ws.HubConfig{}, router, logger, counters)

	broadcaster := newBroadcaster(hub, logger)
	match.Events().Subscribe(broadcaster.collect)

	simCfg := sim.DefaultConfig()
	if cfg.TickRate > 0 {
		simCfg.TickRate = cfg.TickRate
	}
	loop := sim.NewLoop(match, simCfg, sim.Hooks{
		AfterStep: broadcaster.afterStep,
	}, logger, counters)

	stop := make(chan struct{})
	go loop.Run(stop)
	defer close(stop)

	mux := http.NewServeMux()
	api := &servernet.API{Catalog: kinds, Counters: counters}
	api.Routes(mux, ws.NewHandler(hub, loop, ws.HandlerConfig{Logger: logger}))

	srv := &http.Server{Addr: cfg.Addr, Handler: mux}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	logger.Printf("server listening on %s", cfg.Addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		hub.CloseAll("shutdown")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	}
}

func newLoggingRouter(cfg Config) (*logging.Router, error) {
	logCfg := logging.DefaultConfig()
	named := []logging.NamedSink{
		{Name: "console", Sink: loggingSinks.NewConsoleSink(os.Stdout, logCfg.Console)},
	}
	if cfg.LogJSONPath != "" {
		file, err := os.OpenFile(cfg.LogJSONPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %q: %w", cfg.LogJSONPath, err)
		}
		logCfg.EnabledSinks = append(logCfg.EnabledSinks, "json")
		named = append(named, logging.NamedSink{
			Name: "json",
			Sink: loggingSinks.NewJSON(file, logCfg.JSON.FlushInterval),
		})
	}
	return logging.NewRouter(nil, logCfg, named)
}

// spawnDuelists places the client-controlled wizard and, optionally, a
// scripted opponent facing it across the arena.
func spawnDuelists(match *arena.Arena, withBot bool) error {
	if _, err := match.SpawnWizard(arena.WizardConfig{
		ID:       PlayerWizardID,
		Position: mgl64.Vec3{0, 0, 90},
		Facing:   mgl64.Vec3{1, 0, 0},
		Team:     world.TeamID(1),
	}); err != nil {
		return err
	}
	if !withBot {
		return nil
	}
	_, err := match.SpawnWizard(arena.WizardConfig{
		ID:          botWizardID,
		Position:    mgl64.Vec3{2000, 0, 90},
		Facing:      mgl64.Vec3{-1, 0, 0},
		Team:        world.TeamID(2),
		Bot:         true,
		BotTargetID: PlayerWizardID,
	})
	return err
}

// broadcaster buffers gameplay events raised during a tick and flushes them
// with the state frame once the tick completes. Both collect and afterStep
// run on the loop goroutine, so no locking is needed.
type broadcaster struct {
	hub     *ws.Hub
	logger  telemetry.Logger
	pending []events.Event
}

func newBroadcaster(hub *ws.Hub, logger telemetry.Logger) *broadcaster {
	return &broadcaster{hub: hub, logger: logger}
}

func (b *broadcaster) collect(ev events.Event) {
	// Aim location refreshes fire continuously while a target moves;
	// clients read aim state from snapshots instead.
	if ev.EventKind() == events.KindAimLocationUpdated {
		return
	}
	b.pending = append(b.pending, ev)
}

func (b *broadcaster) afterStep(result sim.StepResult) {
	state, err := json.Marshal(proto.NewStateMessage(result.Snapshot))
	if err != nil {
		b.logger.Printf("failed to marshal state frame: %v", err)
	} else {
		b.hub.Broadcast(state)
	}

	for _, ev := range b.pending {
		frame, err := json.Marshal(proto.NewEventMessage(result.Tick, ev))
		if err != nil {
			b.logger.Printf("failed to marshal event frame: %v", err)
			continue
		}
		b.hub.Broadcast(frame)
	}
	b.pending = b.pending[:0]
}
