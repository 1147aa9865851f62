package sim

import (
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"spellbolt/server/internal/arena"
	"spellbolt/server/internal/telemetry"
)

const (
	// CommandRejectQueueLimit indicates a command was dropped due to
	// per-actor queue throttling.
	CommandRejectQueueLimit = "queue_limit"
	// CommandRejectQueueFull indicates the global command buffer is
	// saturated.
	CommandRejectQueueFull = "queue_full"
)

// Config tunes the command buffer and tick loop orchestration.
type Config struct {
	TickRate        int
	CatchupMaxTicks int
	CommandCapacity int
	PerActorLimit   int
}

// DefaultConfig mirrors the tuning cmd/server ships with.
func DefaultConfig() Config {
	return Config{
		TickRate:        20,
		CatchupMaxTicks: 4,
		CommandCapacity: 256,
		PerActorLimit:   8,
	}
}

// StepResult describes one completed simulation step for loop observers.
type StepResult struct {
	Tick     uint64
	Delta    float64
	Duration time.Duration
	Snapshot arena.StateSnapshot
	Commands []Command
}

// Hooks let the transport layer observe the loop without owning it.
type Hooks struct {
	// AfterStep runs on the loop goroutine after every tick. Keep it cheap;
	// it delays the next tick.
	AfterStep func(StepResult)

	// OnCommandDrop fires when Enqueue rejects a command.
	OnCommandDrop func(reason string, cmd Command)
}

// Loop coordinates command ingestion and the fixed-timestep arena runner.
type Loop struct {
	arena    *arena.Arena
	buffer   *CommandBuffer
	cfg      Config
	hooks    Hooks
	logger   telemetry.Logger
	counters *telemetry.Counters

	queueMu       sync.Mutex
	perActorCount map[string]int
	dropCounts    map[string]uint64
}

// NewLoop wraps the arena with a ring-buffer command queue and runner.
func NewLoop(a *arena.Arena, cfg Config, hooks Hooks, logger telemetry.Logger, counters *telemetry.Counters) *Loop {
	if a == nil {
		return nil
	}
	return &Loop{
		arena:         a,
		buffer:        NewCommandBuffer(cfg.CommandCapacity, telemetry.NopMetrics()),
		cfg:           cfg,
		hooks:         hooks,
		logger:        logger,
		counters:      counters,
		perActorCount: make(map[string]int),
		dropCounts:    make(map[string]uint64),
	}
}

// Pending reports the number of staged commands.
func (l *Loop) Pending() int {
	if l == nil {
		return 0
	}
	return l.buffer.Len()
}

// Enqueue stages a command, enforcing per-actor throttling and capacity
// limits. Safe to call from any goroutine.
func (l *Loop) Enqueue(cmd Command) (bool, string) {
	if l == nil {
		return false, CommandRejectQueueFull
	}
	reason := ""
	var dropCount uint64
	l.queueMu.Lock()
	if l.cfg.PerActorLimit > 0 && cmd.ActorID != "" {
		count := l.perActorCount[cmd.ActorID]
		if count >= l.cfg.PerActorLimit {
			reason = CommandRejectQueueLimit
			dropCount = l.incrementDropLocked(cmd.ActorID)
		} else {
			l.perActorCount[cmd.ActorID] = count + 1
		}
	}
	if reason == "" && !l.buffer.Push(cmd) {
		reason = CommandRejectQueueFull
		dropCount = l.incrementDropLocked(cmd.ActorID)
	}
	l.queueMu.Unlock()

	if reason != "" {
		l.reportDrop(reason, cmd, dropCount)
		return false, reason
	}
	return true, ""
}

// Advance executes a single simulation step using the staged commands.
func (l *Loop) Advance(delta float64) StepResult {
	if l == nil {
		return StepResult{}
	}
	commands := l.drainCommands()
	for _, cmd := range commands {
		l.apply(cmd)
	}
	l.arena.Tick(delta)
	snapshot := l.arena.Snapshot()
	return StepResult{
		Tick:     snapshot.Tick,
		Delta:    delta,
		Snapshot: snapshot,
		Commands: commands,
	}
}

// apply executes one command against its agent. Commands for unknown or
// defeated wizards are ignored; the issuing session may simply be stale.
func (l *Loop) apply(cmd Command) {
	agent, ok := l.arena.Agent(cmd.ActorID)
	if !ok || agent.Defeated {
		return
	}
	switch cmd.Type {
	case CommandFace:
		if cmd.Face != nil {
			agent.SetFacing(mgl64.Vec3{cmd.Face.X, cmd.Face.Y, cmd.Face.Z})
		}
	case CommandAim:
		agent.Aim.RequestUpdate()
	case CommandFire:
		if cmd.Fire != nil && cmd.Fire.KindID != "" {
			agent.Fire.FireKind(cmd.Fire.KindID)
		} else {
			agent.Fire.Fire()
		}
	}
}

// Run drives the fixed-timestep loop until the stop channel closes. Delta is
// clamped to CatchupMaxTicks budgets so a stalled host cannot produce one
// giant step.
func (l *Loop) Run(stop <-chan struct{}) {
	if l == nil {
		return
	}
	tickRate := l.cfg.TickRate
	if tickRate <= 0 {
		tickRate = 20
	}
	budget := time.Second / time.Duration(tickRate)
	budgetSeconds := budget.Seconds()
	maxDelta := budgetSeconds
	if l.cfg.CatchupMaxTicks > 1 {
		maxDelta = budgetSeconds * float64(l.cfg.CatchupMaxTicks)
	}

	ticker := time.NewTicker(budget)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			now := time.Now()
			delta := now.Sub(last).Seconds()
			if delta <= 0 {
				delta = budgetSeconds
			} else if delta > maxDelta {
				delta = maxDelta
			}
			last = now

			start := time.Now()
			result := l.Advance(delta)
			result.Duration = time.Since(start)
			l.counters.RecordTick(result.Duration)

			if l.hooks.AfterStep != nil {
				l.hooks.AfterStep(result)
			}
		}
	}
}

func (l *Loop) drainCommands() []Command {
	l.queueMu.Lock()
	defer l.queueMu.Unlock()
	commands := l.buffer.Drain()
	if len(l.perActorCount) > 0 {
		l.perActorCount = make(map[string]int)
	}
	return commands
}

func (l *Loop) incrementDropLocked(actorID string) uint64 {
	if actorID == "" {
		return 0
	}
	count := l.dropCounts[actorID] + 1
	l.dropCounts[actorID] = count
	return count
}

func (l *Loop) reportDrop(reason string, cmd Command, count uint64) {
	if l.hooks.OnCommandDrop != nil {
		l.hooks.OnCommandDrop(reason, cmd)
	}
	// Log on power-of-two counts so a spamming client cannot flood stderr.
	if count > 0 && count&(count-1) == 0 && l.logger != nil {
		l.logger.Printf(
			"[backpressure] dropping command actor=%s type=%s reason=%s count=%d",
			cmd.ActorID,
			cmd.Type,
			reason,
			count,
		)
	}
}
