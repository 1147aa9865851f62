package telemetry

import (
	"sync/atomic"
	"time"
)

// Counters aggregates simulation and transport measurements. All methods are
// safe for concurrent use; the tick loop and the websocket sessions record
// from different goroutines.
type Counters struct {
	ticksTotal         atomic.Uint64
	tickDurationMillis atomic.Int64

	firesTotal       atomic.Uint64
	firesBlocked     atomic.Uint64
	projectileHits   atomic.Uint64
	projectileMisses atomic.Uint64

	sessionsActive atomic.Int64
	bytesSent      atomic.Uint64
	eventsSent     atomic.Uint64
}

// Snapshot is the JSON shape served by the status endpoint.
type Snapshot struct {
	TicksTotal         uint64 `json:"ticksTotal"`
	TickDurationMillis int64  `json:"tickDurationMillis"`
	FiresTotal         uint64 `json:"firesTotal"`
	FiresBlocked       uint64 `json:"firesBlocked"`
	ProjectileHits     uint64 `json:"projectileHits"`
	ProjectileMisses   uint64 `json:"projectileMisses"`
	SessionsActive     int64  `json:"sessionsActive"`
	BytesSent          uint64 `json:"bytesSent"`
	EventsSent         uint64 `json:"eventsSent"`
}

func NewCounters() *Counters {
	return &Counters{}
}

// RecordTick stores the duration of the most recent simulation tick.
func (c *Counters) RecordTick(duration time.Duration) {
	if c == nil {
		return
	}
	millis := duration.Milliseconds()
	if millis < 0 {
		millis = 0
	}
	c.ticksTotal.Add(1)
	c.tickDurationMillis.Store(millis)
}

// RecordFire counts an accepted or rejected launch.
func (c *Counters) RecordFire(accepted bool) {
	if c == nil {
		return
	}
	if accepted {
		c.firesTotal.Add(1)
	} else {
		c.firesBlocked.Add(1)
	}
}

// RecordProjectileEnd counts a terminated projectile by outcome.
func (c *Counters) RecordProjectileEnd(didHit bool) {
	if c == nil {
		return
	}
	if didHit {
		c.projectileHits.Add(1)
	} else {
		c.projectileMisses.Add(1)
	}
}

// SessionOpened and SessionClosed track the live session gauge.
func (c *Counters) SessionOpened() {
	if c != nil {
		c.sessionsActive.Add(1)
	}
}

func (c *Counters) SessionClosed() {
	if c != nil {
		c.sessionsActive.Add(-1)
	}
}

// RecordBroadcast accumulates transport volume.
func (c *Counters) RecordBroadcast(bytes, events int) {
	if c == nil {
		return
	}
	if bytes > 0 {
		c.bytesSent.Add(uint64(bytes))
	}
	if events > 0 {
		c.eventsSent.Add(uint64(events))
	}
}

// Snapshot returns a point-in-time copy of every counter.
func (c *Counters) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	return Snapshot{
		TicksTotal:         c.ticksTotal.Load(),
		TickDurationMillis: c.tickDurationMillis.Load(),
		FiresTotal:         c.firesTotal.Load(),
		FiresBlocked:       c.firesBlocked.Load(),
		ProjectileHits:     c.projectileHits.Load(),
		ProjectileMisses:   c.projectileMisses.Load(),
		SessionsActive:     c.sessionsActive.Load(),
		BytesSent:          c.bytesSent.Load(),
		EventsSent:         c.eventsSent.Load(),
	}
}
