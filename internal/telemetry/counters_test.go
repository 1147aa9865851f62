package telemetry

import (
	"testing"
	"time"
)

func TestCountersSnapshot(t *testing.T) {
	c := NewCounters()
	c.RecordTick(12 * time.Millisecond)
	c.RecordFire(true)
	c.RecordFire(true)
	c.RecordFire(false)
	c.RecordProjectileEnd(true)
	c.RecordProjectileEnd(false)
	c.SessionOpened()
	c.SessionOpened()
	c.SessionClosed()
	c.RecordBroadcast(256, 3)

	snap := c.Snapshot()
	if snap.TicksTotal != 1 || snap.TickDurationMillis != 12 {
		t.Fatalf("unexpected tick counters: %+v", snap)
	}
	if snap.FiresTotal != 2 || snap.FiresBlocked != 1 {
		t.Fatalf("unexpected fire counters: %+v", snap)
	}
	if snap.ProjectileHits != 1 || snap.ProjectileMisses != 1 {
		t.Fatalf("unexpected projectile counters: %+v", snap)
	}
	if snap.SessionsActive != 1 {
		t.Fatalf("unexpected session gauge: %+v", snap)
	}
	if snap.BytesSent != 256 || snap.EventsSent != 3 {
		t.Fatalf("unexpected broadcast counters: %+v", snap)
	}
}

func TestNilCountersAreSafe(t *testing.T) {
	var c *Counters
	c.RecordTick(time.Millisecond)
	c.RecordFire(true)
	c.RecordProjectileEnd(false)
	c.SessionOpened()
	c.SessionClosed()
	c.RecordBroadcast(1, 1)
	if snap := c.Snapshot(); snap != (Snapshot{}) {
		t.Fatalf("expected zero snapshot from nil counters, got %+v", snap)
	}
}
