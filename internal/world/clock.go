package world

import "sort"

// Clock tracks simulation time for the single-threaded tick loop. All timing
// in the arena derives from this clock rather than wall time so tests can
// advance it deterministically.
type Clock struct {
	tick    uint64
	seconds float64
}

// Tick returns the number of completed simulation ticks.
func (c *Clock) Tick() uint64 {
	if c == nil {
		return 0
	}
	return c.tick
}

// Seconds returns the elapsed simulation time in seconds.
func (c *Clock) Seconds() float64 {
	if c == nil {
		return 0
	}
	return c.seconds
}

// Advance moves the clock forward by delta seconds and counts one tick.
// Negative deltas are ignored.
func (c *Clock) Advance(delta float64) {
	if c == nil || delta < 0 {
		return
	}
	c.tick++
	c.seconds += delta
}

// Timer is a cancellable callback scheduled against the simulation clock.
// Cancelling after the timer fired is a no-op.
type Timer struct {
	deadline  float64
	fn        func()
	cancelled bool
	fired     bool
}

// Cancel prevents the timer from firing. Safe to call repeatedly.
func (t *Timer) Cancel() {
	if t == nil {
		return
	}
	t.cancelled = true
}

// Active reports whether the timer is still pending.
func (t *Timer) Active() bool {
	return t != nil && !t.cancelled && !t.fired
}

// Scheduler fires timers as its clock advances. It is deliberately not safe
// for concurrent use: the simulation is single-threaded and timers run to
// completion inside the tick that reaches their deadline.
type Scheduler struct {
	clock  *Clock
	timers []*Timer
}

// NewScheduler binds a scheduler to the provided clock.
func NewScheduler(clock *Clock) *Scheduler {
	return &Scheduler{clock: clock}
}

// After registers fn to run once delay seconds of simulation time elapse.
// Non-positive delays fire on the next advance.
func (s *Scheduler) After(delay float64, fn func()) *Timer {
	if s == nil || fn == nil {
		return nil
	}
	if delay < 0 {
		delay = 0
	}
	timer := &Timer{deadline: s.clock.Seconds() + delay, fn: fn}
	s.timers = append(s.timers, timer)
	return timer
}

// Advance fires every timer whose deadline has passed, in deadline order, and
// compacts the pending list. Callbacks may cancel other timers; a timer
// cancelled by an earlier callback in the same advance does not fire.
func (s *Scheduler) Advance() {
	if s == nil || len(s.timers) == 0 {
		return
	}
	now := s.clock.Seconds()

	due := make([]*Timer, 0, len(s.timers))
	remaining := s.timers[:0]
	for _, timer := range s.timers {
		switch {
		case timer == nil || timer.cancelled || timer.fired:
		// Accumulated float ticks can land a hair short of an exact
		// deadline, so due-ness tolerates Epsilon.
		case timer.deadline <= now+Epsilon:
			due = append(due, timer)
		default:
			remaining = append(remaining, timer)
		}
	}
	s.timers = remaining

	sort.SliceStable(due, func(i, j int) bool {
		return due[i].deadline < due[j].deadline
	})
	for _, timer := range due {
		if timer.cancelled {
			continue
		}
		timer.fired = true
		timer.fn()
	}
}

// Pending returns the number of timers still waiting to fire.
func (s *Scheduler) Pending() int {
	if s == nil {
		return 0
	}
	count := 0
	for _, timer := range s.timers {
		if timer.Active() {
			count++
		}
	}
	return count
}
