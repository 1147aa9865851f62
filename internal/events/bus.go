// Package events provides the synchronous gameplay event bus. Aim, fire, and
// projectile components publish typed payloads exactly once per logical
// occurrence; HUD, logging, and transport collaborators subscribe without the
// publishers knowing about them.
package events

// Kind identifies a gameplay event type on the bus.
type Kind string

const (
	KindAimTargetChanged     Kind = "aim.target_changed"
	KindAimLocationUpdated   Kind = "aim.location_updated"
	KindAimBlockedChanged    Kind = "aim.blocked_changed"
	KindFireSucceeded        Kind = "fire.succeeded"
	KindFireBlocked          Kind = "fire.blocked"
	KindCooldownStateChanged Kind = "fire.cooldown_changed"
	KindProjectileHit        Kind = "projectile.hit"
	KindProjectileTerminated Kind = "projectile.terminated"
)

// Event is implemented by every payload published on the bus.
type Event interface {
	EventKind() Kind
}

// Handler consumes a published event. Handlers run synchronously on the
// simulation goroutine and must not block.
type Handler func(Event)

// Publisher is the narrow capability components hold to emit events.
type Publisher interface {
	Publish(Event)
}

// PublisherFunc adapts a function into the Publisher interface.
type PublisherFunc func(Event)

// Publish implements Publisher for PublisherFunc.
func (f PublisherFunc) Publish(ev Event) {
	if f == nil {
		return
	}
	f(ev)
}

// NopPublisher returns a publisher that discards every event.
func NopPublisher() Publisher {
	return PublisherFunc(nil)
}

type subscription struct {
	id      int
	handler Handler
}

// Bus fans events out synchronously to subscribers in registration order.
// There is no ordering guarantee across distinct event kinds beyond the
// causal order in which publishers emit them. Not safe for concurrent use;
// the simulation is single-threaded.
type Bus struct {
	nextID int
	subs   []subscription
}

// NewBus constructs an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler for every published event and returns a
// cancel function. Cancelling twice is a no-op.
func (b *Bus) Subscribe(handler Handler) func() {
	if b == nil || handler == nil {
		return func() {}
	}
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, handler: handler})

	cancelled := false
	return func() {
		if cancelled {
			return
		}
		cancelled = true
		for i, sub := range b.subs {
			if sub.id == id {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers the event to every subscriber. The subscriber list is
// snapshotted first so handlers may unsubscribe (or subscribe others)
// mid-delivery without corrupting the walk.
func (b *Bus) Publish(ev Event) {
	if b == nil || ev == nil {
		return
	}
	snapshot := make([]subscription, len(b.subs))
	copy(snapshot, b.subs)
	for _, sub := range snapshot {
		sub.handler(ev)
	}
}
