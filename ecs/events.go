package ecs

// EventKind identifies what happened during a tick.
type EventKind string

const (
	EventProjectileHit EventKind = "projectile_hit"
	EventMeleeHit      EventKind = "melee_hit"
	EventShot          EventKind = "shot"
	EventJumped        EventKind = "jumped"
	EventLanded        EventKind = "landed"
	EventKnockedOut    EventKind = "knocked_out"
)

// Event is emitted by systems and consumed after the tick by the arena
// (round bookkeeping, audio cues, network snapshots).
type Event struct {
	Kind   EventKind
	Source Entity
	Target Entity
	Amount int
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
