package ecs

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

// RopeEventKind identifies rope event types.
type RopeEventKind string

const (
	RopeEventReset       RopeEventKind = "reset"
	RopeEventAnchorError RopeEventKind = "anchor_error"
	RopeEventStepError   RopeEventKind = "step_error"
)

// RopeEvent is emitted by the rope systems for the game loop to report.
type RopeEvent struct {
	Entity Entity
	Kind   RopeEventKind
	Tick   int
	Err    error
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

// PushRope queues a RopeEvent under its kind.
func (q *EventQueue) PushRope(evt RopeEvent) {
	q.Push(Event{Type: string(evt.Kind), Data: evt})
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

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
