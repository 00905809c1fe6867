package input

import "sync"

// DefaultQueueSize bounds pending events between two ticks.
const DefaultQueueSize = 64

type EventKind uint8

const (
	// ToggleForce flips the attractor between attraction and repulsion.
	ToggleForce EventKind = iota + 1
)

func (k EventKind) String() string {
	switch k {
	case ToggleForce:
		return "toggle_force"
	default:
		return "unknown"
	}
}

type Event struct {
	Kind EventKind
}

// EventQueue buffers discrete input events until the next tick drains them.
// Push is safe from any goroutine; Drain is called by the tick loop.
//
// Overflow: oldest events are discarded when full
type EventQueue struct {
	mu      sync.Mutex
	events  []Event
	size    int
	dropped uint64
}

func NewEventQueue(size int) *EventQueue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &EventQueue{
		events: make([]Event, 0, size),
		size:   size,
	}
}

// Push appends an event, discarding the oldest one if the queue is full.
func (q *EventQueue) Push(e Event) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.events) == q.size {
		copy(q.events, q.events[1:])
		q.events = q.events[:len(q.events)-1]
		q.dropped++
	}
	q.events = append(q.events, e)
}

// Drain returns all pending events in FIFO order and empties the queue.
func (q *EventQueue) Drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.events) == 0 {
		return nil
	}
	out := make([]Event, len(q.events))
	copy(out, q.events)
	q.events = q.events[:0]
	return out
}

func (q *EventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Dropped returns how many events were discarded on overflow.
func (q *EventQueue) Dropped() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}
