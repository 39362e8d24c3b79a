// Package input decouples window callbacks from the engine loop: callbacks push events into a
// Queue and the loop drains it once per frame.
package input

import "sync"

// queue is the implementation of the Queue interface.
type queue struct {
	mu     *sync.Mutex
	events []Event

	// coalesce merges consecutive resize, drag and wheel events while they are pending.
	coalesce bool
}

// Queue is a FIFO of input events safe for concurrent Push and Drain.
type Queue interface {
	// Push appends an event. Nil events are ignored.
	//
	// Parameters:
	//   - e: the event to enqueue
	Push(e Event)

	// Drain removes and returns every pending event in push order.
	//
	// Returns:
	//   - []Event: the pending events, or nil when empty
	Drain() []Event

	// Len returns the number of pending events.
	//
	// Returns:
	//   - int: the pending event count
	Len() int
}

var _ Queue = &queue{}

// NewQueue creates an empty Queue.
//
// Parameters:
//   - options: functional options to configure the queue
//
// Returns:
//   - Queue: the new queue
func NewQueue(options ...QueueBuilderOption) Queue {
	q := &queue{
		mu: &sync.Mutex{},
	}
	for _, opt := range options {
		opt(q)
	}
	return q
}

func (q *queue) Push(e Event) {
	if e == nil {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.coalesce && len(q.events) > 0 {
		last := len(q.events) - 1
		if merged, ok := merge(q.events[last], e); ok {
			q.events[last] = merged
			return
		}
	}
	q.events = append(q.events, e)
}

func (q *queue) Drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.events) == 0 {
		return nil
	}
	out := q.events
	q.events = nil
	return out
}

func (q *queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// merge folds next into prev when both are of a kind where only the latest (resize) or the
// sum (drag, wheel) matters.
func merge(prev, next Event) (Event, bool) {
	switch n := next.(type) {
	case ResizeEvent:
		if _, ok := prev.(ResizeEvent); ok {
			return n, true
		}
	case DragEvent:
		if p, ok := prev.(DragEvent); ok {
			return DragEvent{DX: p.DX + n.DX, DY: p.DY + n.DY}, true
		}
	case WheelEvent:
		if p, ok := prev.(WheelEvent); ok {
			return WheelEvent{DeltaY: p.DeltaY + n.DeltaY}, true
		}
	}
	return nil, false
}
