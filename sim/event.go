package sim

import (
	"container/heap"
	"fmt"
)

// Wake tells a resumed process why the engine woke it.
type Wake int

const (
	// WakeStart is the first resumption of a newly spawned process.
	WakeStart Wake = iota
	// WakeTimeout fires when a Timeout wait expires.
	WakeTimeout
	// WakeGranted fires when a Resource grants an Acquire wait.
	WakeGranted
)

func (w Wake) String() string {
	switch w {
	case WakeStart:
		return "start"
	case WakeTimeout:
		return "timeout"
	case WakeGranted:
		return "granted"
	default:
		return fmt.Sprintf("wake(%d)", int(w))
	}
}

// Event is a scheduled resumption of a process.
// Ordering: Time, then Seq (insertion order), so equal-time events fire in
// the order they were scheduled.
type Event struct {
	Time float64 // Simulation time of the resumption (minutes)
	Seq  uint64  // Per-engine insertion counter
	Proc *Proc   // Process to resume
	Wake Wake    // Payload handed to the process
}

func (ev *Event) String() string {
	return fmt.Sprintf("Event(t=%.4f, seq=%d, proc=%s, wake=%s)", ev.Time, ev.Seq, ev.Proc.Name(), ev.Wake)
}

// EventQueue is a priority queue of pending events with deterministic ordering.
type EventQueue struct {
	events []*Event
}

// NewEventQueue creates an empty event queue.
func NewEventQueue() *EventQueue {
	q := &EventQueue{
		events: make([]*Event, 0),
	}
	heap.Init(q)
	return q
}

// Len implements heap.Interface
func (q *EventQueue) Len() int {
	return len(q.events)
}

// Less implements heap.Interface.
// Order by: time → insertion sequence
func (q *EventQueue) Less(i, j int) bool {
	ei, ej := q.events[i], q.events[j]
	if ei.Time != ej.Time {
		return ei.Time < ej.Time
	}
	return ei.Seq < ej.Seq
}

// Swap implements heap.Interface
func (q *EventQueue) Swap(i, j int) {
	q.events[i], q.events[j] = q.events[j], q.events[i]
}

// Push implements heap.Interface
func (q *EventQueue) Push(x any) {
	q.events = append(q.events, x.(*Event))
}

// Pop implements heap.Interface
func (q *EventQueue) Pop() any {
	old := q.events
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	q.events = old[0 : n-1]
	return item
}

// Schedule adds an event to the queue.
func (q *EventQueue) Schedule(ev *Event) {
	heap.Push(q, ev)
}

// PopNext removes and returns the next event, or nil if the queue is empty.
func (q *EventQueue) PopNext() *Event {
	if q.Len() == 0 {
		return nil
	}
	return heap.Pop(q).(*Event)
}

// Peek returns the next event without removing it, or nil if the queue is empty.
func (q *EventQueue) Peek() *Event {
	if q.Len() == 0 {
		return nil
	}
	return q.events[0]
}
