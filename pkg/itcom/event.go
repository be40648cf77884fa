package itcom

import "github.com/vsi-core/interlock/pkg/faultids"

// ErrorEvent is one occurrence of a fault/error event, bound to a
// snapshot of vehicle state captured at enqueue time (spec §3).
type ErrorEvent struct {
	EventID      faultids.EventID
	Counter      uint64
	Severity     faultids.Severity
	Notification faultids.Notification
	Snapshot     Snapshot
}

// QueueMax is the fixed capacity of the EventQueue (spec §3, §8).
const QueueMax = 32

// EventQueue is the bounded, severity-evicting FIFO of pending fault
// events described in spec §4.2. Index 0 is always the head (the event
// FM is currently processing or will process next).
type EventQueue struct {
	events []ErrorEvent
}

// newEventQueue returns an empty queue with capacity QueueMax.
func newEventQueue() *EventQueue {
	return &EventQueue{events: make([]ErrorEvent, 0, QueueMax)}
}

// Len returns the number of events currently queued.
func (q *EventQueue) Len() int {
	return len(q.events)
}

// Full reports whether the queue is at QueueMax capacity.
func (q *EventQueue) Full() bool {
	return len(q.events) == QueueMax
}

// Enqueue appends ev if the queue has room. If full, it replaces the
// least-severe queued event when ev.Severity strictly exceeds it;
// otherwise ev is dropped. Returns whether ev was admitted (appended or
// it replaced another event) and the index of any replaced event, or -1.
func (q *EventQueue) Enqueue(ev ErrorEvent) (admitted bool, replacedIdx int) {
	if len(q.events) < QueueMax {
		q.events = append(q.events, ev)
		return true, -1
	}

	leastIdx := 0
	for i := 1; i < len(q.events); i++ {
		if q.events[i].Severity < q.events[leastIdx].Severity {
			leastIdx = i
		}
	}
	if ev.Severity > q.events[leastIdx].Severity {
		q.events[leastIdx] = ev
		return true, leastIdx
	}
	return false, -1
}

// Head returns the event at the front of the queue.
func (q *EventQueue) Head() (ErrorEvent, bool) {
	if len(q.events) == 0 {
		return ErrorEvent{}, false
	}
	return q.events[0], true
}

// DequeueHead removes and returns the event at the front of the queue.
func (q *EventQueue) DequeueHead() (ErrorEvent, bool) {
	if len(q.events) == 0 {
		return ErrorEvent{}, false
	}
	ev := q.events[0]
	q.events = append(q.events[:0], q.events[1:]...)
	return ev, true
}

// DrainAll removes and returns every queued event in order, emptying the
// queue. Used for shutdown draining (spec §4.2 "Shutdown behavior").
func (q *EventQueue) DrainAll() []ErrorEvent {
	out := q.events
	q.events = make([]ErrorEvent, 0, QueueMax)
	return out
}
