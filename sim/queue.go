// Implements the EventQueue, the FIFO container behind each of the three
// event sequences (observations, arrivals, departures).

package sim

import (
	"fmt"
	"strings"
)

// compactThreshold is the minimum number of consumed slots before Pop
// reclaims the dead prefix of the backing slice.
const compactThreshold = 1024

// EventQueue is an array-backed FIFO of events in non-decreasing time order.
// Consumed events are skipped via a head index; the backing slice is compacted
// once more than half of it is dead.
type EventQueue struct {
	events []Event
	head   int
}

// NewEventQueue returns an empty queue with room for capacity events.
func NewEventQueue(capacity int) *EventQueue {
	return &EventQueue{events: make([]Event, 0, max(capacity, 0))}
}

// Push appends ev to the back of the queue.
// Panics if ev is earlier than the current tail: every sequence must be
// non-decreasing in time.
func (q *EventQueue) Push(ev Event) {
	if tail, ok := q.Back(); ok && ev.Time < tail.Time {
		panic(fmt.Sprintf("EventQueue.Push: %v is earlier than tail %v", ev, tail))
	}
	q.events = append(q.events, ev)
}

// Len returns the number of events not yet consumed.
func (q *EventQueue) Len() int {
	return len(q.events) - q.head
}

// Peek returns the event at the front of the queue without removing it.
// ok is false if the queue is empty.
func (q *EventQueue) Peek() (ev Event, ok bool) {
	if q.Len() == 0 {
		return Event{}, false
	}
	return q.events[q.head], true
}

// Back returns the most recently pushed event still in the queue.
// ok is false if the queue is empty.
func (q *EventQueue) Back() (ev Event, ok bool) {
	if q.Len() == 0 {
		return Event{}, false
	}
	return q.events[len(q.events)-1], true
}

// Pop removes and returns the front event. Panics if the queue is empty.
func (q *EventQueue) Pop() Event {
	if q.Len() == 0 {
		panic("EventQueue.Pop: queue is empty")
	}
	ev := q.events[q.head]
	q.head++
	switch {
	case q.head == len(q.events):
		q.events = q.events[:0]
		q.head = 0
	case q.head >= compactThreshold && 2*q.head >= len(q.events):
		n := copy(q.events, q.events[q.head:])
		q.events = q.events[:n]
		q.head = 0
	}
	return ev
}

// Items returns the pending events, front first.
// The returned slice is the queue's internal storage -- callers MUST NOT
// modify it, and it is invalidated by the next Push or Pop.
func (q *EventQueue) Items() []Event {
	return q.events[q.head:]
}

func (q *EventQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, ev := range q.Items() {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(ev.String())
	}
	sb.WriteString("]")
	return sb.String()
}
