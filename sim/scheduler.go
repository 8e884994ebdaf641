package sim

import "fmt"

// Scheduler merges the three ordered event sequences and exposes the next
// event by timestamp. Each sequence is already in non-decreasing time order,
// so the next event is always one of the three heads.
//
// Equal timestamps are broken by kind: Observation, then Arrival, then
// Departure. Exact ties have probability zero under continuous draws; the
// fixed order only keeps replays reproducible.
type Scheduler struct {
	queues [numEventKinds]*EventQueue
}

// NewScheduler creates a scheduler over the given observation and arrival
// sequences with an empty departure sequence. nil sequences are treated as empty.
func NewScheduler(observations, arrivals *EventQueue) *Scheduler {
	if observations == nil {
		observations = &EventQueue{}
	}
	if arrivals == nil {
		arrivals = &EventQueue{}
	}
	return &Scheduler{
		queues: [numEventKinds]*EventQueue{
			KindObservation: observations,
			KindArrival:     arrivals,
			KindDeparture:   &EventQueue{},
		},
	}
}

// Queue returns the sequence holding events of the given kind.
func (s *Scheduler) Queue(kind EventKind) *EventQueue {
	return s.queues[kind]
}

// Departures returns the departure sequence. Its length is the current
// number of packets in the system.
func (s *Scheduler) Departures() *EventQueue {
	return s.queues[KindDeparture]
}

// Len returns the total number of pending events across all sequences.
func (s *Scheduler) Len() int {
	n := 0
	for _, q := range s.queues {
		n += q.Len()
	}
	return n
}

// Empty reports whether all three sequences are exhausted.
func (s *Scheduler) Empty() bool {
	return s.Len() == 0
}

// PeekNext returns, without removing it, the earliest pending event.
// Callers must check Empty first: PeekNext panics when nothing is pending.
func (s *Scheduler) PeekNext() Event {
	var next Event
	found := false
	for _, q := range s.queues {
		head, ok := q.Peek()
		if !ok {
			continue
		}
		// strict < keeps the lower kind on ties
		if !found || head.Time < next.Time {
			next = head
			found = true
		}
	}
	if !found {
		panic("Scheduler.PeekNext: all event sequences are empty")
	}
	return next
}

// Schedule appends ev to the sequence for its kind.
func (s *Scheduler) Schedule(ev Event) {
	if ev.Kind < 0 || int(ev.Kind) >= numEventKinds {
		panic(fmt.Sprintf("Scheduler.Schedule: unknown event kind %v", ev.Kind))
	}
	s.queues[ev.Kind].Push(ev)
}

// Consume removes and returns the head of the sequence for kind.
// Panics if that sequence is empty.
func (s *Scheduler) Consume(kind EventKind) Event {
	if kind < 0 || int(kind) >= numEventKinds {
		panic(fmt.Sprintf("Scheduler.Consume: unknown event kind %v", kind))
	}
	if s.queues[kind].Len() == 0 {
		panic(fmt.Sprintf("Scheduler.Consume: %s sequence is empty", kind))
	}
	return s.queues[kind].Pop()
}
