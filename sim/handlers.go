package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/queue-sim/queue-sim/sim/trace"
)

// dispatch routes ev to the handler for its kind. Every handler consumes
// exactly the event it was given, after applying its effect.
func (sim *Simulator) dispatch(ev Event) {
	switch ev.Kind {
	case KindObservation:
		sim.handleObservation(ev)
	case KindArrival:
		sim.handleArrival(ev)
	case KindDeparture:
		sim.handleDeparture(ev)
	default:
		panic(fmt.Sprintf("dispatch: unknown event kind %v", ev.Kind))
	}
}

// handleObservation samples the number of packets in the system without
// touching the departure sequence.
func (sim *Simulator) handleObservation(ev Event) {
	occupancy := sim.scheduler.Departures().Len()
	sim.Counters.Observations++
	if occupancy == 0 {
		sim.Counters.Idle++
	} else {
		sim.Counters.Occupancy += int64(occupancy)
	}
	sim.consume(ev)

	if sim.trace.Enabled() {
		sim.trace.RecordEvent(trace.EventRecord{Kind: trace.KindObservation, Time: ev.Time, Occupancy: occupancy})
	}
}

// handleArrival admits the packet if the buffer has room and schedules its
// departure, otherwise drops it.
//
// Service is FIFO and non-preemptive: the packet starts service at the later
// of its arrival and the departure of the packet ahead of it.
func (sim *Simulator) handleArrival(ev Event) {
	sim.Counters.Arrivals++
	departures := sim.scheduler.Departures()

	if departures.Len() >= sim.cfg.Capacity {
		sim.Counters.Dropped++
		sim.consume(ev)
		logrus.Tracef("[t=%.6f] Dropped arrival, buffer full (%d)", ev.Time, departures.Len())
		if sim.trace.Enabled() {
			sim.trace.RecordEvent(trace.EventRecord{Kind: trace.KindArrival, Time: ev.Time, Occupancy: departures.Len(), Dropped: true})
		}
		return
	}

	start := ev.Time
	if tail, ok := departures.Back(); ok && tail.Time > start {
		start = tail.Time
	}
	departure := Event{Kind: KindDeparture, Time: start + Exponential(sim.serviceSrc, sim.serviceRate)}
	sim.scheduler.Schedule(departure)
	sim.consume(ev)

	if sim.trace.Enabled() {
		sim.trace.RecordEvent(trace.EventRecord{Kind: trace.KindArrival, Time: ev.Time, Occupancy: departures.Len(), Departure: departure.Time})
	}
}

// handleDeparture completes service of the packet at the head of the buffer.
func (sim *Simulator) handleDeparture(ev Event) {
	sim.Counters.Departures++
	sim.consume(ev)

	if sim.trace.Enabled() {
		sim.trace.RecordEvent(trace.EventRecord{Kind: trace.KindDeparture, Time: ev.Time, Occupancy: sim.scheduler.Departures().Len()})
	}
}

// consume removes ev from its sequence. The removed head must be ev itself;
// anything else means an event was consumed twice or skipped.
func (sim *Simulator) consume(ev Event) {
	if got := sim.scheduler.Consume(ev.Kind); got != ev {
		panic(fmt.Sprintf("consume: dispatched %v but sequence head was %v", ev, got))
	}
}
