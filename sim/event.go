package sim

import (
	"fmt"

	"github.com/queue-sim/queue-sim/sim/trace"
)

// EventKind identifies which of the three sequences an event belongs to.
// The numeric order is also the tie-break order used by the Scheduler when
// two heads carry the same timestamp.
type EventKind int

const (
	KindObservation EventKind = iota // occupancy sample by the Poisson observer
	KindArrival                      // packet arrival
	KindDeparture                    // service completion

	numEventKinds = 3
)

var kindNames = [numEventKinds]string{
	trace.KindObservation,
	trace.KindArrival,
	trace.KindDeparture,
}

func (k EventKind) String() string {
	if k < 0 || int(k) >= numEventKinds {
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
	return kindNames[k]
}

// Event is an immutable (kind, timestamp) record. Events carry no identity
// beyond these two fields and are stored by value.
type Event struct {
	Kind EventKind
	Time float64 // simulation time in seconds
}

func (e Event) String() string {
	return fmt.Sprintf("%s@%.6f", e.Kind, e.Time)
}
