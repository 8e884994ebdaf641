// Package trace provides per-event trace recording for single-queue runs.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// Event kind names shared with sim.EventKind.String.
const (
	KindObservation = "observation"
	KindArrival     = "arrival"
	KindDeparture   = "departure"
)

// EventRecord captures a single dispatched event and the state it left behind.
type EventRecord struct {
	Kind      string  `json:"kind"`
	Time      float64 `json:"time"`
	Occupancy int     `json:"occupancy"` // packets in system after the event was handled
	// Arrival-only fields.
	Dropped   bool    `json:"dropped,omitempty"`
	Departure float64 `json:"departure,omitempty"` // scheduled departure time of an admitted packet
}
