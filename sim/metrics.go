// Tracks the counters accumulated during a single run and the performance
// measures derived from them.

package sim

// Counters are the only externally visible output of a run.
// They are reset at the start of every Run.
type Counters struct {
	Observations int64 `json:"observations"` // observation events handled
	Arrivals     int64 `json:"arrivals"`     // arrival events handled, admitted or dropped
	Departures   int64 `json:"departures"`   // departure events handled
	Idle         int64 `json:"idle"`         // observations that found the system empty
	Occupancy    int64 `json:"occupancy"`    // sum of occupancy over all observations
	Dropped      int64 `json:"dropped"`      // arrivals rejected by a full buffer
}

// Events returns the total number of events consumed by the run.
func (c Counters) Events() int64 {
	return c.Observations + c.Arrivals + c.Departures
}

// Admitted returns the number of arrivals that entered the buffer.
func (c Counters) Admitted() int64 {
	return c.Arrivals - c.Dropped
}

// MeanInSystem returns the time-average number of packets in the system as
// seen by the observer. Returns 0 if nothing was observed.
func (c Counters) MeanInSystem() float64 {
	if c.Observations == 0 {
		return 0
	}
	return float64(c.Occupancy) / float64(c.Observations)
}

// IdleProportion returns the fraction of observations that found the system
// empty. Returns 0 if nothing was observed.
func (c Counters) IdleProportion() float64 {
	if c.Observations == 0 {
		return 0
	}
	return float64(c.Idle) / float64(c.Observations)
}

// DropProbability returns the fraction of arrivals that were dropped.
// Returns 0 if nothing arrived.
func (c Counters) DropProbability() float64 {
	if c.Arrivals == 0 {
		return 0
	}
	return float64(c.Dropped) / float64(c.Arrivals)
}
