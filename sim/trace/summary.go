package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalEvents  int
	Observations int
	Arrivals     int
	Departures   int
	Admitted     int
	Dropped      int
	MaxOccupancy int
	// TimeOrdered is false if any record is earlier than its predecessor.
	TimeOrdered bool
	// DeparturesOrdered is false if a scheduled departure time is earlier
	// than the one scheduled before it.
	DeparturesOrdered bool
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (ordering flags are true, counts zero).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		TimeOrdered:       true,
		DeparturesOrdered: true,
	}
	if st == nil {
		return summary
	}

	summary.TotalEvents = len(st.Events)
	lastTime, lastDeparture := 0.0, 0.0
	for i, r := range st.Events {
		if i > 0 && r.Time < lastTime {
			summary.TimeOrdered = false
		}
		lastTime = r.Time

		switch r.Kind {
		case KindObservation:
			summary.Observations++
		case KindArrival:
			summary.Arrivals++
			if r.Dropped {
				summary.Dropped++
				break
			}
			summary.Admitted++
			if r.Departure < lastDeparture {
				summary.DeparturesOrdered = false
			}
			lastDeparture = r.Departure
		case KindDeparture:
			summary.Departures++
		}
		if r.Occupancy > summary.MaxOccupancy {
			summary.MaxOccupancy = r.Occupancy
		}
	}

	return summary
}
