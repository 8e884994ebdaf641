package sim

import "github.com/sirupsen/logrus"

// DefaultBatchSize is the number of interarrival variates drawn per refill
// for each of the observation and arrival streams.
const DefaultBatchSize = 1000

// BuildTimeline generates the Observation (rate alpha) and Arrival (rate
// lambda) sequences covering [0, horizon].
//
// Variates are drawn batchSize slots at a time, interleaved per slot
// (observation then arrival), so the draw order is the same for every batch
// size and the produced sequences depend only on src. Each sequence keeps a
// running clock; while the clock is below horizon the next variate is added
// and an event appended at the new clock. The final event of each sequence may
// therefore lie past horizon. batchSize <= 0 selects DefaultBatchSize.
//
// Panics if alpha or lambda is not a positive finite number.
func BuildTimeline(src UniformSource, horizon, alpha, lambda float64, batchSize int) (observations, arrivals *EventQueue) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	observations = NewEventQueue(expectedEvents(horizon, alpha))
	arrivals = NewEventQueue(expectedEvents(horizon, lambda))

	observerGaps := make([]float64, batchSize)
	arrivalGaps := make([]float64, batchSize)
	refill := func() {
		for i := 0; i < batchSize; i++ {
			observerGaps[i] = Exponential(src, alpha)
			arrivalGaps[i] = Exponential(src, lambda)
		}
	}
	refill()

	var observerClock, arrivalClock float64
	refills := 0
	for j := 0; observerClock < horizon || arrivalClock < horizon; j++ {
		if j == batchSize {
			refill()
			refills++
			j = 0
		}
		if observerClock < horizon {
			observerClock += observerGaps[j]
			observations.Push(Event{Kind: KindObservation, Time: observerClock})
		}
		if arrivalClock < horizon {
			arrivalClock += arrivalGaps[j]
			arrivals.Push(Event{Kind: KindArrival, Time: arrivalClock})
		}
	}

	logrus.Debugf("Timeline built: %d observations, %d arrivals, %d batch refills",
		observations.Len(), arrivals.Len(), refills)
	return observations, arrivals
}

// expectedEvents sizes a sequence for a Poisson stream of the given rate,
// with some slack for upward fluctuation.
func expectedEvents(horizon, rate float64) int {
	n := horizon * rate * 1.05
	if !(n > 0) || n > 1<<26 {
		return 0
	}
	return int(n) + 16
}
