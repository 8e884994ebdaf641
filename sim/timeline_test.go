package sim

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTimeline_ConstantGaps_ExactTimestamps(t *testing.T) {
	// GIVEN a source that always yields u = 0.5, so gaps are ln2/rate:
	// observation gap 1 (alpha = ln2), arrival gap 0.5 (lambda = 2 ln2)
	src := &fixedSource{vals: []float64{0.5}}

	// WHEN a timeline over [0, 3] is built
	obs, arr := BuildTimeline(src, 3, math.Ln2, 2*math.Ln2, 4)

	// THEN each sequence stops at the first timestamp reaching the horizon
	wantObs := []Event{
		{KindObservation, 1}, {KindObservation, 2}, {KindObservation, 3},
	}
	wantArr := []Event{
		{KindArrival, 0.5}, {KindArrival, 1}, {KindArrival, 1.5},
		{KindArrival, 2}, {KindArrival, 2.5}, {KindArrival, 3},
	}
	if diff := cmp.Diff(wantObs, obs.Items()); diff != "" {
		t.Errorf("observations mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantArr, arr.Items()); diff != "" {
		t.Errorf("arrivals mismatch (-want +got):\n%s", diff)
	}

	// AND draws happen in whole batches: 6 slots needed, batch of 4 -> 2 batches
	assert.Equal(t, 2*2*4, src.draws)
}

func TestBuildTimeline_BatchSizeDoesNotChangeTimeline(t *testing.T) {
	// GIVEN the same seeded stream
	build := func(batch int) (*EventQueue, *EventQueue) {
		return BuildTimeline(newRandFromSeed(42), 50, 25, 5, batch)
	}
	refObs, refArr := build(1)

	// WHEN built with different batch sizes THEN the sequences are identical
	for _, batch := range []int{7, 64, DefaultBatchSize, 0} {
		obs, arr := build(batch)
		if diff := cmp.Diff(refObs.Items(), obs.Items()); diff != "" {
			t.Errorf("batch %d: observations differ (-batch1 +got):\n%s", batch, diff)
		}
		if diff := cmp.Diff(refArr.Items(), arr.Items()); diff != "" {
			t.Errorf("batch %d: arrivals differ (-batch1 +got):\n%s", batch, diff)
		}
	}
}

func TestBuildTimeline_SequencesOrderedAndCoverHorizon(t *testing.T) {
	horizon := 100.0
	obs, arr := BuildTimeline(newRandFromSeed(3), horizon, 40, 8, DefaultBatchSize)

	for _, tc := range []struct {
		name string
		q    *EventQueue
		kind EventKind
	}{
		{"observations", obs, KindObservation},
		{"arrivals", arr, KindArrival},
	} {
		t.Run(tc.name, func(t *testing.T) {
			items := tc.q.Items()
			require.NotEmpty(t, items)
			prev := 0.0
			for i, ev := range items {
				assert.Equal(t, tc.kind, ev.Kind)
				assert.Greater(t, ev.Time, prev-1e-15, "event %d out of order", i)
				prev = ev.Time
				if i < len(items)-1 {
					assert.Less(t, ev.Time, horizon, "only the last event may reach the horizon")
				}
			}
			assert.GreaterOrEqual(t, items[len(items)-1].Time, horizon)
		})
	}

	// Poisson counts: expect about rate*horizon events (4000 and 800)
	assert.InEpsilon(t, 4000, obs.Len(), 0.1)
	assert.InEpsilon(t, 800, arr.Len(), 0.15)
}
