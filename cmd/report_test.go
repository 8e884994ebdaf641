package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/queue-sim/queue-sim/sim"
	"github.com/queue-sim/queue-sim/sim/experiment"
)

func TestWriteRunReport_Text(t *testing.T) {
	tests := []struct {
		name      string
		capacity  int
		rho       float64
		wantDrop  bool
		wantTheor string
	}{
		{"unbounded stable", sim.Unbounded, 0.5, false, "(theory: 1.000000)"},
		{"unbounded overloaded", sim.Unbounded, 1.2, false, "(theory: unstable)"},
		{"finite buffer", 10, 1.2, true, "(theory: "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN the counters of a short run
			cfg := sim.NewConfigForIntensity(5, tt.rho, 2000, 1e6, tt.capacity, 0)
			c, err := sim.Simulate(cfg)
			require.NoError(t, err)

			// WHEN the text report is written
			var buf bytes.Buffer
			require.NoError(t, writeRunReport(&buf, outputText, cfg, c))
			out := buf.String()

			// THEN it carries the headline measures
			assert.Contains(t, out, "=== Simulation Results ===")
			assert.Contains(t, out, "Average Number of Packets in System")
			assert.Contains(t, out, "Proportion of System Idle Time")
			assert.Contains(t, out, tt.wantTheor)
			assert.Equal(t, tt.wantDrop, strings.Contains(out, "Probability of Dropping a Packet"))
			if tt.capacity == sim.Unbounded {
				assert.Contains(t, out, "unbounded")
			}
		})
	}
}

func TestWriteRunReport_JSON_UnboundedAsMinusOne(t *testing.T) {
	cfg := sim.NewConfigForIntensity(5, 0.5, 2000, 1e6, sim.Unbounded, 0)
	c, err := sim.Simulate(cfg)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeRunReport(&buf, outputJSON, cfg, c))

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	var config map[string]any
	require.NoError(t, json.Unmarshal(raw["config"], &config))
	assert.Contains(t, config, "packet_length", "config fields use snake_case like the rest of the report")
	assert.NotContains(t, config, "Horizon")

	var got RunReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, -1, got.Config.Capacity)
	assert.Equal(t, c, got.Counters)
	assert.InDelta(t, c.MeanInSystem(), got.MeanInSystem, 1e-12)
	assert.True(t, got.Theory.Stable)
	assert.InDelta(t, 1.0, got.Theory.MeanInSystem, 1e-12)
}

func sweepResult(t *testing.T) *experiment.Result {
	t.Helper()
	plan := experiment.Plan{
		Name:         "tiny",
		Horizon:      5,
		PacketLength: 2000,
		LinkRate:     1e6,
		RhoStart:     0.5,
		RhoEnd:       1.5,
		RhoStep:      1,
		Capacities:   []experiment.Capacity{experiment.UnboundedCapacity, 10},
		Seed:         1,
	}
	res, err := experiment.Run(context.Background(), plan, 2)
	require.NoError(t, err)
	return res
}

func TestWriteSweepReport_Text(t *testing.T) {
	// GIVEN a sweep with a stable and an overloaded unbounded point
	res := sweepResult(t)

	var buf bytes.Buffer
	require.NoError(t, writeSweepReport(&buf, outputText, []*experiment.Result{res, res}))
	out := buf.String()

	// THEN each experiment gets a header and one row per point
	assert.Equal(t, 2, strings.Count(out, "=== Experiment tiny"))
	assert.Contains(t, out, "E[N] theory")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	var unstable int
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) > 1 && fields[0] == "1.50" && fields[1] == "unbounded" {
			// overloaded M/M/1 has no closed-form row values
			assert.Contains(t, fields, "-")
			unstable++
		}
	}
	assert.Equal(t, 2, unstable)
}

func TestWriteSweepReport_JSON(t *testing.T) {
	res := sweepResult(t)

	var buf bytes.Buffer
	require.NoError(t, writeSweepReport(&buf, outputJSON, []*experiment.Result{res}))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	points, ok := got[0]["points"].([]any)
	require.True(t, ok)
	assert.Len(t, points, 4)
	// the unbounded sentinel is rendered as text, not math.MaxInt
	first := points[0].(map[string]any)
	assert.Equal(t, "unbounded", first["capacity"])
	// finite capacities stay numbers
	second := points[1].(map[string]any)
	assert.Equal(t, 10.0, second["capacity"])
	plan := got[0]["plan"].(map[string]any)
	assert.Equal(t, []any{"unbounded", 10.0}, plan["capacities"])
}

func TestFormatCapacity(t *testing.T) {
	assert.Equal(t, "unbounded", formatCapacity(sim.Unbounded))
	assert.Equal(t, "unbounded", formatCapacity(-1))
	assert.Equal(t, "0", formatCapacity(0))
	assert.Equal(t, "25", formatCapacity(25))
}
