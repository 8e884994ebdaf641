package experiment

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/queue-sim/queue-sim/sim"
)

func TestReferencePlans_Intensities(t *testing.T) {
	tests := []struct {
		name string
		plan Plan
		want []float64
	}{
		{"mm1", MM1Plan(), []float64{0.25, 0.35, 0.45, 0.55, 0.65, 0.75, 0.85, 0.95}},
		{"mm1k", MM1KPlan(), []float64{0.5, 0.6, 0.7, 0.8, 0.9, 1, 1.1, 1.2, 1.3, 1.4, 1.5, 1.6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.plan.Validate())
			// the end point is included despite binary rounding of the step
			assert.Equal(t, tt.want, tt.plan.Intensities())
		})
	}
}

func TestPlan_Intensities_SinglePoint(t *testing.T) {
	p := MM1Plan()
	p.RhoEnd = p.RhoStart
	p.RhoStep = 0
	require.NoError(t, p.Validate())
	assert.Equal(t, []float64{0.25}, p.Intensities())
}

func TestPlan_Points_RhoMajorWithDerivedRates(t *testing.T) {
	// GIVEN the M/M/1/K plan with three capacities
	p := MM1KPlan()

	points := p.Points()

	// THEN points are rho-major, capacity-minor
	require.Len(t, points, 12*3)
	assert.Equal(t, Point{Rho: 0.5, Capacity: 10, Lambda: 250, Alpha: 1250}, points[0])
	assert.Equal(t, Capacity(25), points[1].Capacity)
	assert.Equal(t, Capacity(50), points[2].Capacity)
	assert.Equal(t, 0.6, points[3].Rho)
}

func TestPlan_Validate_RejectsBadPlans(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Plan)
		want   string
	}{
		{"zero horizon", func(p *Plan) { p.Horizon = 0 }, "horizon"},
		{"zero packet length", func(p *Plan) { p.PacketLength = 0 }, "packet_length"},
		{"negative link rate", func(p *Plan) { p.LinkRate = -1 }, "link_rate"},
		{"zero rho", func(p *Plan) { p.RhoStart = 0 }, "rho_start"},
		{"inverted range", func(p *Plan) { p.RhoEnd = 0.1 }, "rho_end"},
		{"NaN rho end", func(p *Plan) { p.RhoEnd = math.NaN() }, "rho_end"},
		{"infinite rho end", func(p *Plan) { p.RhoEnd = math.Inf(1) }, "rho_end"},
		{"zero step", func(p *Plan) { p.RhoStep = 0 }, "rho_step"},
		{"no capacities", func(p *Plan) { p.Capacities = nil }, "capacity"},
		{"negative capacity", func(p *Plan) { p.Capacities = []Capacity{-2} }, "capacity"},
		{"negative replications", func(p *Plan) { p.Replications = -1 }, "replications"},
		{"negative observer factor", func(p *Plan) { p.ObserverFactor = -1 }, "observer_factor"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := MM1Plan()
			tt.mutate(&p)

			err := p.Validate()

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidPlan))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCapacity_YAML(t *testing.T) {
	// GIVEN capacities written as numbers and as "unbounded"
	var got struct {
		Capacities Capacities `yaml:"capacities"`
	}
	err := yaml.Unmarshal([]byte("capacities: [10, unbounded, 0, inf]"), &got)
	require.NoError(t, err)

	// THEN the sentinel maps to sim.Unbounded
	assert.Equal(t, Capacities{10, UnboundedCapacity, 0, UnboundedCapacity}, got.Capacities)
	assert.Equal(t, sim.Unbounded, int(UnboundedCapacity))

	// AND it round-trips as a string
	out, err := yaml.Marshal(got)
	require.NoError(t, err)
	assert.Contains(t, string(out), "unbounded")

	// AND garbage is rejected
	assert.Error(t, yaml.Unmarshal([]byte("capacities: [ten]"), &got))
	assert.Error(t, yaml.Unmarshal([]byte("capacities: 10"), &got))
}

func TestCapacities_YAML_NullEntry_Rejected(t *testing.T) {
	for _, doc := range []string{
		"capacities: [~]",
		"capacities: [10, null]",
		"capacities:\n  - 10\n  -\n",
	} {
		t.Run(doc, func(t *testing.T) {
			var got struct {
				Capacities Capacities `yaml:"capacities"`
			}
			err := yaml.Unmarshal([]byte(doc), &got)
			require.Error(t, err, "a null capacity must not decode as a zero-size buffer")
			assert.Contains(t, err.Error(), "empty")
		})
	}
}

func TestCapacity_JSON_NumberOrUnbounded(t *testing.T) {
	out, err := json.Marshal(Capacities{10, UnboundedCapacity, 0})
	require.NoError(t, err)
	assert.JSONEq(t, `[10, "unbounded", 0]`, string(out))

	var back Capacities
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, Capacities{10, UnboundedCapacity, 0}, back)
	assert.Error(t, json.Unmarshal([]byte(`["lots"]`), &back))
}

func TestPlan_Validate_TooManyIntensities_Rejected(t *testing.T) {
	for _, step := range []float64{1e-300, 1e-7} {
		// GIVEN a step so small the sweep would not fit in memory
		p := MM1Plan()
		p.RhoStep = step

		// WHEN validated THEN it is an invalid plan, not a later panic
		err := p.Validate()
		require.Error(t, err, "step %v", step)
		assert.True(t, errors.Is(err, ErrInvalidPlan))
		assert.Contains(t, err.Error(), "intensities")
	}

	// the largest allowed sweep still validates
	p := MM1Plan()
	p.RhoStep = (p.RhoEnd - p.RhoStart) / (MaxIntensities / 2)
	assert.NoError(t, p.Validate())
}

func TestPlan_Seeds_DeterministicAndDistinct(t *testing.T) {
	p := MM1Plan()
	p.Replications = 4

	a, b := p.Seeds(), p.Seeds()

	assert.Equal(t, a, b)
	seen := map[int64]bool{}
	for _, s := range a {
		assert.False(t, seen[s], "duplicate seed %d", s)
		seen[s] = true
	}

	p.Seed++
	assert.NotEqual(t, a, p.Seeds())
}
