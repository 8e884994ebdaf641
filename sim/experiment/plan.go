// Package experiment runs parameter sweeps of the queue simulator over
// traffic intensity and buffer capacity, with independent replications per
// point, and summarizes them against the analytic reference values.
package experiment

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/queue-sim/queue-sim/sim"
)

// ErrInvalidPlan is wrapped by every Plan validation failure.
var ErrInvalidPlan = errors.New("invalid experiment plan")

// MaxIntensities caps the number of traffic intensities a plan may sweep.
const MaxIntensities = 1_000_000

// Capacity is a buffer size in a plan. In YAML it is either a non-negative
// integer or the string "unbounded".
type Capacity int

// UnboundedCapacity is the Capacity of an infinite buffer.
const UnboundedCapacity = Capacity(sim.Unbounded)

func (c Capacity) String() string {
	if c == UnboundedCapacity {
		return "unbounded"
	}
	return strconv.Itoa(int(c))
}

// UnmarshalYAML accepts an integer or "unbounded" (also "inf").
func (c *Capacity) UnmarshalYAML(value *yaml.Node) error {
	switch strings.ToLower(strings.TrimSpace(value.Value)) {
	case "unbounded", "inf", "infinite":
		*c = UnboundedCapacity
		return nil
	}
	var n int
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("capacity %q: want an integer or \"unbounded\"", value.Value)
	}
	*c = Capacity(n)
	return nil
}

// MarshalYAML writes unbounded capacities as the string "unbounded".
func (c Capacity) MarshalYAML() (any, error) {
	if c == UnboundedCapacity {
		return "unbounded", nil
	}
	return int(c), nil
}

// MarshalJSON writes finite capacities as numbers and the unbounded sentinel
// as "unbounded" rather than math.MaxInt.
func (c Capacity) MarshalJSON() ([]byte, error) {
	if c == UnboundedCapacity {
		return []byte(`"unbounded"`), nil
	}
	return []byte(strconv.Itoa(int(c))), nil
}

// UnmarshalJSON accepts the forms written by MarshalJSON.
func (c *Capacity) UnmarshalJSON(data []byte) error {
	if string(data) == `"unbounded"` {
		*c = UnboundedCapacity
		return nil
	}
	n, err := strconv.Atoi(string(data))
	if err != nil {
		return fmt.Errorf("capacity %s: want an integer or \"unbounded\"", data)
	}
	*c = Capacity(n)
	return nil
}

// Capacities is the buffer-size list of a plan. Null entries are rejected:
// yaml.v3 skips element unmarshalers for null nodes, so "[~]" would
// otherwise decode as a zero-size buffer.
type Capacities []Capacity

// UnmarshalYAML decodes a sequence of capacities.
func (cs *Capacities) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: capacities must be a list", value.Line)
	}
	out := make(Capacities, 0, len(value.Content))
	for i, item := range value.Content {
		node := item
		if node.Kind == yaml.AliasNode && node.Alias != nil {
			node = node.Alias
		}
		if node.ShortTag() == "!!null" {
			return fmt.Errorf("line %d: capacity %d is empty; want an integer or \"unbounded\"", item.Line, i)
		}
		var c Capacity
		if err := node.Decode(&c); err != nil {
			return err
		}
		out = append(out, c)
	}
	*cs = out
	return nil
}

// Plan describes one sweep: every rho in [RhoStart, RhoEnd] by RhoStep,
// crossed with every capacity, each run Replications times.
type Plan struct {
	Name           string     `yaml:"name" json:"name"`
	Horizon        float64    `yaml:"horizon" json:"horizon"`             // seconds per run
	PacketLength   float64    `yaml:"packet_length" json:"packet_length"` // L, bits
	LinkRate       float64    `yaml:"link_rate" json:"link_rate"`         // C, bits per second
	RhoStart       float64    `yaml:"rho_start" json:"rho_start"`
	RhoEnd         float64    `yaml:"rho_end" json:"rho_end"`
	RhoStep        float64    `yaml:"rho_step" json:"rho_step"`
	ObserverFactor float64    `yaml:"observer_factor" json:"observer_factor"` // alpha = factor * lambda; 0 selects the default
	Capacities     Capacities `yaml:"capacities" json:"capacities"`
	Replications   int        `yaml:"replications" json:"replications"` // 0 selects 1
	Seed           int64      `yaml:"seed" json:"seed"`
	BatchSize      int        `yaml:"batch_size" json:"batch_size"` // 0 selects sim.DefaultBatchSize
}

// MM1Plan is the reference M/M/1 experiment: rho from 0.25 to 0.95 in
// steps of 0.1 with an infinite buffer.
func MM1Plan() Plan {
	return Plan{
		Name:           "mm1",
		Horizon:        2000,
		PacketLength:   2000,
		LinkRate:       1e6,
		RhoStart:       0.25,
		RhoEnd:         0.95,
		RhoStep:        0.1,
		ObserverFactor: sim.DefaultObserverFactor,
		Capacities:     []Capacity{UnboundedCapacity},
		Replications:   1,
		Seed:           42,
	}
}

// MM1KPlan is the reference M/M/1/K experiment: rho from 0.5 to 1.6 in steps
// of 0.1 with buffers of 10, 25 and 50 packets.
func MM1KPlan() Plan {
	return Plan{
		Name:           "mm1k",
		Horizon:        2000,
		PacketLength:   2000,
		LinkRate:       1e6,
		RhoStart:       0.5,
		RhoEnd:         1.6,
		RhoStep:        0.1,
		ObserverFactor: sim.DefaultObserverFactor,
		Capacities:     []Capacity{10, 25, 50},
		Replications:   1,
		Seed:           42,
	}
}

// Validate checks the plan and returns all violations joined.
func (p Plan) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidPlan}, args...)...))
	}
	positive := func(name string, v float64) {
		if !(v > 0) || math.IsInf(v, 1) {
			bad("%s must be a positive finite number, got %v", name, v)
		}
	}
	positive("horizon", p.Horizon)
	positive("packet_length", p.PacketLength)
	positive("link_rate", p.LinkRate)
	positive("rho_start", p.RhoStart)
	if !(p.RhoEnd >= p.RhoStart) || math.IsInf(p.RhoEnd, 1) {
		bad("rho_end (%v) must be finite and >= rho_start (%v)", p.RhoEnd, p.RhoStart)
	} else if p.RhoEnd > p.RhoStart {
		positive("rho_step", p.RhoStep)
		if steps := (p.RhoEnd - p.RhoStart) / p.RhoStep; p.RhoStep > 0 && !(steps < MaxIntensities) {
			bad("rho_step %v gives more than %d intensities between %v and %v", p.RhoStep, MaxIntensities, p.RhoStart, p.RhoEnd)
		}
	}
	if p.ObserverFactor < 0 {
		bad("observer_factor must be >= 0, got %v", p.ObserverFactor)
	}
	if len(p.Capacities) == 0 {
		bad("at least one capacity is required")
	}
	for _, c := range p.Capacities {
		if c < 0 {
			bad("capacity must be >= 0 or unbounded, got %d", int(c))
		}
	}
	if p.Replications < 0 {
		bad("replications must be >= 0, got %d", p.Replications)
	}
	return errors.Join(errs...)
}

// Intensities returns the swept traffic intensities. Each value is computed
// as RhoStart + i*RhoStep rather than by repeated addition, and RhoEnd is
// included up to a small tolerance.
func (p Plan) Intensities() []float64 {
	if p.RhoEnd <= p.RhoStart || !(p.RhoStep > 0) {
		return []float64{p.RhoStart}
	}
	n := int(math.Floor((p.RhoEnd-p.RhoStart)/p.RhoStep+1e-9)) + 1
	rhos := make([]float64, n)
	for i := range rhos {
		// round to suppress binary noise such as 0.35000000000000003
		rhos[i] = math.Round((p.RhoStart+float64(i)*p.RhoStep)*1e12) / 1e12
	}
	return rhos
}

// Point is one (rho, capacity) configuration of a plan.
type Point struct {
	Rho      float64  `json:"rho"`
	Capacity Capacity `json:"capacity"`
	Lambda   float64  `json:"lambda"`
	Alpha    float64  `json:"alpha"`
}

// Points expands the plan, rho-major then capacity in plan order.
func (p Plan) Points() []Point {
	rhos := p.Intensities()
	points := make([]Point, 0, len(rhos)*len(p.Capacities))
	for _, rho := range rhos {
		for _, c := range p.Capacities {
			cfg := p.config(rho, c, 0)
			points = append(points, Point{Rho: rho, Capacity: c, Lambda: cfg.Lambda, Alpha: cfg.Alpha})
		}
	}
	return points
}

func (p Plan) replications() int {
	return max(p.Replications, 1)
}

func (p Plan) config(rho float64, c Capacity, seed int64) sim.Config {
	cfg := sim.NewConfigForIntensity(p.Horizon, rho, p.PacketLength, p.LinkRate, int(c), p.ObserverFactor)
	cfg.BatchSize = p.BatchSize
	cfg.Seed = seed
	return cfg
}
