// sim/simulator.go
package sim

import (
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/queue-sim/queue-sim/sim/trace"
)

// Simulator is the core object that holds the event sequences, counters and
// random streams of one run. Nothing is shared between simulators, so
// independent simulators may run concurrently. A single Simulator is not
// safe for concurrent use.
type Simulator struct {
	// Clock is the timestamp of the event being handled.
	Clock    float64
	Counters Counters

	cfg         Config
	serviceRate float64
	scheduler   *Scheduler
	trace       *trace.SimulationTrace

	// sharedTimeline and sharedService are set by WithSources. When nil, the
	// sources are re-derived from cfg.Seed at the start of every Run.
	sharedTimeline UniformSource
	sharedService  UniformSource
	timelineSrc    UniformSource
	serviceSrc     UniformSource
}

// Option configures optional Simulator behavior.
type Option func(*Simulator)

// WithTrace records every dispatched event into st when st is enabled.
func WithTrace(st *trace.SimulationTrace) Option {
	return func(sim *Simulator) {
		sim.trace = st
	}
}

// WithSources replaces the seeded streams with caller-owned uniform sources.
// The sources keep their state across runs, so repeated runs differ unless
// the caller resets them. Wrap a source in a LockedSource before sharing it
// between simulators.
func WithSources(timeline, service UniformSource) Option {
	if timeline == nil || service == nil {
		panic("WithSources: sources must not be nil")
	}
	return func(sim *Simulator) {
		sim.sharedTimeline = timeline
		sim.sharedService = service
	}
}

// NewSimulator validates cfg and returns a Simulator ready to Run.
// No state is created if cfg is invalid.
func NewSimulator(cfg Config, opts ...Option) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Simulator{
		cfg:         cfg,
		serviceRate: cfg.ServiceRate(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Config returns the run configuration.
func (sim *Simulator) Config() Config {
	return sim.cfg
}

// reset clears counters and event sequences and rewinds the random streams.
func (sim *Simulator) reset() {
	sim.Clock = 0
	sim.Counters = Counters{}
	sim.scheduler = nil
	if sim.trace != nil {
		sim.trace.Reset()
	}

	if sim.sharedTimeline != nil {
		sim.timelineSrc, sim.serviceSrc = sim.sharedTimeline, sim.sharedService
		return
	}
	timeline, service := NewPartitionedRNG(NewSimulationKey(sim.cfg.Seed)).Streams()
	sim.timelineSrc, sim.serviceSrc = timeline, service
}

// Run executes one simulation and returns its counters.
//
// The loop peeks the earliest pending event, dispatches it to its handler
// (which consumes it) and stops once all three sequences are empty. It always
// terminates: the observation and arrival sequences are finite and each
// arrival schedules at most one departure. Packets still in the buffer when
// the arrivals run out are drained, so on return
// Departures == Arrivals - Dropped.
func (sim *Simulator) Run() Counters {
	sim.reset()

	observations, arrivals := BuildTimeline(sim.timelineSrc, sim.cfg.Horizon, sim.cfg.Alpha, sim.cfg.Lambda, sim.cfg.BatchSize)
	sim.scheduler = NewScheduler(observations, arrivals)

	logrus.Debugf("Starting run: horizon=%v alpha=%v lambda=%v mu=%v capacity=%s seed=%d",
		sim.cfg.Horizon, sim.cfg.Alpha, sim.cfg.Lambda, sim.serviceRate, capacityString(sim.cfg.Capacity), sim.cfg.Seed)

	traceLog := logrus.IsLevelEnabled(logrus.TraceLevel)
	for !sim.scheduler.Empty() {
		ev := sim.scheduler.PeekNext()
		sim.Clock = ev.Time
		if traceLog {
			logrus.Tracef("[t=%.6f] Executing %s", sim.Clock, ev.Kind)
		}
		sim.dispatch(ev)
	}

	logrus.Debugf("[t=%.6f] Run ended: %d events, %d arrivals, %d dropped",
		sim.Clock, sim.Counters.Events(), sim.Counters.Arrivals, sim.Counters.Dropped)
	return sim.Counters
}

// Simulate validates cfg, runs it once and returns the counters.
func Simulate(cfg Config, opts ...Option) (Counters, error) {
	s, err := NewSimulator(cfg, opts...)
	if err != nil {
		return Counters{}, err
	}
	return s.Run(), nil
}

func capacityString(capacity int) string {
	if capacity == Unbounded {
		return "unbounded"
	}
	return strconv.Itoa(capacity)
}
