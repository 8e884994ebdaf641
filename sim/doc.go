// Package sim provides the discrete-event engine for the single-server queue simulator.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - event.go: the three event kinds (Observation, Arrival, Departure)
//   - timeline.go: pre-generation of the observation and arrival sequences
//   - scheduler.go: the three-way merge that picks the next event
//   - handlers.go: per-kind state transitions and counter updates
//   - simulator.go: the run loop
//
// # Model
//
// Packets arrive as a Poisson process with rate Lambda and are served one at a
// time, FIFO, with exponentially distributed service times of mean
// PacketLength/LinkRate. The buffer holds at most Capacity packets (in service
// plus waiting); arrivals to a full buffer are dropped. Capacity == Unbounded
// models the M/M/1 queue, any finite value the M/M/1/K queue.
//
// Occupancy is sampled by an independent Poisson observer of rate Alpha, so the
// fraction of idle observations and the mean observed occupancy estimate the
// time-average idle probability and number in system.
//
// # State and determinism
//
// All mutable state (the three event sequences, the counters and the random
// streams) is owned by a single Simulator. Independent simulators share
// nothing and may run concurrently. Random draws come from a PartitionedRNG
// derived from a SimulationKey: the timeline and service-time streams are
// isolated, so two runs with the same key and Config produce identical Counters.
//
// Sub-packages:
//   - sim/analytic/: closed-form M/M/1 and M/M/1/K reference values
//   - sim/experiment/: parameter sweeps over traffic intensity and buffer size
//   - sim/trace/: optional per-event trace recording
package sim
