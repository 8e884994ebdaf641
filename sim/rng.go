package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// SimulationKey identifies a reproducible run: the same key and Config
// always give the same Counters.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// Named random streams of a run.
const (
	// SubsystemTimeline drives observation and arrival gaps. It is seeded
	// with the key itself, so --seed N replays stream N.
	SubsystemTimeline = "timeline"

	// SubsystemService drives service times. Separate from the timeline so
	// batch look-ahead never shifts which uniform a packet's service uses.
	SubsystemService = "service"
)

// SubsystemReplication names the stream that seeds replication id of an
// experiment.
func SubsystemReplication(id int) string {
	return fmt.Sprintf("replication_%d", id)
}

// PartitionedRNG hands out one independently seeded *rand.Rand per named
// stream. SubsystemTimeline uses the key as its seed; every other stream uses
// key XOR fnv1a64(name). Streams are created on first use and cached.
//
// Not safe for concurrent use; each Simulator owns its own.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns the stream for name, creating it on first use.
// Repeated calls return the same instance, so draws continue where they left off.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	seed := int64(p.key)
	if name != SubsystemTimeline {
		seed ^= fnv1a64(name)
	}
	rng := newRandFromSeed(seed)
	p.subsystems[name] = rng
	return rng
}

// Streams returns the timeline and service streams of a run.
func (p *PartitionedRNG) Streams() (timeline, service *rand.Rand) {
	return p.ForSubsystem(SubsystemTimeline), p.ForSubsystem(SubsystemService)
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

func newRandFromSeed(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
