package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two runs with the same SimulationKey and identical configuration
// MUST produce bit-for-bit identical results.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// === Subsystem names ===

// SubsystemArrivals returns the subsystem name for a stream's inter-arrival draws.
func SubsystemArrivals(stream string) string {
	return fmt.Sprintf("stream/%s/arrivals", stream)
}

// SubsystemService returns the subsystem name for a stream's service-time draws.
func SubsystemService(stream string) string {
	return fmt.Sprintf("stream/%s/service", stream)
}

// SubsystemReplication returns the subsystem name for replication run.
func SubsystemReplication(run int) string {
	return fmt.Sprintf("replication_%d", run)
}

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
//
// Derivation formula: masterSeed XOR fnv1a64(subsystemName).
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
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

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	rng := rand.New(rand.NewSource(p.derive(name)))
	p.subsystems[name] = rng
	return rng
}

// ForReplication returns a fresh PartitionedRNG keyed for replication run.
// Replications derived from the same master key never share draws, and
// replication k's sequence does not depend on how many draws k-1 consumed.
func (p *PartitionedRNG) ForReplication(run int) *PartitionedRNG {
	return NewPartitionedRNG(SimulationKey(p.derive(SubsystemReplication(run))))
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

func (p *PartitionedRNG) derive(name string) int64 {
	return int64(p.key) ^ fnv1a64(name)
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}

// === Samplers ===

// Sampler draws a positive duration with the given mean.
type Sampler interface {
	Sample(mean float64) float64
}

// ExpSampler draws exponentially-distributed durations.
type ExpSampler struct {
	rng *rand.Rand
}

// NewExpSampler wraps rng. rng must not be nil.
func NewExpSampler(rng *rand.Rand) *ExpSampler {
	if rng == nil {
		panic("NewExpSampler: rng must not be nil")
	}
	return &ExpSampler{rng: rng}
}

// Sample returns an Exp(1/mean) draw, i.e. a value with expectation mean.
func (s *ExpSampler) Sample(mean float64) float64 {
	return s.rng.ExpFloat64() * mean
}
