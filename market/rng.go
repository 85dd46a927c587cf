package market

import (
	"hash/fnv"
	"math/rand/v2"
)

// SimKey uniquely identifies a reproducible simulation run. Two simulated
// collaborators built from the same SimKey MUST fabricate identical data.
type SimKey int64

// RNG subsystem names for the simulated collaborators.
const (
	SubsystemExecution      = "execution"
	SubsystemInterpretation = "interpretation"
	SubsystemSettlement     = "settlement"
)

// PartitionedRNG provides deterministic, isolated RNG instances per
// subsystem, so adding randomness to one collaborator never perturbs the
// stream another observes.
//
// Derivation: masterSeed XOR fnv1a64(subsystemName), fed to a PCG source.
// Thread-safety: NOT thread-safe. Must be called from a single goroutine.
type PartitionedRNG struct {
	key        SimKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a seed.
func NewPartitionedRNG(key SimKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named
// subsystem. The same name always returns the same *rand.Rand instance.
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	derived := uint64(p.key) ^ fnv1a64(name)
	rng := rand.New(rand.NewPCG(derived, derived^0x9e3779b97f4a7c15))
	p.subsystems[name] = rng
	return rng
}

// SourceFor returns an independent deterministic rand.Source for the named
// subsystem, suitable for feeding gonum distributions. Each call returns a
// fresh source at the start of its stream.
func (p *PartitionedRNG) SourceFor(name string) rand.Source {
	derived := uint64(p.key) ^ fnv1a64(name+"/source")
	return rand.NewPCG(derived, derived^0x9e3779b97f4a7c15)
}

// Key returns the SimKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}
