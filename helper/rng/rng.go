// Package rng seeds every source of randomness from one explicit value.
//
// There is no package-level generator: SetSeed returns a *PartitionedRNG that
// the process entry point threads through to whatever needs randomness.
package rng

import (
	"fmt"
	"hash/fnv"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// === Subsystem Constants ===

const (
	// SubsystemSampling is the RNG subsystem for data sampling.
	// Uses the master seed directly so a bare rand.NewSource(seed) reproduces it.
	SubsystemSampling = "sampling"

	// SubsystemAdmission is the RNG subsystem for admission decisions and
	// lease identifiers.
	SubsystemAdmission = "admission"
)

// SubsystemWorker returns the subsystem name for worker N.
func SubsystemWorker(id int) string {
	return fmt.Sprintf("worker_%d", id)
}

// Seeder is a randomness source outside this package (an accelerator runtime,
// a third-party sampler) that must be seeded alongside the host generators.
type Seeder interface {
	Seed(seed int64)
}

// SeederFunc adapts a function to Seeder.
type SeederFunc func(seed int64)

func (f SeederFunc) Seed(seed int64) { f(seed) }

// SetSeed makes downstream sampling reproducible. It returns the generator
// family for seed; accel seeders are seeded with the same value only when
// useAccelerator is set. Call once at startup.
func SetSeed(seed int64, useAccelerator bool, accel ...Seeder) *PartitionedRNG {
	if useAccelerator {
		for _, s := range accel {
			s.Seed(seed)
		}
		logrus.Debugf("rng: seeded %d accelerator source(s) with %d", len(accel), seed)
	}
	return NewPartitionedRNG(seed)
}

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
//
// Derivation formula:
//   - For SubsystemSampling: uses the master seed directly
//   - For all other subsystems: masterSeed XOR fnv1a64(subsystemName)
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type PartitionedRNG struct {
	seed       int64
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a master seed.
func NewPartitionedRNG(seed int64) *PartitionedRNG {
	return &PartitionedRNG{
		seed:       seed,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if r, ok := p.subsystems[name]; ok {
		return r
	}

	derivedSeed := p.seed
	if name != SubsystemSampling {
		derivedSeed ^= fnv1a64(name)
	}

	r := rand.New(rand.NewSource(derivedSeed))
	p.subsystems[name] = r
	return r
}

// Seed returns the master seed.
func (p *PartitionedRNG) Seed() int64 {
	return p.seed
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
