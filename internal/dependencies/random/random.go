package random

import "sync"

// Random provides the pseudo-random perturbations applied to the power level.
// Implementations must be safe for concurrent use.
type Random interface {
	// Intn returns a pseudo-random int in [0, n)
	Intn(n int) int
}

// DefaultSeed is the seed used when none is configured
const DefaultSeed uint32 = 127

// Squirrel3 noise constants
const (
	bitNoise1 uint32 = 0xB5297A4D
	bitNoise2 uint32 = 0x68E31DA4
	bitNoise3 uint32 = 0x1B56C4E9
)

// Noise is a deterministic, position-based noise generator (Squirrel3).
// The same seed always yields the same sequence, which keeps a process run
// reproducible. It is not suitable for anything security related.
type Noise struct {
	mu       sync.Mutex
	seed     uint32
	position uint32
}

// New creates a Noise generator starting at position 0
func New(seed uint32) *Noise {
	return &Noise{seed: seed}
}

// Intn returns the next value of the sequence reduced into [0, n)
func (r *Noise) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	r.mu.Lock()
	value := Squirrel3(r.position, r.seed)
	r.position++
	r.mu.Unlock()
	return int(value % uint32(n))
}

// Seed returns the generator's seed
func (r *Noise) Seed() uint32 {
	return r.seed
}

// Fresh draws from a Noise generator constructed anew for every call, so
// each draw is the first value of the seed's sequence. The power worker uses
// it: every tick applies the same perturbation for a given seed.
type Fresh struct {
	seed uint32
}

// NewFresh creates a Fresh source for seed
func NewFresh(seed uint32) *Fresh {
	return &Fresh{seed: seed}
}

// Intn returns the first value of a new generator reduced into [0, n)
func (r *Fresh) Intn(n int) int {
	return New(r.seed).Intn(n)
}

// Squirrel3 hashes a position with a seed into a 32-bit noise value
func Squirrel3(position, seed uint32) uint32 {
	mangled := position
	mangled *= bitNoise1
	mangled += seed
	mangled ^= mangled >> 8
	mangled += bitNoise2
	mangled ^= mangled << 8
	mangled *= bitNoise3
	mangled ^= mangled >> 8
	return mangled
}
