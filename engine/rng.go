package engine

import "math/rand"

// Roller produces the random damage multipliers. The engine depends on this
// interface so tests can pin the multiplier to the band midpoint.
type Roller interface {
	// Uniform returns a random float64 in [lo, hi).
	Uniform(lo, hi float64) float64
}

// RNG is the default Roller, a deterministic seeded source.
type RNG struct {
	src *rand.Rand
}

// NewRNG creates a deterministic RNG from a seed.
func NewRNG(seed int64) *RNG {
	return &RNG{src: rand.New(rand.NewSource(seed))}
}

// Uniform returns a random float64 in [lo, hi).
func (r *RNG) Uniform(lo, hi float64) float64 {
	return lo + r.src.Float64()*(hi-lo)
}
