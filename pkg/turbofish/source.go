package turbofish

import "math/rand/v2"

// NewSource returns a freshly seeded source meant to back a single
// generation call.
func NewSource() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// NewSeededSource returns a deterministic source for the given seed.
func NewSeededSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
