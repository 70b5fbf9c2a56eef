package turbofish

import "math/rand/v2"

// scriptSource replays a fixed list of integers, reduced modulo n. Once the
// script runs out it returns 0. Float64 always returns 0 so nesting is never
// refused on probability alone.
type scriptSource struct {
	ints []int
}

func (s *scriptSource) IntN(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

func (s *scriptSource) Float64() float64 {
	return 0
}

func seeded(seed uint64) *rand.Rand {
	return NewSeededSource(seed)
}
