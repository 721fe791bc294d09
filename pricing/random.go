package pricing

import "math/rand"

// RandomSource is the randomness the engine draws from. *rand.Rand
// satisfies it, so tests can inject a seeded generator.
type RandomSource interface {
	Float64() float64
	Intn(n int) int
}

// NewRand returns a seeded math/rand generator.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func sign(r RandomSource) float64 {
	if r.Intn(2) == 0 {
		return -1
	}
	return 1
}

func uniform(r RandomSource, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + r.Float64()*(hi-lo)
}
