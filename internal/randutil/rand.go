// Package randutil derives reproducible random sources for simulations.
package randutil

import rand "math/rand/v2"

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// Both PCG state words are derived from the seed so that every shoe built
// from the same seed deals the same sequence.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Derive returns a seed for worker id that is independent of the seeds of
// other ids derived from the same master seed.
func Derive(seed int64, id int) int64 {
	return int64(mix(uint64(seed) ^ mix(uint64(id)*goldenRatio64)))
}

// ForWorker is shorthand for New(Derive(seed, id)).
func ForWorker(seed int64, id int) *rand.Rand {
	return New(Derive(seed, id))
}

// splitmix64 finaliser
func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
