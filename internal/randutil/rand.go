package randutil

import rand "math/rand/v2"

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// Every deck, AI agent and simulation worker derives its generator here so that
// a configured seed replays the same hands.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Derive returns the seed of the n-th independent stream under seed. Streams
// for different n do not overlap in practice, so hand n of a simulation can be
// replayed on its own.
func Derive(seed int64, n int) int64 {
	return int64(mix(uint64(seed) + uint64(n+1)*goldenRatio64))
}

// ForHand returns the generator for hand n of a run seeded with seed.
func ForHand(seed int64, n int) *rand.Rand {
	return New(Derive(seed, n))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
