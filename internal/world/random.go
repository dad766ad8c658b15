package world

import (
	"hash/fnv"
	"math/rand"
)

// DefaultSeed anchors subsystem RNG streams when no seed is configured.
const DefaultSeed = "arenamind"

// DeterministicSeedValue derives a stable seed from a root seed and a
// subsystem label so independent streams never share a sequence.
func DeterministicSeedValue(rootSeed, label string) int64 {
	hasher := fnv.New64a()
	hasher.Write([]byte(rootSeed))
	hasher.Write([]byte{0})
	hasher.Write([]byte(label))
	sum := hasher.Sum64()
	if sum == 0 {
		sum = 1
	}
	return int64(sum)
}

// Stream is a deterministic RNG sequence. Every client draws from the same
// position for the same tick, so callers must draw in a fixed order.
type Stream struct {
	rng *rand.Rand
}

// NewStream creates a stream for the given root seed and subsystem label.
func NewStream(rootSeed, label string) *Stream {
	if rootSeed == "" {
		rootSeed = DefaultSeed
	}
	return &Stream{rng: rand.New(rand.NewSource(DeterministicSeedValue(rootSeed, label)))}
}

// Next returns the next value in [0, 1).
func (s *Stream) Next() float64 {
	if s == nil || s.rng == nil {
		return 0
	}
	return s.rng.Float64()
}

// NextInclusive returns a value in [lo, hi].
func (s *Stream) NextInclusive(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + s.Next()*(hi-lo)
}
