package sampling

import (
	"hash/fnv"
	"math/rand"
)

// SeededStreams derives independent, reproducible generators per unit of work,
// so per-test sampling does not depend on worker scheduling.
type SeededStreams struct {
	baseSeed int64
}

// NewSeededStreams creates a stream source for a base seed
func NewSeededStreams(baseSeed int64) *SeededStreams {
	return &SeededStreams{baseSeed: baseSeed}
}

// Stream returns the generator for key
func (s *SeededStreams) Stream(key string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(key))
	return rand.New(rand.NewSource(s.baseSeed ^ int64(h.Sum64())))
}
