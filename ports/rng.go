package ports

import "math/rand"

// RNGPort provides seeded random number generation for deterministic operations
type RNGPort interface {
	// Stream returns an independent generator for a named unit of work. The same
	// key always yields the same sequence for a given base seed.
	Stream(key string) *rand.Rand
}
