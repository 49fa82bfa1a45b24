package pkg

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"sync"
)

// NewSeed - generates a seed for NewIndexSource using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// NewIndexSource - returns a func yielding uniform values in [0, n).
// The same seed always yields the same sequence. Safe for concurrent use.
func NewIndexSource(seed int64) func(n int) int {
	var mu sync.Mutex
	rng := rand.New(rand.NewSource(seed)) //nolint: gosec // game moves, not secrets

	return func(n int) int {
		mu.Lock()
		defer mu.Unlock()

		return rng.Intn(n)
	}
}
