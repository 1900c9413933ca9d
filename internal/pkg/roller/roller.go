// Package roller provides a seedable dice.Roller so battles can be replayed
package roller

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/dice"
)

// Seeded is a dice.Roller backed by a deterministic pseudo-random source.
// The same seed always produces the same sequence of rolls.
type Seeded struct {
	mu  sync.Mutex
	rng *rand.Rand
}

var _ dice.Roller = (*Seeded)(nil)

// NewSeeded creates a roller from seed
func NewSeeded(seed int64) *Seeded {
	return &Seeded{rng: rand.New(rand.NewSource(seed))}
}

// Roll returns a value in [1, size]
func (s *Seeded) Roll(size int) (int, error) {
	if size <= 0 {
		return 0, fmt.Errorf("roller: invalid die size %d", size)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(size) + 1, nil
}

// RollN rolls count dice of the given size
func (s *Seeded) RollN(count, size int) ([]int, error) {
	if count < 0 {
		return nil, fmt.Errorf("roller: invalid dice count %d", count)
	}

	results := make([]int, count)
	for i := range results {
		v, err := s.Roll(size)
		if err != nil {
			return nil, err
		}
		results[i] = v
	}
	return results, nil
}
