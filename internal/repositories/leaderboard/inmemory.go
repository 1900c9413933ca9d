package leaderboard

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/KirkDiggler/pokebattle-api/internal/entities"
)

// InMemoryRepository implements Repository using in-memory storage
type InMemoryRepository struct {
	mu    sync.RWMutex
	store map[string]*entities.LeaderboardEntry
}

var _ Repository = (*InMemoryRepository)(nil)

// NewInMemory creates a new in-memory repository
func NewInMemory() *InMemoryRepository {
	return &InMemoryRepository{
		store: make(map[string]*entities.LeaderboardEntry),
	}
}

// RecordWin adds a win for the winner and a loss for the loser
func (r *InMemoryRepository) RecordWin(_ context.Context, input RecordWinInput) error {
	if err := input.validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.entry(normalize(input.Winner)).Wins++
	r.entry(normalize(input.Loser)).Losses++
	return nil
}

// RecordDraw adds a draw for both sides
func (r *InMemoryRepository) RecordDraw(_ context.Context, input RecordDrawInput) error {
	if err := input.validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.entry(normalize(input.Pokemon1)).Draws++
	r.entry(normalize(input.Pokemon2)).Draws++
	return nil
}

// Top returns copies of the leading entries
func (r *InMemoryRepository) Top(_ context.Context, input TopInput) (*TopOutput, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	entries := make([]*entities.LeaderboardEntry, 0, len(r.store))
	for _, e := range r.store {
		entryCopy := *e
		entries = append(entries, &entryCopy)
	}
	r.mu.RUnlock()

	slices.SortFunc(entries, func(a, b *entities.LeaderboardEntry) int {
		if c := cmp.Compare(b.Wins, a.Wins); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})

	if len(entries) > input.Limit {
		entries = entries[:input.Limit]
	}
	return &TopOutput{Entries: entries}, nil
}

// entry must be called with the write lock held
func (r *InMemoryRepository) entry(name string) *entities.LeaderboardEntry {
	e, ok := r.store[name]
	if !ok {
		e = &entities.LeaderboardEntry{Name: name}
		r.store[name] = e
	}
	return e
}
