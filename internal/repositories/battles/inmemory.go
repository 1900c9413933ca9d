package battles

import (
	"context"
	"sync"
	"time"

	"github.com/KirkDiggler/pokebattle-api/internal/entities"
	"github.com/KirkDiggler/pokebattle-api/internal/errors"
	"github.com/KirkDiggler/pokebattle-api/internal/pkg/clock"
)

type storedResult struct {
	result    entities.BattleResult
	expiresAt time.Time
}

// InMemoryRepository implements Repository using in-memory storage.
// Expired results are invisible to Get and swept on the next Create.
type InMemoryRepository struct {
	mu    sync.RWMutex
	clock clock.Clock
	store map[string]storedResult
}

var _ Repository = (*InMemoryRepository)(nil)

// NewInMemory creates a new in-memory repository. A nil clock uses real time.
func NewInMemory(clk clock.Clock) *InMemoryRepository {
	if clk == nil {
		clk = clock.New()
	}
	return &InMemoryRepository{
		clock: clk,
		store: make(map[string]storedResult),
	}
}

// Create stores a battle result
func (r *InMemoryRepository) Create(_ context.Context, input CreateInput) (*CreateOutput, error) {
	if input.Result == nil {
		return nil, errors.InvalidArgument(errResultNil)
	}
	if input.Result.ID == "" {
		return nil, errors.InvalidArgument(errBattleIDEmpty)
	}

	ttl := input.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	for id, stored := range r.store {
		if !now.Before(stored.expiresAt) {
			delete(r.store, id)
		}
	}

	expiresAt := now.Add(ttl)
	r.store[input.Result.ID] = storedResult{
		result:    copyResult(input.Result),
		expiresAt: expiresAt,
	}

	return &CreateOutput{ExpiresAt: expiresAt}, nil
}

// Get retrieves a battle result by ID
func (r *InMemoryRepository) Get(_ context.Context, input GetInput) (*GetOutput, error) {
	if input.BattleID == "" {
		return nil, errors.InvalidArgument(errBattleIDEmpty)
	}

	r.mu.RLock()
	stored, exists := r.store[input.BattleID]
	r.mu.RUnlock()

	if !exists || !r.clock.Now().Before(stored.expiresAt) {
		return nil, errors.NotFoundf("battle %s not found", input.BattleID).
			WithMeta("battle_id", input.BattleID)
	}

	// Return a copy to prevent external modification
	result := copyResult(&stored.result)
	return &GetOutput{Result: &result}, nil
}

func copyResult(in *entities.BattleResult) entities.BattleResult {
	out := *in
	out.Log = append([]string(nil), in.Log...)
	return out
}
