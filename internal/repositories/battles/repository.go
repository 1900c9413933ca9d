// Package battles stores simulated battle results for later retrieval
package battles

import (
	"context"
	"time"

	"github.com/KirkDiggler/pokebattle-api/internal/entities"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=battlesmock github.com/KirkDiggler/pokebattle-api/internal/repositories/battles Repository

// CreateInput contains parameters for storing a battle result
type CreateInput struct {
	Result *entities.BattleResult
	TTL    time.Duration // How long the result should be retrievable
}

// CreateOutput contains the result of storing a battle
type CreateOutput struct {
	ExpiresAt time.Time
}

// GetInput contains parameters for retrieving a battle result
type GetInput struct {
	BattleID string
}

// GetOutput contains the retrieved battle result
type GetOutput struct {
	Result *entities.BattleResult
}

// Repository defines the interface for battle result storage
type Repository interface {
	// Create stores a result under its ID with the specified TTL
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a result by ID. Returns NotFound once it has expired.
	Get(ctx context.Context, input GetInput) (*GetOutput, error)
}
