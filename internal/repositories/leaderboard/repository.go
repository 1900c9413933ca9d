// Package leaderboard persists per-creature win, loss and draw counts
package leaderboard

import (
	"context"
	"strings"

	"github.com/KirkDiggler/pokebattle-api/internal/entities"
	"github.com/KirkDiggler/pokebattle-api/internal/errors"
)

// RecordWinInput names both sides of a decided battle
type RecordWinInput struct {
	Winner string
	Loser  string
}

// RecordDrawInput names both sides of a drawn battle
type RecordDrawInput struct {
	Pokemon1 string
	Pokemon2 string
}

// TopInput contains parameters for listing the leaderboard
type TopInput struct {
	Limit int
}

// TopOutput lists entries ordered by wins descending, then name ascending
type TopOutput struct {
	Entries []*entities.LeaderboardEntry
}

// Repository defines the interface for leaderboard storage
type Repository interface {
	// RecordWin adds a win for the winner and a loss for the loser
	RecordWin(ctx context.Context, input RecordWinInput) error

	// RecordDraw adds a draw for both sides
	RecordDraw(ctx context.Context, input RecordDrawInput) error

	// Top returns at most Limit entries
	Top(ctx context.Context, input TopInput) (*TopOutput, error)
}

func (i RecordWinInput) validate() error {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("Winner", i.Winner, vb)
	errors.ValidateRequired("Loser", i.Loser, vb)
	return vb.Build()
}

func (i RecordDrawInput) validate() error {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("Pokemon1", i.Pokemon1, vb)
	errors.ValidateRequired("Pokemon2", i.Pokemon2, vb)
	return vb.Build()
}

func (i TopInput) validate() error {
	vb := errors.NewValidationBuilder()
	errors.ValidatePositive("Limit", i.Limit, vb)
	return vb.Build()
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
