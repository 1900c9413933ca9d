package builders

import (
	"time"

	"github.com/KirkDiggler/pokebattle-api/internal/entities"
)

// BattleResultBuilder provides a fluent interface for building test BattleResult instances
type BattleResultBuilder struct {
	result *entities.BattleResult
}

// NewBattleResultBuilder creates a builder for a short pikachu win
func NewBattleResultBuilder() *BattleResultBuilder {
	return &BattleResultBuilder{
		result: &entities.BattleResult{
			ID:     "battle-test-123",
			Winner: "pikachu",
			Turns:  3,
			Log: []string{
				"Battle start : Pikachu vs Squirtle at level 50.",
				"Battle ended after 3 turns. Winner: Pikachu",
			},
			FinalState: entities.FinalState{
				P1: entities.ParticipantSnapshot{Name: "pikachu", HP: 40},
				P2: entities.ParticipantSnapshot{Name: "squirtle", HP: 0},
			},
			Params: entities.BattleParams{
				Pokemon1: "pikachu",
				Pokemon2: "squirtle",
				Level:    50,
				MaxTurns: 200,
			},
			CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

// WithID sets the battle ID
func (b *BattleResultBuilder) WithID(id string) *BattleResultBuilder {
	b.result.ID = id
	return b
}

// WithWinner sets the winner
func (b *BattleResultBuilder) WithWinner(winner string) *BattleResultBuilder {
	b.result.Winner = winner
	return b
}

// Build returns the built result
func (b *BattleResultBuilder) Build() *entities.BattleResult {
	return b.result
}
