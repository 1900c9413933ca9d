// Package leaderboard keeps the battle leaderboard current by listening for
// battle outcome events
package leaderboard

//go:generate mockgen -destination=mock/mock_service.go -package=leaderboardmock github.com/KirkDiggler/pokebattle-api/internal/services/leaderboard Service

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/pokebattle-api/internal/entities"
	"github.com/KirkDiggler/pokebattle-api/internal/errors"
	leaderboardrepo "github.com/KirkDiggler/pokebattle-api/internal/repositories/leaderboard"
)

const (
	// DefaultLimit applies when TopInput.Limit is zero
	DefaultLimit = 10
	// MaxLimit caps TopInput.Limit
	MaxLimit = 100

	// Recording runs after other outcome subscribers
	subscriberPriority = 100
)

// Service defines the leaderboard query interface
type Service interface {
	Top(ctx context.Context, input *TopInput) (*TopOutput, error)
}

// TopInput contains leaderboard query parameters
type TopInput struct {
	Limit int `json:"limit"` // 0 means DefaultLimit
}

// TopOutput contains the ranked entries
type TopOutput struct {
	Entries []*entities.LeaderboardEntry `json:"entries"`
}

// Config holds the dependencies for the leaderboard service
type Config struct {
	Repository leaderboardrepo.Repository
	EventBus   events.EventBus
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Repository == nil {
		vb.RequiredField("Repository")
	}
	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}

	return vb.Build()
}

type service struct {
	repo     leaderboardrepo.Repository
	eventBus events.EventBus
}

// NewService creates the leaderboard service and subscribes it to battle outcomes
func NewService(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	s := &service{
		repo:     cfg.Repository,
		eventBus: cfg.EventBus,
	}

	s.eventBus.SubscribeFunc(entities.EventBattleWon, subscriberPriority, s.handleBattleWon)
	s.eventBus.SubscribeFunc(entities.EventBattleDrawn, subscriberPriority, s.handleBattleDrawn)

	return s, nil
}

// Top returns the leading entries ordered by wins, then name
func (s *service) Top(ctx context.Context, input *TopInput) (*TopOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	limit := input.Limit
	switch {
	case limit < 0:
		return nil, errors.InvalidArgumentf("limit must not be negative, got %d", limit)
	case limit == 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}

	out, err := s.repo.Top(ctx, leaderboardrepo.TopInput{Limit: limit})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load leaderboard")
	}

	return &TopOutput{Entries: out.Entries}, nil
}

func (s *service) handleBattleWon(ctx context.Context, event events.Event) error {
	winner, loser, err := participants(event)
	if err != nil {
		return err
	}

	if err := s.repo.RecordWin(ctx, leaderboardrepo.RecordWinInput{Winner: winner, Loser: loser}); err != nil {
		slog.ErrorContext(ctx, "Failed to record battle win",
			"winner", winner,
			"loser", loser,
			"error", err)
		return errors.Wrap(err, "failed to record win")
	}
	return nil
}

func (s *service) handleBattleDrawn(ctx context.Context, event events.Event) error {
	p1, p2, err := participants(event)
	if err != nil {
		return err
	}

	if err := s.repo.RecordDraw(ctx, leaderboardrepo.RecordDrawInput{Pokemon1: p1, Pokemon2: p2}); err != nil {
		slog.ErrorContext(ctx, "Failed to record battle draw",
			"pokemon1", p1,
			"pokemon2", p2,
			"error", err)
		return errors.Wrap(err, "failed to record draw")
	}
	return nil
}

func participants(event events.Event) (string, string, error) {
	source, target := event.Source(), event.Target()
	if source == nil || target == nil {
		return "", "", errors.InvalidArgumentf("%s event requires source and target", event.Type())
	}
	return source.GetID(), target.GetID(), nil
}
