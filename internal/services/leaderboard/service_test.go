package leaderboard_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/pokebattle-api/internal/entities"
	"github.com/KirkDiggler/pokebattle-api/internal/errors"
	leaderboardrepo "github.com/KirkDiggler/pokebattle-api/internal/repositories/leaderboard"
	"github.com/KirkDiggler/pokebattle-api/internal/services/leaderboard"
)

type ServiceTestSuite struct {
	suite.Suite
	bus     events.EventBus
	repo    *leaderboardrepo.InMemoryRepository
	service leaderboard.Service
	ctx     context.Context
}

func (s *ServiceTestSuite) SetupTest() {
	s.bus = events.NewBus()
	s.repo = leaderboardrepo.NewInMemory()
	s.ctx = context.Background()

	svc, err := leaderboard.NewService(&leaderboard.Config{
		Repository: s.repo,
		EventBus:   s.bus,
	})
	s.Require().NoError(err)
	s.service = svc
}

func (s *ServiceTestSuite) publish(eventType, source, target string) error {
	return s.bus.Publish(s.ctx, events.NewGameEvent(eventType,
		&entities.Pokemon{Name: source},
		&entities.Pokemon{Name: target}))
}

func (s *ServiceTestSuite) TestConfigValidation() {
	_, err := leaderboard.NewService(&leaderboard.Config{})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
	s.Contains(err.Error(), "Repository")
	s.Contains(err.Error(), "EventBus")

	_, err = leaderboard.NewService(nil)
	s.True(errors.IsInvalidArgument(err))
}

func (s *ServiceTestSuite) TestRecordsWonEvents() {
	s.Require().NoError(s.publish(entities.EventBattleWon, "pikachu", "eevee"))
	s.Require().NoError(s.publish(entities.EventBattleWon, "pikachu", "onix"))

	out, err := s.service.Top(s.ctx, &leaderboard.TopInput{})
	s.Require().NoError(err)
	s.Equal([]*entities.LeaderboardEntry{
		{Name: "pikachu", Wins: 2},
		{Name: "eevee", Losses: 1},
		{Name: "onix", Losses: 1},
	}, out.Entries)
}

func (s *ServiceTestSuite) TestRecordsDrawnEvents() {
	s.Require().NoError(s.publish(entities.EventBattleDrawn, "ditto", "snorlax"))

	out, err := s.service.Top(s.ctx, &leaderboard.TopInput{Limit: 5})
	s.Require().NoError(err)
	s.Equal([]*entities.LeaderboardEntry{
		{Name: "ditto", Draws: 1},
		{Name: "snorlax", Draws: 1},
	}, out.Entries)
}

func (s *ServiceTestSuite) TestTopLimits() {
	for i := range 120 {
		s.Require().NoError(s.publish(entities.EventBattleWon, fmt.Sprintf("mon-%03d", i), "magikarp"))
	}

	testCases := []struct {
		name     string
		limit    int
		expected int
	}{
		{name: "default", limit: 0, expected: leaderboard.DefaultLimit},
		{name: "explicit", limit: 3, expected: 3},
		{name: "capped", limit: 500, expected: leaderboard.MaxLimit},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			out, err := s.service.Top(s.ctx, &leaderboard.TopInput{Limit: tc.limit})
			s.Require().NoError(err)
			s.Len(out.Entries, tc.expected)
		})
	}

	_, err := s.service.Top(s.ctx, &leaderboard.TopInput{Limit: -1})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.service.Top(s.ctx, nil)
	s.True(errors.IsInvalidArgument(err))
}

func (s *ServiceTestSuite) TestIgnoresOtherEvents() {
	s.Require().NoError(s.publish("battle.started", "pikachu", "eevee"))

	out, err := s.service.Top(s.ctx, &leaderboard.TopInput{})
	s.Require().NoError(err)
	s.Empty(out.Entries)
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}
