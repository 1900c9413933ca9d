package leaderboard_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/pokebattle-api/internal/entities"
	"github.com/KirkDiggler/pokebattle-api/internal/errors"
	"github.com/KirkDiggler/pokebattle-api/internal/repositories/leaderboard"
	"github.com/KirkDiggler/pokebattle-api/internal/testutils"
)

// RepositoryTestSuite runs the same behavior checks against each implementation
type RepositoryTestSuite struct {
	suite.Suite
	newRepo func() (leaderboard.Repository, func())
	repo    leaderboard.Repository
	cleanup func()
	ctx     context.Context
}

func (s *RepositoryTestSuite) SetupTest() {
	s.repo, s.cleanup = s.newRepo()
	s.ctx = context.Background()
}

func (s *RepositoryTestSuite) TearDownTest() {
	s.cleanup()
}

func (s *RepositoryTestSuite) top(limit int) []*entities.LeaderboardEntry {
	out, err := s.repo.Top(s.ctx, leaderboard.TopInput{Limit: limit})
	s.Require().NoError(err)
	return out.Entries
}

func (s *RepositoryTestSuite) TestEmpty() {
	s.Empty(s.top(10))
}

func (s *RepositoryTestSuite) TestRecordWin() {
	s.Require().NoError(s.repo.RecordWin(s.ctx, leaderboard.RecordWinInput{Winner: "Pikachu", Loser: "bulbasaur"}))

	s.Equal([]*entities.LeaderboardEntry{
		{Name: "pikachu", Wins: 1},
		{Name: "bulbasaur", Losses: 1},
	}, s.top(10))
}

func (s *RepositoryTestSuite) TestOrderingWinsThenName() {
	wins := []leaderboard.RecordWinInput{
		{Winner: "squirtle", Loser: "charmander"},
		{Winner: "squirtle", Loser: "bulbasaur"},
		{Winner: "bulbasaur", Loser: "squirtle"},
		{Winner: "abra", Loser: "charmander"},
	}
	for _, w := range wins {
		s.Require().NoError(s.repo.RecordWin(s.ctx, w))
	}
	s.Require().NoError(s.repo.RecordDraw(s.ctx, leaderboard.RecordDrawInput{Pokemon1: "charmander", Pokemon2: "zubat"}))

	s.Equal([]*entities.LeaderboardEntry{
		{Name: "squirtle", Wins: 2, Losses: 1},
		{Name: "abra", Wins: 1},
		{Name: "bulbasaur", Wins: 1, Losses: 1},
		{Name: "charmander", Losses: 2, Draws: 1},
		{Name: "zubat", Draws: 1},
	}, s.top(10))

	limited := s.top(2)
	s.Require().Len(limited, 2)
	s.Equal("squirtle", limited[0].Name)
	s.Equal("abra", limited[1].Name)
}

func (s *RepositoryTestSuite) TestInvalidInput() {
	err := s.repo.RecordWin(s.ctx, leaderboard.RecordWinInput{Winner: "pikachu"})
	s.True(errors.IsInvalidArgument(err))

	err = s.repo.RecordDraw(s.ctx, leaderboard.RecordDrawInput{Pokemon2: "pikachu"})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Top(s.ctx, leaderboard.TopInput{})
	s.True(errors.IsInvalidArgument(err))
}

func TestInMemoryRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func() (leaderboard.Repository, func()) {
			return leaderboard.NewInMemory(), func() {}
		},
	})
}

func TestRedisRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func() (leaderboard.Repository, func()) {
			client, cleanup := testutils.CreateTestRedisClient(t)
			repo, err := leaderboard.NewRedisRepository(&leaderboard.Config{Client: client})
			if err != nil {
				t.Fatal(err)
			}
			return repo, cleanup
		},
	})
}
