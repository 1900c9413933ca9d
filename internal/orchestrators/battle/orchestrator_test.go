package battle_test

import (
	"context"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	pokeapimock "github.com/KirkDiggler/pokebattle-api/internal/clients/pokeapi/mock"
	battleengine "github.com/KirkDiggler/pokebattle-api/internal/engine/battle"
	"github.com/KirkDiggler/pokebattle-api/internal/entities"
	"github.com/KirkDiggler/pokebattle-api/internal/errors"
	"github.com/KirkDiggler/pokebattle-api/internal/orchestrators/battle"
	"github.com/KirkDiggler/pokebattle-api/internal/pkg/clock"
	"github.com/KirkDiggler/pokebattle-api/internal/pkg/idgen"
	"github.com/KirkDiggler/pokebattle-api/internal/repositories/battles"
	battlesmock "github.com/KirkDiggler/pokebattle-api/internal/repositories/battles/mock"
	"github.com/KirkDiggler/pokebattle-api/internal/testutils"
	"github.com/KirkDiggler/pokebattle-api/internal/testutils/builders"
	"github.com/KirkDiggler/pokebattle-api/internal/testutils/mocks"
)

var testNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

// maxRoller always rolls the highest face: no paralysis skips, no scorch
// burns and full damage
type maxRoller struct{}

func (maxRoller) Roll(size int) (int, error) { return size, nil }

func (maxRoller) RollN(count, size int) ([]int, error) {
	out := make([]int, count)
	for i := range out {
		out[i] = size
	}
	return out, nil
}

type publishedEvent struct {
	eventType string
	source    string
	target    string
}

type OrchestratorTestSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	mockClient   *pokeapimock.MockClient
	mockRepo     *battlesmock.MockRepository
	bus          events.EventBus
	published    []publishedEvent
	orchestrator battle.Service
	ctx          context.Context
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockClient = pokeapimock.NewMockClient(s.ctrl)
	s.mockRepo = battlesmock.NewMockRepository(s.ctrl)
	s.bus = events.NewBus()
	s.published = nil
	s.ctx = context.Background()

	record := func(_ context.Context, e events.Event) error {
		s.published = append(s.published, publishedEvent{
			eventType: e.Type(),
			source:    e.Source().GetID(),
			target:    e.Target().GetID(),
		})
		return nil
	}
	s.bus.SubscribeFunc(entities.EventBattleWon, 0, record)
	s.bus.SubscribeFunc(entities.EventBattleDrawn, 0, record)

	orch, err := battle.NewOrchestrator(&battle.Config{
		PokeAPIClient: s.mockClient,
		BattleRepo:    s.mockRepo,
		EventBus:      s.bus,
		IDGenerator:   idgen.NewSequential("battle"),
		Roller:        maxRoller{},
		Clock:         clock.NewManual(testNow),
		ResultTTL:     30 * time.Minute,
		MaxTurnsLimit: 500,
		MaxLevel:      100,
	})
	s.Require().NoError(err)
	s.orchestrator = orch
}

func (s *OrchestratorTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *OrchestratorTestSuite) expectStandardMatchup() {
	mocks.ExpectPokemonFetch(s.ctx, s.mockClient, testutils.Pikachu())
	mocks.ExpectPokemonFetch(s.ctx, s.mockClient, testutils.Squirtle())
	mocks.ExpectTypeRelationsFetch(s.ctx, s.mockClient, map[string]*entities.TypeRelations{
		"electric": testutils.ElectricRelations(),
		"normal":   testutils.NormalRelations(),
	})
}

func (s *OrchestratorTestSuite) TestNewOrchestratorValidation() {
	_, err := battle.NewOrchestrator(&battle.Config{})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
	for _, field := range []string{"PokeAPIClient", "BattleRepo", "EventBus", "IDGenerator"} {
		s.Contains(err.Error(), field)
	}

	_, err = battle.NewOrchestrator(nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = battle.NewOrchestrator(&battle.Config{
		PokeAPIClient: s.mockClient,
		BattleRepo:    s.mockRepo,
		EventBus:      s.bus,
		IDGenerator:   idgen.NewSequential("battle"),
		MaxLevel:      battleengine.MaxLevel + 1,
	})
	s.Require().Error(err)
	s.Contains(err.Error(), "MaxLevel")
}

func (s *OrchestratorTestSuite) TestSimulateBattle() {
	s.expectStandardMatchup()

	var stored *entities.BattleResult
	s.mockRepo.EXPECT().
		Create(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input battles.CreateInput) (*battles.CreateOutput, error) {
			s.Equal(30*time.Minute, input.TTL)
			stored = input.Result
			return &battles.CreateOutput{ExpiresAt: testNow.Add(input.TTL)}, nil
		})

	out, err := s.orchestrator.SimulateBattle(s.ctx, &battle.SimulateBattleInput{
		Pokemon1: " Pikachu",
		Pokemon2: "squirtle",
	})
	s.Require().NoError(err)

	result := out.Result
	s.Equal("battle_1", result.ID)
	s.Same(stored, result)
	s.Equal(testNow, result.CreatedAt)
	s.Equal(entities.BattleParams{Pokemon1: "pikachu", Pokemon2: "squirtle", Level: 50, MaxTurns: 200}, result.Params)

	s.Contains([]string{"pikachu", "squirtle", entities.Draw}, result.Winner)
	s.GreaterOrEqual(result.Turns, 1)
	s.LessOrEqual(result.Turns, 200)
	s.Equal("Battle start : Pikachu vs Squirtle at level 50.", result.Log[0])
	s.True(strings.HasPrefix(result.Log[len(result.Log)-1], "Battle ended after "))
	s.Equal("pikachu", result.FinalState.P1.Name)
	s.Equal("squirtle", result.FinalState.P2.Name)

	s.Require().Len(s.published, 1)
	switch result.Winner {
	case entities.Draw:
		s.Equal(publishedEvent{entities.EventBattleDrawn, "pikachu", "squirtle"}, s.published[0])
	case "pikachu":
		s.Equal(publishedEvent{entities.EventBattleWon, "pikachu", "squirtle"}, s.published[0])
	default:
		s.Equal(publishedEvent{entities.EventBattleWon, "squirtle", "pikachu"}, s.published[0])
	}
}

func (s *OrchestratorTestSuite) TestSimulateBattleSeedIsReproducible() {
	seed := int64(1234)
	var logs [][]string

	for i := range 2 {
		s.expectStandardMatchup()
		mocks.ExpectBattleStored(s.ctx, s.mockRepo)

		out, err := s.orchestrator.SimulateBattle(s.ctx, &battle.SimulateBattleInput{
			Pokemon1: "pikachu",
			Pokemon2: "squirtle",
			Level:    30,
			MaxTurns: 100,
			Seed:     &seed,
		})
		s.Require().NoError(err)
		s.Equal(fmt.Sprintf("battle_%d", i+1), out.Result.ID)
		s.Equal(30, out.Result.Params.Level)
		s.Equal(100, out.Result.Params.MaxTurns)
		s.Equal(&seed, out.Result.Params.Seed)
		logs = append(logs, out.Result.Log)
	}

	s.Equal(logs[0], logs[1])
}

func (s *OrchestratorTestSuite) TestSimulateBattleUnknownPokemon() {
	s.mockClient.EXPECT().
		GetPokemon(s.ctx, "missingno").
		Return(nil, errors.NotFound("resource not found upstream"))
	s.mockClient.EXPECT().
		GetPokemon(s.ctx, "pikachu").
		Return(testutils.Pikachu(), nil).
		AnyTimes()

	_, err := s.orchestrator.SimulateBattle(s.ctx, &battle.SimulateBattleInput{
		Pokemon1: "pikachu",
		Pokemon2: "missingno",
	})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
	s.Equal("One or both Pokemon not found", errors.GetMessage(err))
	s.Empty(s.published)
}

func (s *OrchestratorTestSuite) TestSimulateBattleUpstreamFailure() {
	s.mockClient.EXPECT().
		GetPokemon(s.ctx, gomock.Any()).
		Return(nil, errors.Unavailable("upstream returned status 503")).
		Times(2)

	_, err := s.orchestrator.SimulateBattle(s.ctx, &battle.SimulateBattleInput{
		Pokemon1: "pikachu",
		Pokemon2: "squirtle",
	})
	s.Require().Error(err)
	s.True(errors.IsUnavailable(err))
}

func (s *OrchestratorTestSuite) TestSimulateBattleTypeRelationsFailure() {
	mocks.ExpectPokemonFetch(s.ctx, s.mockClient, testutils.Pikachu())
	mocks.ExpectPokemonFetch(s.ctx, s.mockClient, testutils.Squirtle())
	s.mockClient.EXPECT().
		GetTypeRelations(s.ctx, "electric").
		Return(nil, errors.Unavailable("upstream unavailable after 3 attempts"))

	_, err := s.orchestrator.SimulateBattle(s.ctx, &battle.SimulateBattleInput{
		Pokemon1: "pikachu",
		Pokemon2: "squirtle",
	})
	s.True(errors.IsUnavailable(err))
}

func (s *OrchestratorTestSuite) TestSimulateBattleWithoutMoves() {
	bare1 := builders.NewPokemonBuilder("ditto").Build()
	bare2 := builders.NewPokemonBuilder("magikarp").Build()
	mocks.ExpectPokemonFetch(s.ctx, s.mockClient, bare1)
	mocks.ExpectPokemonFetch(s.ctx, s.mockClient, bare2)
	// both fall back to the normal-type placeholder move
	mocks.ExpectTypeRelationsFetch(s.ctx, s.mockClient, map[string]*entities.TypeRelations{
		"normal": testutils.NormalRelations(),
	})
	mocks.ExpectBattleStored(s.ctx, s.mockRepo)

	out, err := s.orchestrator.SimulateBattle(s.ctx, &battle.SimulateBattleInput{
		Pokemon1: "ditto",
		Pokemon2: "magikarp",
	})
	s.Require().NoError(err)
	s.NotEmpty(out.Result.Log)
}

func (s *OrchestratorTestSuite) TestSimulateBattleStoreFailure() {
	s.expectStandardMatchup()
	s.mockRepo.EXPECT().
		Create(s.ctx, gomock.Any()).
		Return(nil, errors.Internal("redis down"))

	_, err := s.orchestrator.SimulateBattle(s.ctx, &battle.SimulateBattleInput{
		Pokemon1: "pikachu",
		Pokemon2: "squirtle",
	})
	s.True(errors.IsInternal(err))
	s.Empty(s.published)
}

func (s *OrchestratorTestSuite) TestSimulateBattleAtMaxLevel() {
	s.expectStandardMatchup()
	mocks.ExpectBattleStored(s.ctx, s.mockRepo)

	out, err := s.orchestrator.SimulateBattle(s.ctx, &battle.SimulateBattleInput{
		Pokemon1: "pikachu",
		Pokemon2: "squirtle",
		Level:    100,
	})
	s.Require().NoError(err)
	s.Equal(100, out.Result.Params.Level)
	s.Equal("Battle start : Pikachu vs Squirtle at level 100.", out.Result.Log[0])
}

func (s *OrchestratorTestSuite) TestSimulateBattleMirrorMatchIsNotPublished() {
	mocks.ExpectPokemonFetch(s.ctx, s.mockClient, testutils.Pikachu())
	mocks.ExpectPokemonFetch(s.ctx, s.mockClient, testutils.Pikachu())
	mocks.ExpectTypeRelationsFetch(s.ctx, s.mockClient, map[string]*entities.TypeRelations{
		"electric": testutils.ElectricRelations(),
	})
	mocks.ExpectBattleStored(s.ctx, s.mockRepo)

	out, err := s.orchestrator.SimulateBattle(s.ctx, &battle.SimulateBattleInput{
		Pokemon1: "pikachu",
		Pokemon2: "Pikachu",
	})
	s.Require().NoError(err)
	s.Equal("pikachu", out.Result.FinalState.P1.Name)
	s.Equal("pikachu", out.Result.FinalState.P2.Name)
	s.Empty(s.published)
}

func (s *OrchestratorTestSuite) TestSimulateBattleValidation() {
	testCases := []struct {
		name  string
		input *battle.SimulateBattleInput
	}{
		{name: "nil input", input: nil},
		{name: "missing first name", input: &battle.SimulateBattleInput{Pokemon2: "pikachu"}},
		{name: "blank second name", input: &battle.SimulateBattleInput{Pokemon1: "pikachu", Pokemon2: "  "}},
		{name: "negative level", input: &battle.SimulateBattleInput{Pokemon1: "a", Pokemon2: "b", Level: -1}},
		{name: "level over limit", input: &battle.SimulateBattleInput{Pokemon1: "a", Pokemon2: "b", Level: 101}},
		{name: "level overflowing stats", input: &battle.SimulateBattleInput{Pokemon1: "a", Pokemon2: "b", Level: math.MaxInt}},
		{name: "negative max turns", input: &battle.SimulateBattleInput{Pokemon1: "a", Pokemon2: "b", MaxTurns: -5}},
		{name: "max turns over limit", input: &battle.SimulateBattleInput{Pokemon1: "a", Pokemon2: "b", MaxTurns: 501}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.orchestrator.SimulateBattle(s.ctx, tc.input)
			s.Require().Error(err)
			s.True(errors.IsInvalidArgument(err))
		})
	}
}

func (s *OrchestratorTestSuite) TestGetBattle() {
	expected := builders.NewBattleResultBuilder().WithID("battle_9").Build()
	s.mockRepo.EXPECT().
		Get(s.ctx, battles.GetInput{BattleID: "battle_9"}).
		Return(&battles.GetOutput{Result: expected}, nil)

	out, err := s.orchestrator.GetBattle(s.ctx, &battle.GetBattleInput{BattleID: "battle_9"})
	s.Require().NoError(err)
	s.Equal(expected, out.Result)
}

func (s *OrchestratorTestSuite) TestGetBattleNotFound() {
	s.mockRepo.EXPECT().
		Get(s.ctx, battles.GetInput{BattleID: "battle_404"}).
		Return(nil, errors.NotFound("battle battle_404 not found"))

	_, err := s.orchestrator.GetBattle(s.ctx, &battle.GetBattleInput{BattleID: "battle_404"})
	s.True(errors.IsNotFound(err))

	_, err = s.orchestrator.GetBattle(s.ctx, &battle.GetBattleInput{})
	s.True(errors.IsInvalidArgument(err))
}

func TestOrchestratorTestSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}
