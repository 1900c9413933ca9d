package pokemon_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	pokeapimock "github.com/KirkDiggler/pokebattle-api/internal/clients/pokeapi/mock"
	"github.com/KirkDiggler/pokebattle-api/internal/errors"
	"github.com/KirkDiggler/pokebattle-api/internal/orchestrators/pokemon"
	"github.com/KirkDiggler/pokebattle-api/internal/testutils"
)

type OrchestratorTestSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	mockClient   *pokeapimock.MockClient
	orchestrator pokemon.Service
	ctx          context.Context
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockClient = pokeapimock.NewMockClient(s.ctrl)
	s.ctx = context.Background()

	orch, err := pokemon.NewOrchestrator(&pokemon.Config{PokeAPIClient: s.mockClient})
	s.Require().NoError(err)
	s.orchestrator = orch
}

func (s *OrchestratorTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *OrchestratorTestSuite) TestGetPokemon() {
	s.mockClient.EXPECT().
		GetPokemon(s.ctx, "pikachu").
		Return(testutils.Pikachu(), nil)

	out, err := s.orchestrator.GetPokemon(s.ctx, &pokemon.GetPokemonInput{Name: "  PikaChu "})
	s.Require().NoError(err)
	s.Equal("pikachu", out.Name)
	s.Equal(25, out.Pokemon.ID)
}

func (s *OrchestratorTestSuite) TestGetPokemonNotFound() {
	s.mockClient.EXPECT().
		GetPokemon(s.ctx, "missingno").
		Return(nil, errors.NotFound("resource not found upstream"))

	_, err := s.orchestrator.GetPokemon(s.ctx, &pokemon.GetPokemonInput{Name: "missingno"})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
	s.Equal("pokemon missingno not found", errors.GetMessage(err))
}

func (s *OrchestratorTestSuite) TestGetPokemonUpstreamFailure() {
	s.mockClient.EXPECT().
		GetPokemon(s.ctx, "pikachu").
		Return(nil, errors.Unavailable("upstream unavailable after 3 attempts"))

	_, err := s.orchestrator.GetPokemon(s.ctx, &pokemon.GetPokemonInput{Name: "pikachu"})
	s.True(errors.IsUnavailable(err))
}

func (s *OrchestratorTestSuite) TestGetPokemonValidation() {
	_, err := s.orchestrator.GetPokemon(s.ctx, &pokemon.GetPokemonInput{Name: " "})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.orchestrator.GetPokemon(s.ctx, nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = pokemon.NewOrchestrator(&pokemon.Config{})
	s.True(errors.IsInvalidArgument(err))
}

func TestOrchestratorTestSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}
