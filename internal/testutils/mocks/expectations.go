// Package mocks provides mock expectation helpers for common testing patterns
package mocks

import (
	"context"

	"go.uber.org/mock/gomock"

	pokeapimock "github.com/KirkDiggler/pokebattle-api/internal/clients/pokeapi/mock"
	"github.com/KirkDiggler/pokebattle-api/internal/entities"
	"github.com/KirkDiggler/pokebattle-api/internal/repositories/battles"
	battlesmock "github.com/KirkDiggler/pokebattle-api/internal/repositories/battles/mock"
)

// ExpectPokemonFetch sets up a mock expectation for fetching a creature record
func ExpectPokemonFetch(ctx context.Context, mockClient *pokeapimock.MockClient, pokemon *entities.Pokemon) {
	mockClient.EXPECT().
		GetPokemon(ctx, pokemon.Name).
		Return(pokemon, nil)
}

// ExpectTypeRelationsFetch sets up mock expectations for each type relation table
func ExpectTypeRelationsFetch(
	ctx context.Context, mockClient *pokeapimock.MockClient, chart map[string]*entities.TypeRelations,
) {
	for typeName, rel := range chart {
		mockClient.EXPECT().
			GetTypeRelations(ctx, typeName).
			Return(rel, nil)
	}
}

// ExpectBattleStored sets up a mock expectation for storing any battle result
func ExpectBattleStored(ctx context.Context, mockRepo *battlesmock.MockRepository) {
	mockRepo.EXPECT().
		Create(ctx, gomock.Any()).
		Return(&battles.CreateOutput{}, nil)
}
