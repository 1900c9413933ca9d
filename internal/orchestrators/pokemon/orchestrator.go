// Package pokemon implements the orchestrator behind the pokemon_data resource
package pokemon

//go:generate mockgen -destination=mock/mock_service.go -package=pokemonmock github.com/KirkDiggler/pokebattle-api/internal/orchestrators/pokemon Service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/KirkDiggler/pokebattle-api/internal/clients/pokeapi"
	"github.com/KirkDiggler/pokebattle-api/internal/entities"
	"github.com/KirkDiggler/pokebattle-api/internal/errors"
)

// Service defines the interface for creature lookups
type Service interface {
	GetPokemon(ctx context.Context, input *GetPokemonInput) (*GetPokemonOutput, error)
}

// GetPokemonInput defines the request for looking up a creature
type GetPokemonInput struct {
	Name string
}

// GetPokemonOutput defines the response for looking up a creature
type GetPokemonOutput struct {
	// Name is the normalized name that was looked up
	Name    string
	Pokemon *entities.Pokemon
}

// Config holds the dependencies for the pokemon orchestrator
type Config struct {
	PokeAPIClient pokeapi.Client
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.PokeAPIClient == nil {
		vb.RequiredField("PokeAPIClient")
	}

	return vb.Build()
}

type orchestrator struct {
	client pokeapi.Client
}

// NewOrchestrator creates a new pokemon orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{client: cfg.PokeAPIClient}, nil
}

// GetPokemon fetches a creature by name
func (o *orchestrator) GetPokemon(ctx context.Context, input *GetPokemonInput) (*GetPokemonOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("Name", input.Name, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	name := strings.ToLower(strings.TrimSpace(input.Name))

	poke, err := o.client.GetPokemon(ctx, name)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NotFoundf("pokemon %s not found", name).WithMeta("pokemon", name)
		}
		return nil, errors.Wrapf(err, "failed to get pokemon %s", name)
	}

	slog.DebugContext(ctx, "Pokemon fetched",
		"pokemon", name,
		"moves", len(poke.Moves))

	return &GetPokemonOutput{Name: name, Pokemon: poke}, nil
}
