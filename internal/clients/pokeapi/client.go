// Package pokeapi is the PokeAPI client backing the pokemon_data resource and
// the battle simulator
package pokeapi

//go:generate mockgen -destination=mock/mock_client.go -package=pokeapimock github.com/KirkDiggler/pokebattle-api/internal/clients/pokeapi Client

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/KirkDiggler/pokebattle-api/internal/entities"
	"github.com/KirkDiggler/pokebattle-api/internal/errors"
	"github.com/KirkDiggler/pokebattle-api/internal/repositories/apicache"
)

// Defaults applied by Config.Validate
const (
	DefaultBaseURL         = "https://pokeapi.co/api/v2"
	DefaultUserAgent       = "pokemon-mcp-server/0/1"
	DefaultHTTPTimeout     = 15 * time.Second
	DefaultMaxRetries      = 3
	DefaultRetryDelay      = 500 * time.Millisecond
	DefaultMoveConcurrency = 8
)

// Client defines the interface for PokeAPI lookups
type Client interface {
	// GetPokemon fetches a creature with its move details and evolution stages.
	// Returns a NotFound error when PokeAPI does not know the name.
	GetPokemon(ctx context.Context, name string) (*entities.Pokemon, error)

	// GetTypeRelations fetches the damage relation table of an elemental type
	GetTypeRelations(ctx context.Context, typeName string) (*entities.TypeRelations, error)
}

// Config contains configuration options for the PokeAPI client
type Config struct {
	// BaseURL of the API (optional, defaults to https://pokeapi.co/api/v2)
	BaseURL string
	// UserAgent sent on every request (optional)
	UserAgent string
	// HTTPTimeout per request attempt (optional, defaults to 15 seconds)
	HTTPTimeout time.Duration
	// MaxRetries is the number of attempts for retryable failures (optional, defaults to 3)
	MaxRetries int
	// RetryDelay between attempts (optional, defaults to 500ms)
	RetryDelay time.Duration
	// MoveConcurrency bounds parallel move detail fetches (optional, defaults to 8)
	MoveConcurrency int
	// Cache stores raw responses by URL (optional, defaults to an in-memory LRU)
	Cache apicache.Cache
	// HTTPClient overrides the transport (optional)
	HTTPClient *http.Client
}

// Validate validates the Config and sets defaults if not provided.
func (cfg *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	errors.ValidateRange("MaxRetries", cfg.MaxRetries, 0, 10, vb)
	errors.ValidateRange("MoveConcurrency", cfg.MoveConcurrency, 0, 64, vb)
	if err := vb.Build(); err != nil {
		return err
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = DefaultHTTPTimeout
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	if cfg.MoveConcurrency == 0 {
		cfg.MoveConcurrency = DefaultMoveConcurrency
	}
	if cfg.Cache == nil {
		cfg.Cache = apicache.NewInMemory(nil)
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.HTTPTimeout}
	}
	return nil
}

type client struct {
	baseURL         string
	userAgent       string
	maxRetries      int
	retryDelay      time.Duration
	moveConcurrency int
	cache           apicache.Cache
	httpClient      *http.Client
}

// New creates a new PokeAPI client with the given configuration.
func New(cfg *Config) (Client, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &client{
		baseURL:         cfg.BaseURL,
		userAgent:       cfg.UserAgent,
		maxRetries:      cfg.MaxRetries,
		retryDelay:      cfg.RetryDelay,
		moveConcurrency: cfg.MoveConcurrency,
		cache:           cfg.Cache,
		httpClient:      cfg.HTTPClient,
	}, nil
}

// GetPokemon fetches /pokemon/{name}, its species, every move and the
// evolution chain
func (c *client) GetPokemon(ctx context.Context, name string) (*entities.Pokemon, error) {
	name = normalize(name)
	if name == "" {
		return nil, errors.InvalidArgument("pokemon name is required")
	}

	var poke pokemonResponse
	if err := c.getJSON(ctx, c.baseURL+"/pokemon/"+name, &poke); err != nil {
		return nil, errors.Wrapf(err, "failed to get pokemon %s", name).WithMeta("pokemon", name)
	}

	var species speciesResponse
	if err := c.getJSON(ctx, poke.Species.URL, &species); err != nil {
		return nil, errors.Wrapf(err, "failed to get species for %s", name).WithMeta("pokemon", name)
	}

	result := &entities.Pokemon{
		ID:             poke.ID,
		Name:           poke.Name,
		Height:         poke.Height,
		Weight:         poke.Weight,
		BaseExperience: poke.BaseExperience,
		Stats:          make(map[string]int, len(poke.Stats)),
		Types:          make([]string, 0, len(poke.Types)),
		Abilities:      make([]string, 0, len(poke.Abilities)),
		EvolutionChain: [][]string{},
	}

	for _, s := range poke.Stats {
		result.Stats[s.Stat.Name] = s.BaseStat
	}
	for _, t := range poke.Types {
		result.Types = append(result.Types, t.Type.Name)
	}
	for _, a := range poke.Abilities {
		ability := a.Ability.Name
		if a.IsHidden {
			ability += " (hidden)"
		}
		result.Abilities = append(result.Abilities, ability)
	}

	result.Moves = c.getMoves(ctx, poke)

	if species.EvolutionChain != nil && species.EvolutionChain.URL != "" {
		var chain evolutionChainResponse
		if err := c.getJSON(ctx, species.EvolutionChain.URL, &chain); err != nil {
			slog.WarnContext(ctx, "Failed to get evolution chain",
				"pokemon", name,
				"error", err)
		} else {
			result.EvolutionChain = flattenChain(chain.Chain)
		}
	}

	return result, nil
}

// getMoves fetches move details with bounded concurrency, preserving the
// record's move order. A move whose details cannot be fetched keeps only its name.
func (c *client) getMoves(ctx context.Context, poke pokemonResponse) []entities.Move {
	moves := make([]entities.Move, len(poke.Moves))
	sem := make(chan struct{}, c.moveConcurrency)

	var wg sync.WaitGroup
	for i, m := range poke.Moves {
		wg.Add(1)
		go func(idx int, ref namedResource) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			var detail moveResponse
			if err := c.getJSON(ctx, ref.URL, &detail); err != nil {
				slog.DebugContext(ctx, "Failed to get move details",
					"pokemon", poke.Name,
					"move", ref.Name,
					"error", err)
				moves[idx] = entities.Move{Name: ref.Name}
				return
			}
			moves[idx] = convertMove(detail)
		}(i, m.Move)
	}
	wg.Wait()

	return moves
}

// GetTypeRelations fetches /type/{typeName}
func (c *client) GetTypeRelations(ctx context.Context, typeName string) (*entities.TypeRelations, error) {
	typeName = normalize(typeName)
	if typeName == "" {
		return nil, errors.InvalidArgument("type name is required")
	}

	var resp typeResponse
	if err := c.getJSON(ctx, c.baseURL+"/type/"+typeName, &resp); err != nil {
		return nil, errors.Wrapf(err, "failed to get type %s", typeName).WithMeta("type", typeName)
	}

	rel := resp.DamageRelations
	return &entities.TypeRelations{
		DoubleDamageTo:   names(rel.DoubleDamageTo),
		HalfDamageTo:     names(rel.HalfDamageTo),
		NoDamageTo:       names(rel.NoDamageTo),
		DoubleDamageFrom: names(rel.DoubleDamageFrom),
		HalfDamageFrom:   names(rel.HalfDamageFrom),
		NoDamageFrom:     names(rel.NoDamageFrom),
	}, nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
