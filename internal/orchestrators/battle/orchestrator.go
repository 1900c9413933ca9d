// Package battle implements the battle orchestrator: it gathers both creature
// records and their type relations, runs the simulator, stores the result and
// announces the outcome
package battle

//go:generate mockgen -destination=mock/mock_service.go -package=battlemock github.com/KirkDiggler/pokebattle-api/internal/orchestrators/battle Service

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/pokebattle-api/internal/clients/pokeapi"
	battleengine "github.com/KirkDiggler/pokebattle-api/internal/engine/battle"
	"github.com/KirkDiggler/pokebattle-api/internal/entities"
	"github.com/KirkDiggler/pokebattle-api/internal/errors"
	"github.com/KirkDiggler/pokebattle-api/internal/pkg/clock"
	"github.com/KirkDiggler/pokebattle-api/internal/pkg/idgen"
	"github.com/KirkDiggler/pokebattle-api/internal/pkg/roller"
	"github.com/KirkDiggler/pokebattle-api/internal/repositories/battles"
)

const (
	// DefaultResultTTL is how long a stored battle stays retrievable
	DefaultResultTTL = time.Hour
	// DefaultMaxTurnsLimit caps caller supplied max turns
	DefaultMaxTurnsLimit = 10000
	// DefaultMaxLevel caps caller supplied levels
	DefaultMaxLevel = battleengine.MaxLevel

	errPokemonNotFound = "One or both Pokemon not found"
)

// Service defines the interface for battle operations
type Service interface {
	SimulateBattle(ctx context.Context, input *SimulateBattleInput) (*SimulateBattleOutput, error)
	GetBattle(ctx context.Context, input *GetBattleInput) (*GetBattleOutput, error)
}

// Config holds the dependencies for the battle orchestrator
type Config struct {
	PokeAPIClient pokeapi.Client
	BattleRepo    battles.Repository
	EventBus      events.EventBus
	IDGenerator   idgen.Generator
	// Roller drives unseeded battles (optional, defaults to dice.DefaultRoller)
	Roller dice.Roller
	Clock  clock.Clock
	// ResultTTL (optional, defaults to DefaultResultTTL)
	ResultTTL time.Duration
	// MaxTurnsLimit (optional, defaults to DefaultMaxTurnsLimit)
	MaxTurnsLimit int
	// MaxLevel (optional, defaults to DefaultMaxLevel, never above battleengine.MaxLevel)
	MaxLevel int
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.PokeAPIClient == nil {
		vb.RequiredField("PokeAPIClient")
	}
	if c.BattleRepo == nil {
		vb.RequiredField("BattleRepo")
	}
	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	errors.ValidateNonNegativeDuration("ResultTTL", c.ResultTTL, vb)
	errors.ValidateNonNegative("MaxTurnsLimit", c.MaxTurnsLimit, vb)
	errors.ValidateRange("MaxLevel", c.MaxLevel, 0, battleengine.MaxLevel, vb)

	return vb.Build()
}

type orchestrator struct {
	client        pokeapi.Client
	battleRepo    battles.Repository
	eventBus      events.EventBus
	idGen         idgen.Generator
	roller        dice.Roller
	clock         clock.Clock
	resultTTL     time.Duration
	maxTurnsLimit int
	maxLevel      int
}

// NewOrchestrator creates a new battle orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	o := &orchestrator{
		client:        cfg.PokeAPIClient,
		battleRepo:    cfg.BattleRepo,
		eventBus:      cfg.EventBus,
		idGen:         cfg.IDGenerator,
		roller:        cfg.Roller,
		clock:         cfg.Clock,
		resultTTL:     cfg.ResultTTL,
		maxTurnsLimit: cfg.MaxTurnsLimit,
		maxLevel:      cfg.MaxLevel,
	}
	if o.roller == nil {
		o.roller = dice.DefaultRoller
	}
	if o.clock == nil {
		o.clock = clock.New()
	}
	if o.resultTTL == 0 {
		o.resultTTL = DefaultResultTTL
	}
	if o.maxTurnsLimit == 0 {
		o.maxTurnsLimit = DefaultMaxTurnsLimit
	}
	if o.maxLevel == 0 {
		o.maxLevel = DefaultMaxLevel
	}

	return o, nil
}

func (o *orchestrator) validateSimulate(input *SimulateBattleInput) error {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("Pokemon1", input.Pokemon1, vb)
	errors.ValidateRequired("Pokemon2", input.Pokemon2, vb)
	errors.ValidateRange("Level", input.Level, 0, o.maxLevel, vb)
	errors.ValidateRange("MaxTurns", input.MaxTurns, 0, o.maxTurnsLimit, vb)
	return vb.Build()
}

// SimulateBattle runs a battle between two creatures fetched by name
func (o *orchestrator) SimulateBattle(ctx context.Context, input *SimulateBattleInput) (*SimulateBattleOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := o.validateSimulate(input); err != nil {
		return nil, err
	}

	params := entities.BattleParams{
		Pokemon1: normalizeName(input.Pokemon1),
		Pokemon2: normalizeName(input.Pokemon2),
		Level:    input.Level,
		MaxTurns: input.MaxTurns,
		Seed:     input.Seed,
	}
	if params.Level == 0 {
		params.Level = battleengine.DefaultLevel
	}
	if params.MaxTurns == 0 {
		params.MaxTurns = battleengine.DefaultMaxTurns
	}

	p1, p2, err := o.fetchParticipants(ctx, params.Pokemon1, params.Pokemon2)
	if err != nil {
		return nil, err
	}

	chart, err := o.fetchTypeChart(ctx, p1, p2)
	if err != nil {
		return nil, err
	}

	r := o.roller
	if input.Seed != nil {
		r = roller.NewSeeded(*input.Seed)
	}

	sim, err := battleengine.NewSimulator(&battleengine.Config{Roller: r})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create simulator")
	}

	outcome, err := sim.Simulate(&battleengine.Input{
		P1:        p1,
		P2:        p2,
		Level:     params.Level,
		MaxTurns:  params.MaxTurns,
		TypeChart: chart,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to simulate battle")
	}

	result := &entities.BattleResult{
		ID:         o.idGen.Generate(),
		Winner:     outcome.Winner,
		Turns:      outcome.Turns,
		Log:        outcome.Log,
		FinalState: outcome.FinalState,
		Params:     params,
		CreatedAt:  o.clock.Now(),
	}

	if _, err := o.battleRepo.Create(ctx, battles.CreateInput{Result: result, TTL: o.resultTTL}); err != nil {
		return nil, errors.Wrapf(err, "failed to store battle %s", result.ID)
	}

	slog.InfoContext(ctx, "Battle simulated",
		"battle_id", result.ID,
		"pokemon1", p1.Name,
		"pokemon2", p2.Name,
		"winner", result.Winner,
		"turns", result.Turns,
		"reason", outcome.Reason)

	o.publishOutcome(ctx, result, p1, p2)

	return &SimulateBattleOutput{Result: result}, nil
}

// fetchParticipants loads both records in parallel. A name unknown upstream
// is the caller's mistake; any other failure is passed through.
func (o *orchestrator) fetchParticipants(
	ctx context.Context, name1, name2 string,
) (*entities.Pokemon, *entities.Pokemon, error) {
	names := [2]string{name1, name2}
	var records [2]*entities.Pokemon
	var errs [2]error

	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(idx int, name string) {
			defer wg.Done()
			records[idx], errs[idx] = o.client.GetPokemon(ctx, name)
		}(i, name)
	}
	wg.Wait()

	for i, err := range errs {
		if err == nil {
			continue
		}
		if errors.IsNotFound(err) {
			return nil, nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, errPokemonNotFound).
				WithMeta("pokemon", names[i])
		}
		return nil, nil, errors.Wrapf(err, "failed to get pokemon %s", names[i])
	}

	return records[0], records[1], nil
}

func (o *orchestrator) fetchTypeChart(ctx context.Context, records ...*entities.Pokemon) (battleengine.TypeChart, error) {
	chart := make(battleengine.TypeChart)
	for _, t := range battleengine.RequiredTypes(records...) {
		rel, err := o.client.GetTypeRelations(ctx, t)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to get type relations for %s", t)
		}
		chart[t] = rel
	}
	return chart, nil
}

// publishOutcome announces the result. Subscribers failing does not fail the battle.
// Mirror matches are not announced since they would credit one Pokemon with both
// the win and the loss.
func (o *orchestrator) publishOutcome(ctx context.Context, result *entities.BattleResult, p1, p2 *entities.Pokemon) {
	if p1.Name == p2.Name {
		slog.DebugContext(ctx, "Skipping outcome for mirror match",
			"battle_id", result.ID,
			"pokemon", p1.Name)
		return
	}

	var event events.Event
	switch result.Winner {
	case entities.Draw:
		event = events.NewGameEvent(entities.EventBattleDrawn, p1, p2)
	case p1.Name:
		event = events.NewGameEvent(entities.EventBattleWon, p1, p2)
	default:
		event = events.NewGameEvent(entities.EventBattleWon, p2, p1)
	}

	if err := o.eventBus.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "Failed to publish battle outcome",
			"battle_id", result.ID,
			"event", event.Type(),
			"error", err)
	}
}

// GetBattle loads a stored battle result
func (o *orchestrator) GetBattle(ctx context.Context, input *GetBattleInput) (*GetBattleOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("BattleID", input.BattleID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	out, err := o.battleRepo.Get(ctx, battles.GetInput{BattleID: strings.TrimSpace(input.BattleID)})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get battle %s", input.BattleID)
	}

	return &GetBattleOutput{Result: out.Result}, nil
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
