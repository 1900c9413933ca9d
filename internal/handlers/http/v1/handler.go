// Package v1 serves the pokemon_data and leaderboard resources and the
// battle_simulator tool over HTTP
package v1

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/KirkDiggler/pokebattle-api/internal/errors"
	"github.com/KirkDiggler/pokebattle-api/internal/logging"
	"github.com/KirkDiggler/pokebattle-api/internal/orchestrators/battle"
	"github.com/KirkDiggler/pokebattle-api/internal/orchestrators/pokemon"
	"github.com/KirkDiggler/pokebattle-api/internal/services/leaderboard"
)

// Route paths
const (
	PathRoot            = "/"
	PathPokemonData     = "/mcp/resources/pokemon_data"
	PathLeaderboard     = "/mcp/resources/leaderboard"
	PathBattleSimulator = "/mcp/tools/battle_simulator"
	PathBattle          = "/mcp/tools/battle_simulator/:id"
)

// HandlerConfig holds dependencies for the handler
type HandlerConfig struct {
	PokemonService     pokemon.Service
	BattleService      battle.Service
	LeaderboardService leaderboard.Service
	// DefaultLevel and DefaultMaxTurns fill omitted battle request fields
	DefaultLevel    int
	DefaultMaxTurns int
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.PokemonService == nil {
		vb.RequiredField("PokemonService")
	}
	if c.BattleService == nil {
		vb.RequiredField("BattleService")
	}
	if c.LeaderboardService == nil {
		vb.RequiredField("LeaderboardService")
	}
	errors.ValidatePositive("DefaultLevel", c.DefaultLevel, vb)
	errors.ValidatePositive("DefaultMaxTurns", c.DefaultMaxTurns, vb)

	return vb.Build()
}

// Handler implements the HTTP API
type Handler struct {
	pokemonService     pokemon.Service
	battleService      battle.Service
	leaderboardService leaderboard.Service
	defaultLevel       int
	defaultMaxTurns    int
}

// NewHandler creates a new handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Handler{
		pokemonService:     cfg.PokemonService,
		battleService:      cfg.BattleService,
		leaderboardService: cfg.LeaderboardService,
		defaultLevel:       cfg.DefaultLevel,
		defaultMaxTurns:    cfg.DefaultMaxTurns,
	}, nil
}

// NewEcho builds an echo instance with the standard middleware chain and the
// handler's routes. A positive requestTimeout bounds every request context.
func NewEcho(h *Handler, requestTimeout time.Duration) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()
	e.HTTPErrorHandler = ErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(logging.Middleware)
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logging.FromContext(c.Request().Context()).Info("Request handled",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency)
			return nil
		},
	}))
	if requestTimeout > 0 {
		e.Use(middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{
			Timeout: requestTimeout,
			// keep deadline errors as they are so ErrorHandler can map them
			ErrorHandler: func(err error, _ echo.Context) error { return err },
		}))
	}

	h.RegisterRoutes(e)
	return e
}

// RegisterRoutes adds the API routes to e
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET(PathRoot, h.Root)
	e.GET(PathPokemonData, h.GetPokemonData)
	e.GET(PathLeaderboard, h.GetLeaderboard)
	e.POST(PathBattleSimulator, h.SimulateBattle)
	e.GET(PathBattle, h.GetBattle)
}

// Root serves the welcome message
func (h *Handler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, WelcomeResponse{Message: WelcomeMessage})
}

// GetPokemonData serves a creature record
func (h *Handler) GetPokemonData(c echo.Context) error {
	var req PokemonDataRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	out, err := h.pokemonService.GetPokemon(c.Request().Context(), &pokemon.GetPokemonInput{Name: req.Name})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, PokemonDataResponse{
		Resource: ResourcePokemonData,
		Name:     out.Name,
		Data:     out.Pokemon,
	})
}

// SimulateBattle runs the battle_simulator tool
func (h *Handler) SimulateBattle(c echo.Context) error {
	var req BattleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	params := BattleParamsResponse{
		Pokemon1: req.Pokemon1,
		Pokemon2: req.Pokemon2,
		Level:    h.defaultLevel,
		MaxTurns: h.defaultMaxTurns,
		Seed:     req.Seed,
	}
	if req.Level != nil {
		params.Level = *req.Level
	}
	if req.MaxTurns != nil {
		params.MaxTurns = *req.MaxTurns
	}

	out, err := h.battleService.SimulateBattle(c.Request().Context(), &battle.SimulateBattleInput{
		Pokemon1: params.Pokemon1,
		Pokemon2: params.Pokemon2,
		Level:    params.Level,
		MaxTurns: params.MaxTurns,
		Seed:     params.Seed,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, BattleResponse{
		Tool:   ToolBattleSimulator,
		Params: params,
		Result: out.Result,
	})
}

// GetBattle serves a stored battle result
func (h *Handler) GetBattle(c echo.Context) error {
	var req GetBattleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	out, err := h.battleService.GetBattle(c.Request().Context(), &battle.GetBattleInput{BattleID: req.ID})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, BattleResponse{
		Tool: ToolBattleSimulator,
		Params: BattleParamsResponse{
			Pokemon1: out.Result.Params.Pokemon1,
			Pokemon2: out.Result.Params.Pokemon2,
			Level:    out.Result.Params.Level,
			MaxTurns: out.Result.Params.MaxTurns,
			Seed:     out.Result.Params.Seed,
		},
		Result: out.Result,
	})
}

// GetLeaderboard serves the leaderboard resource
func (h *Handler) GetLeaderboard(c echo.Context) error {
	var req LeaderboardRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	out, err := h.leaderboardService.Top(c.Request().Context(), &leaderboard.TopInput{Limit: req.Limit})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, LeaderboardResponse{
		Resource: ResourceLeaderboard,
		Entries:  out.Entries,
	})
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return errors.InvalidArgument("invalid request format")
	}
	return c.Validate(req)
}
