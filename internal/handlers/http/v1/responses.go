package v1

import (
	"github.com/KirkDiggler/pokebattle-api/internal/entities"
)

// WelcomeMessage is served at the root
const WelcomeMessage = "Welcome to the Pokemon MCP Server! Use /mcp/resources/pokemon_data or /mcp/tools/battle_simulator."

// Resource and tool names
const (
	ResourcePokemonData = "pokemon_data"
	ResourceLeaderboard = "leaderboard"
	ToolBattleSimulator = "battle_simulator"
)

// WelcomeResponse is the root response
type WelcomeResponse struct {
	Message string `json:"message"`
}

// PokemonDataResponse wraps a creature record
type PokemonDataResponse struct {
	Resource string            `json:"resource"`
	Name     string            `json:"name"`
	Data     *entities.Pokemon `json:"data"`
}

// BattleParamsResponse echoes the request with defaults applied
type BattleParamsResponse struct {
	Pokemon1 string `json:"pokemon1"`
	Pokemon2 string `json:"pokemon2"`
	Level    int    `json:"level"`
	MaxTurns int    `json:"max_turns"`
	Seed     *int64 `json:"seed,omitempty"`
}

// BattleResponse wraps a battle result
type BattleResponse struct {
	Tool   string                 `json:"tool"`
	Params BattleParamsResponse   `json:"params"`
	Result *entities.BattleResult `json:"result"`
}

// LeaderboardResponse lists leaderboard entries
type LeaderboardResponse struct {
	Resource string                       `json:"resource"`
	Entries  []*entities.LeaderboardEntry `json:"entries"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
}
