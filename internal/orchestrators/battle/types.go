package battle

import (
	"github.com/KirkDiggler/pokebattle-api/internal/entities"
)

// SimulateBattleInput defines the request for simulating a battle
type SimulateBattleInput struct {
	Pokemon1 string
	Pokemon2 string
	Level    int    // 0 means the default level
	MaxTurns int    // 0 means the default turn cap
	Seed     *int64 // makes the battle reproducible when set
}

// SimulateBattleOutput defines the response for simulating a battle
type SimulateBattleOutput struct {
	Result *entities.BattleResult
}

// GetBattleInput defines the request for loading a stored battle
type GetBattleInput struct {
	BattleID string
}

// GetBattleOutput defines the response for loading a stored battle
type GetBattleOutput struct {
	Result *entities.BattleResult
}
