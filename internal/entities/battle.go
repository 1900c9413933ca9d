package entities

import "time"

// Draw is the winner marker used when neither side wins
const Draw = "draw"

// Battle outcome events. A won event's source is the winner and its target
// the loser. A drawn event carries both sides as source and target.
const (
	EventBattleWon   = "battle.won"
	EventBattleDrawn = "battle.drawn"
)

// BattleParams are the parameters a battle was simulated with
type BattleParams struct {
	Pokemon1 string `json:"pokemon1"`
	Pokemon2 string `json:"pokemon2"`
	Level    int    `json:"level"`
	MaxTurns int    `json:"max_turns"`
	Seed     *int64 `json:"seed,omitempty"`
}

// BattleResult is the outcome of a single simulated battle
type BattleResult struct {
	ID         string       `json:"id,omitempty"`
	Winner     string       `json:"winner"`
	Turns      int          `json:"turns"`
	Log        []string     `json:"log"`
	FinalState FinalState   `json:"final_state"`
	Params     BattleParams `json:"params"`
	CreatedAt  time.Time    `json:"created_at"`
}

// FinalState snapshots both participants when the battle ended
type FinalState struct {
	P1 ParticipantSnapshot `json:"p1"`
	P2 ParticipantSnapshot `json:"p2"`
}

// ParticipantSnapshot is a participant's name and remaining HP
type ParticipantSnapshot struct {
	Name string `json:"name"`
	HP   int    `json:"hp"`
}

// LeaderboardEntry is a creature's aggregate battle record
type LeaderboardEntry struct {
	Name   string `json:"name"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
	Draws  int    `json:"draws"`
}
