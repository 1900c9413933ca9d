package battle

import (
	"slices"

	"github.com/KirkDiggler/pokebattle-api/internal/entities"
)

// Struggle is used when a participant has no moves at all
var Struggle = entities.Move{
	Name:        "struggle",
	Power:       intPtr(50),
	Type:        "normal",
	DamageClass: entities.DamageClassPhysical,
}

// fallbackPower is used when the selected move carries no power value
const fallbackPower = 50

// SelectMove picks the highest-power move. Ties keep list order. When no move
// has a power value the first move is returned as is; an empty list yields Struggle.
func SelectMove(moves []entities.Move) entities.Move {
	if len(moves) == 0 {
		return Struggle
	}

	powered := make([]entities.Move, 0, len(moves))
	for _, m := range moves {
		if m.HasPower() {
			powered = append(powered, m)
		}
	}
	if len(powered) == 0 {
		return moves[0]
	}

	slices.SortStableFunc(powered, func(a, b entities.Move) int {
		return *b.Power - *a.Power
	})
	return powered[0]
}

func movePower(m entities.Move) int {
	if !m.HasPower() {
		return fallbackPower
	}
	return *m.Power
}

func intPtr(v int) *int {
	return &v
}
