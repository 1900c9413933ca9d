package battle

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/KirkDiggler/pokebattle-api/internal/entities"
)

// fixedRoller returns a configured value per die size and size itself otherwise,
// which means full variance, no paralysis skip and no scorch proc.
type fixedRoller struct {
	values map[int]int
	calls  []int
}

func (f *fixedRoller) Roll(size int) (int, error) {
	f.calls = append(f.calls, size)
	if v, ok := f.values[size]; ok {
		return v, nil
	}
	return size, nil
}

func (f *fixedRoller) RollN(count, size int) ([]int, error) {
	out := make([]int, count)
	for i := range out {
		out[i], _ = f.Roll(size)
	}
	return out, nil
}

func power(v int) *int {
	return &v
}

func move(name, moveType string, pow int) entities.Move {
	return entities.Move{
		Name:        name,
		Power:       power(pow),
		Type:        moveType,
		DamageClass: entities.DamageClassPhysical,
	}
}

func uniformStats(hp, other int) map[string]int {
	return map[string]int{
		entities.StatHP:             hp,
		entities.StatAttack:         other,
		entities.StatDefense:        other,
		entities.StatSpecialAttack:  other,
		entities.StatSpecialDefense: other,
		entities.StatSpeed:          other,
	}
}

func pokemon(name string, types []string, stats map[string]int, moves ...entities.Move) *entities.Pokemon {
	return &entities.Pokemon{
		Name:  name,
		Types: types,
		Stats: stats,
		Moves: moves,
	}
}

func newTestRun(p1, p2 *entities.Pokemon, chart TypeChart, roller *fixedRoller) *run {
	return &run{
		p1:       newParticipant(p1, DefaultLevel),
		p2:       newParticipant(p2, DefaultLevel),
		level:    DefaultLevel,
		maxTurns: DefaultMaxTurns,
		chart:    chart,
		roller:   roller,
		caser:    cases.Title(language.English),
		turn:     1,
	}
}

// testChart is a small slice of the real type chart
func testChart() TypeChart {
	return TypeChart{
		"fire": {
			DoubleDamageTo: []string{"grass", "bug", "ice", "steel"},
			HalfDamageTo:   []string{"fire", "water", "rock", "dragon"},
		},
		"ground": {
			DoubleDamageTo: []string{"fire", "electric", "poison", "rock", "steel"},
			HalfDamageTo:   []string{"grass", "bug"},
			NoDamageTo:     []string{"flying"},
		},
		"normal": {
			HalfDamageTo: []string{"rock", "steel"},
			NoDamageTo:   []string{"ghost"},
		},
	}
}
