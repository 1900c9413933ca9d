package battle

import (
	"slices"

	"github.com/KirkDiggler/rpg-toolkit/core"

	"github.com/KirkDiggler/pokebattle-api/internal/entities"
)

// Status is the single status condition a participant may carry
type Status string

// Status conditions
const (
	StatusNone      Status = ""
	StatusParalysis Status = "paralysis"
	StatusBurn      Status = "burn"
	StatusPoison    Status = "poison"
)

// Stats are the scaled combat stats of a participant
type Stats struct {
	MaxHP          int
	Attack         int
	Defense        int
	SpecialAttack  int
	SpecialDefense int
	Speed          int
}

// ScaleStats applies the simplified level scaling to a record's base stats:
// max HP gains 2 per level, every other stat gains half the level and is
// never below 1. Missing stats count as 1. Levels outside 0..MaxLevel are
// clamped into that range.
func ScaleStats(p *entities.Pokemon, level int) Stats {
	level = min(max(level, 0), MaxLevel)
	bonus := level / 2
	return Stats{
		MaxHP:          p.Stat(entities.StatHP) + 2*level,
		Attack:         max(1, p.Stat(entities.StatAttack)+bonus),
		Defense:        max(1, p.Stat(entities.StatDefense)+bonus),
		SpecialAttack:  max(1, p.Stat(entities.StatSpecialAttack)+bonus),
		SpecialDefense: max(1, p.Stat(entities.StatSpecialDefense)+bonus),
		Speed:          max(1, p.Stat(entities.StatSpeed)+bonus),
	}
}

// participant is the mutable battle state of one side, owned by a single run
type participant struct {
	name   string
	types  []string
	moves  []entities.Move
	stats  Stats
	hp     int
	status Status
}

var _ core.Entity = (*participant)(nil)

func newParticipant(p *entities.Pokemon, level int) *participant {
	stats := ScaleStats(p, level)
	return &participant{
		name:  p.Name,
		types: append([]string(nil), p.Types...),
		moves: p.Moves,
		stats: stats,
		hp:    stats.MaxHP,
	}
}

// GetID returns the participant's name
func (p *participant) GetID() string {
	return p.name
}

// GetType returns the entity type
func (p *participant) GetType() string {
	return entities.EntityType
}

func (p *participant) fainted() bool {
	return p.hp <= 0
}

// takeDamage lowers HP, keeping it within [0, max HP]
func (p *participant) takeDamage(amount int) {
	p.hp = min(p.stats.MaxHP, max(0, p.hp-amount))
}

// effectiveSpeed halves speed while paralyzed
func (p *participant) effectiveSpeed() int {
	if p.status == StatusParalysis {
		return max(1, p.stats.Speed/2)
	}
	return p.stats.Speed
}

func (p *participant) hasType(t string) bool {
	return slices.Contains(p.types, t)
}
