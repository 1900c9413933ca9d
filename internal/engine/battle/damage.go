package battle

import (
	"math"
	"slices"

	"github.com/KirkDiggler/pokebattle-api/internal/entities"
)

// TypeChart maps an attacking type to its damage relations
type TypeChart map[string]*entities.TypeRelations

const (
	stabBonus   = 1.5
	minVariance = 0.85
	maxVariance = 1.0
)

// Effectiveness messages appended to attack log lines
const (
	msgNoEffect         = "It has no effect."
	msgSuperEffective   = "It's super effective!"
	msgNotVeryEffective = "It's not very effective..."
)

// TypeMultiplier returns the damage multiplier of moveType against the
// defender's types. Each defender type contributes x0, x2, x0.5 or x1 and the
// factors compound. An empty move type or a type missing from the chart is neutral.
func TypeMultiplier(moveType string, defenderTypes []string, chart TypeChart) float64 {
	if moveType == "" {
		return 1.0
	}

	relations, ok := chart[moveType]
	if !ok || relations == nil {
		return 1.0
	}

	mult := 1.0
	for _, d := range defenderTypes {
		switch {
		case slices.Contains(relations.NoDamageTo, d):
			mult *= 0.0
		case slices.Contains(relations.DoubleDamageTo, d):
			mult *= 2.0
		case slices.Contains(relations.HalfDamageTo, d):
			mult *= 0.5
		}
	}
	return mult
}

// DamageInput holds everything the damage formula needs
type DamageInput struct {
	Level          int
	Power          int
	Attack         int
	Defense        int
	STAB           bool
	TypeMultiplier float64
	Variance       float64
}

// CalculateDamage applies the damage formula:
//
//	base = ((2*level/5 + 2) * power * (attack/defense)) / 50 + 2
//	damage = floor(base * stab * typeMultiplier * variance)
//
// Defense below 1 counts as 1. Damage is at least 1 unless the type
// multiplier is 0, in which case it is exactly 0.
func CalculateDamage(in DamageInput) int {
	if in.TypeMultiplier == 0 {
		return 0
	}

	defense := in.Defense
	if defense <= 0 {
		defense = 1
	}

	stab := 1.0
	if in.STAB {
		stab = stabBonus
	}

	base := ((2*float64(in.Level)/5+2)*float64(in.Power)*(float64(in.Attack)/float64(defense)))/50 + 2
	dmg := int(math.Floor(base * stab * in.TypeMultiplier * in.Variance))
	if dmg < 1 {
		dmg = 1
	}
	return dmg
}

// effectivenessMessage describes a type multiplier, or returns "" for neutral hits
func effectivenessMessage(mult float64) string {
	switch {
	case mult == 0:
		return msgNoEffect
	case mult >= 2.0:
		return msgSuperEffective
	case mult < 1.0:
		return msgNotVeryEffective
	default:
		return ""
	}
}

// attackStats picks the attack/defense pair for the move's damage class
func attackStats(move entities.Move, att, def *participant) (int, int) {
	if move.DamageClass == "" || move.DamageClass == entities.DamageClassPhysical {
		return att.stats.Attack, def.stats.Defense
	}
	return att.stats.SpecialAttack, def.stats.SpecialDefense
}
