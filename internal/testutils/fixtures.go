package testutils

import (
	"github.com/KirkDiggler/pokebattle-api/internal/entities"
	"github.com/KirkDiggler/pokebattle-api/internal/testutils/builders"
)

// Pikachu is a fast electric creature with one damaging move
func Pikachu() *entities.Pokemon {
	return builders.NewPokemonBuilder("pikachu").
		WithID(25).
		WithTypes("electric").
		WithStat(entities.StatHP, 35).
		WithStat(entities.StatAttack, 55).
		WithStat(entities.StatDefense, 40).
		WithStat(entities.StatSpecialAttack, 50).
		WithStat(entities.StatSpecialDefense, 50).
		WithStat(entities.StatSpeed, 90).
		WithAbilities("static", "lightning-rod (hidden)").
		WithMove("growl", "normal", entities.DamageClassStatus, 0).
		WithMove("thunder-shock", "electric", entities.DamageClassSpecial, 40).
		WithEvolutionChain([]string{"pichu"}, []string{"pikachu"}, []string{"raichu"}).
		Build()
}

// Squirtle is a slower water creature
func Squirtle() *entities.Pokemon {
	return builders.NewPokemonBuilder("squirtle").
		WithID(7).
		WithTypes("water").
		WithStat(entities.StatHP, 44).
		WithStat(entities.StatAttack, 48).
		WithStat(entities.StatDefense, 65).
		WithStat(entities.StatSpecialAttack, 50).
		WithStat(entities.StatSpecialDefense, 64).
		WithStat(entities.StatSpeed, 43).
		WithAbilities("torrent", "rain-dish (hidden)").
		WithMove("tackle", "normal", entities.DamageClassPhysical, 40).
		WithMove("water-gun", "water", entities.DamageClassSpecial, 40).
		Build()
}

// ElectricRelations is the electric type's damage relation table
func ElectricRelations() *entities.TypeRelations {
	return &entities.TypeRelations{
		DoubleDamageTo:   []string{"flying", "water"},
		HalfDamageTo:     []string{"electric", "grass", "dragon"},
		NoDamageTo:       []string{"ground"},
		DoubleDamageFrom: []string{"ground"},
		HalfDamageFrom:   []string{"flying", "steel", "electric"},
		NoDamageFrom:     []string{},
	}
}

// WaterRelations is the water type's damage relation table
func WaterRelations() *entities.TypeRelations {
	return &entities.TypeRelations{
		DoubleDamageTo:   []string{"ground", "rock", "fire"},
		HalfDamageTo:     []string{"water", "grass", "dragon"},
		NoDamageTo:       []string{},
		DoubleDamageFrom: []string{"grass", "electric"},
		HalfDamageFrom:   []string{"steel", "fire", "water", "ice"},
		NoDamageFrom:     []string{},
	}
}

// NormalRelations is the normal type's damage relation table
func NormalRelations() *entities.TypeRelations {
	return &entities.TypeRelations{
		DoubleDamageTo:   []string{},
		HalfDamageTo:     []string{"rock", "steel"},
		NoDamageTo:       []string{"ghost"},
		DoubleDamageFrom: []string{"fighting"},
		HalfDamageFrom:   []string{},
		NoDamageFrom:     []string{"ghost"},
	}
}
