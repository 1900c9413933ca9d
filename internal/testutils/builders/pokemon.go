// Package builders provides test data builders for creating test fixtures
package builders

import (
	"github.com/KirkDiggler/pokebattle-api/internal/entities"
)

// PokemonBuilder provides a fluent interface for building test Pokemon instances
type PokemonBuilder struct {
	pokemon *entities.Pokemon
}

// NewPokemonBuilder creates a builder for a normal-type creature with all
// base stats at 50 and no moves
func NewPokemonBuilder(name string) *PokemonBuilder {
	return &PokemonBuilder{
		pokemon: &entities.Pokemon{
			Name: name,
			Stats: map[string]int{
				entities.StatHP:             50,
				entities.StatAttack:         50,
				entities.StatDefense:        50,
				entities.StatSpecialAttack:  50,
				entities.StatSpecialDefense: 50,
				entities.StatSpeed:          50,
			},
			Types:          []string{"normal"},
			Abilities:      []string{},
			Moves:          []entities.Move{},
			EvolutionChain: [][]string{},
		},
	}
}

// WithID sets the national dex number
func (b *PokemonBuilder) WithID(id int) *PokemonBuilder {
	b.pokemon.ID = id
	return b
}

// WithStat sets a single base stat
func (b *PokemonBuilder) WithStat(name string, value int) *PokemonBuilder {
	b.pokemon.Stats[name] = value
	return b
}

// WithTypes replaces the elemental types
func (b *PokemonBuilder) WithTypes(types ...string) *PokemonBuilder {
	b.pokemon.Types = types
	return b
}

// WithAbilities replaces the ability list
func (b *PokemonBuilder) WithAbilities(abilities ...string) *PokemonBuilder {
	b.pokemon.Abilities = abilities
	return b
}

// WithMove appends a damaging move. Power 0 leaves the power unset.
func (b *PokemonBuilder) WithMove(name, moveType, damageClass string, power int) *PokemonBuilder {
	move := entities.Move{
		Name:        name,
		Type:        moveType,
		DamageClass: damageClass,
	}
	if power != 0 {
		move.Power = &power
	}
	b.pokemon.Moves = append(b.pokemon.Moves, move)
	return b
}

// WithEvolutionChain sets the evolution stages
func (b *PokemonBuilder) WithEvolutionChain(stages ...[]string) *PokemonBuilder {
	b.pokemon.EvolutionChain = stages
	return b
}

// Build returns the built creature
func (b *PokemonBuilder) Build() *entities.Pokemon {
	return b.pokemon
}
