// Package entities provides core data structures for pokebattle-api.
package entities

// Stat names as reported by PokeAPI
const (
	StatHP             = "hp"
	StatAttack         = "attack"
	StatDefense        = "defense"
	StatSpecialAttack  = "special-attack"
	StatSpecialDefense = "special-defense"
	StatSpeed          = "speed"
)

// Damage classes
const (
	DamageClassPhysical = "physical"
	DamageClassSpecial  = "special"
	DamageClassStatus   = "status"
)

// Pokemon is the flattened creature record served by the pokemon_data resource
// and consumed by the battle engine
type Pokemon struct {
	ID             int            `json:"id"`
	Name           string         `json:"name"`
	Height         int            `json:"height"`
	Weight         int            `json:"weight"`
	BaseExperience *int           `json:"base_experience"`
	Stats          map[string]int `json:"stats"`
	Types          []string       `json:"types"`
	Abilities      []string       `json:"abilities"`
	Moves          []Move         `json:"moves"`
	EvolutionChain [][]string     `json:"evolution_chain"`
}

// Stat returns the named base stat, or 1 when the record does not carry it
func (p *Pokemon) Stat(name string) int {
	if v, ok := p.Stats[name]; ok {
		return v
	}
	return 1
}

// Move is a single learnable move. Power, PP and Accuracy are nil when
// PokeAPI reports null or the move details could not be fetched.
type Move struct {
	Name        string `json:"name"`
	Power       *int   `json:"power,omitempty"`
	PP          *int   `json:"pp,omitempty"`
	Type        string `json:"type,omitempty"`
	DamageClass string `json:"damage_class,omitempty"`
	Accuracy    *int   `json:"accuracy,omitempty"`
	Effect      string `json:"effect,omitempty"`
}

// HasPower reports whether the move carries a non-zero power value
func (m Move) HasPower() bool {
	return m.Power != nil && *m.Power != 0
}

// TypeRelations lists which types an elemental type deals and receives
// double, half or no damage to and from
type TypeRelations struct {
	DoubleDamageTo   []string `json:"double_damage_to"`
	HalfDamageTo     []string `json:"half_damage_to"`
	NoDamageTo       []string `json:"no_damage_to"`
	DoubleDamageFrom []string `json:"double_damage_from"`
	HalfDamageFrom   []string `json:"half_damage_from"`
	NoDamageFrom     []string `json:"no_damage_from"`
}

// EntityType identifies creatures on the event bus
const EntityType = "pokemon"

// GetID returns the creature name, which is unique in PokeAPI
func (p *Pokemon) GetID() string {
	return p.Name
}

// GetType returns EntityType
func (p *Pokemon) GetType() string {
	return EntityType
}
