package pokeapi

// namedResource is PokeAPI's {name, url} reference shape
type namedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type pokemonResponse struct {
	ID             int           `json:"id"`
	Name           string        `json:"name"`
	Height         int           `json:"height"`
	Weight         int           `json:"weight"`
	BaseExperience *int          `json:"base_experience"`
	Species        namedResource `json:"species"`
	Stats          []struct {
		BaseStat int           `json:"base_stat"`
		Stat     namedResource `json:"stat"`
	} `json:"stats"`
	Types []struct {
		Slot int           `json:"slot"`
		Type namedResource `json:"type"`
	} `json:"types"`
	Abilities []struct {
		Ability  namedResource `json:"ability"`
		IsHidden bool          `json:"is_hidden"`
	} `json:"abilities"`
	Moves []struct {
		Move namedResource `json:"move"`
	} `json:"moves"`
}

type speciesResponse struct {
	EvolutionChain *struct {
		URL string `json:"url"`
	} `json:"evolution_chain"`
}

type moveResponse struct {
	Name          string         `json:"name"`
	Power         *int           `json:"power"`
	PP            *int           `json:"pp"`
	Accuracy      *int           `json:"accuracy"`
	Type          *namedResource `json:"type"`
	DamageClass   *namedResource `json:"damage_class"`
	EffectEntries []struct {
		Effect      string        `json:"effect"`
		ShortEffect string        `json:"short_effect"`
		Language    namedResource `json:"language"`
	} `json:"effect_entries"`
}

type evolutionChainResponse struct {
	Chain chainLink `json:"chain"`
}

type chainLink struct {
	Species   namedResource `json:"species"`
	EvolvesTo []chainLink   `json:"evolves_to"`
}

type typeResponse struct {
	Name            string `json:"name"`
	DamageRelations struct {
		DoubleDamageTo   []namedResource `json:"double_damage_to"`
		HalfDamageTo     []namedResource `json:"half_damage_to"`
		NoDamageTo       []namedResource `json:"no_damage_to"`
		DoubleDamageFrom []namedResource `json:"double_damage_from"`
		HalfDamageFrom   []namedResource `json:"half_damage_from"`
		NoDamageFrom     []namedResource `json:"no_damage_from"`
	} `json:"damage_relations"`
}
