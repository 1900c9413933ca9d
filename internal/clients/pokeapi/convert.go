package pokeapi

import (
	"github.com/KirkDiggler/pokebattle-api/internal/entities"
)

const englishLanguage = "en"

func convertMove(m moveResponse) entities.Move {
	move := entities.Move{
		Name:     m.Name,
		Power:    m.Power,
		PP:       m.PP,
		Accuracy: m.Accuracy,
	}
	if m.Type != nil {
		move.Type = m.Type.Name
	}
	if m.DamageClass != nil {
		move.DamageClass = m.DamageClass.Name
	}

	for _, e := range m.EffectEntries {
		if e.Language.Name != englishLanguage {
			continue
		}
		move.Effect = e.ShortEffect
		if move.Effect == "" {
			move.Effect = e.Effect
		}
		break
	}

	return move
}

// flattenChain groups species by evolution depth. Branches at the same
// depth share a stage, in walk order.
func flattenChain(root chainLink) [][]string {
	var stages [][]string

	var walk func(node chainLink, depth int)
	walk = func(node chainLink, depth int) {
		if len(stages) <= depth {
			stages = append(stages, []string{})
		}
		stages[depth] = append(stages[depth], node.Species.Name)
		for _, next := range node.EvolvesTo {
			walk(next, depth+1)
		}
	}
	walk(root, 0)

	return stages
}

func names(refs []namedResource) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		out = append(out, r.Name)
	}
	return out
}
