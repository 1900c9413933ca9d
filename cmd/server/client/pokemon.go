package client

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/pokebattle-api/internal/entities"
)

var pokemonCmd = &cobra.Command{
	Use:   "pokemon [name]",
	Short: "Get details for a Pokemon",
	Long:  `Fetch a Pokemon's stats, types, abilities, moves and evolution chain through the pokemon_data resource.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runPokemon,
}

type pokemonDataResponse struct {
	Resource string           `json:"resource"`
	Name     string           `json:"name"`
	Data     entities.Pokemon `json:"data"`
}

func runPokemon(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	log.Printf("Requesting pokemon '%s' from %s...", args[0], serverURL)

	var resp pokemonDataResponse
	raw, err := newAPIClient().getJSON(ctx, http.MethodGet,
		"/mcp/resources/pokemon_data?name="+url.QueryEscape(args[0]), nil, &resp)
	if err != nil {
		return fmt.Errorf("failed to get pokemon: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), raw)
	}

	printPokemon(cmd.OutOrStdout(), &resp.Data)
	return nil
}

func printPokemon(w io.Writer, p *entities.Pokemon) {
	fmt.Fprintf(w, "%s (#%d)\n", p.Name, p.ID)
	fmt.Fprintf(w, "  Types: %s\n", strings.Join(p.Types, ", "))
	baseXP := "-"
	if p.BaseExperience != nil {
		baseXP = strconv.Itoa(*p.BaseExperience)
	}
	fmt.Fprintf(w, "  Height: %d  Weight: %d  Base XP: %s\n", p.Height, p.Weight, baseXP)

	fmt.Fprintf(w, "\nStats:\n")
	for _, stat := range []string{"hp", "attack", "defense", "special-attack", "special-defense", "speed"} {
		if v, ok := p.Stats[stat]; ok {
			fmt.Fprintf(w, "  %-16s %d\n", stat, v)
		}
	}

	if len(p.Abilities) > 0 {
		fmt.Fprintf(w, "\nAbilities:\n")
		for _, ability := range p.Abilities {
			fmt.Fprintf(w, "  - %s\n", ability)
		}
	}

	if len(p.Moves) > 0 {
		fmt.Fprintf(w, "\nMoves (%d):\n", len(p.Moves))
		for _, move := range p.Moves {
			power := "-"
			if move.Power != nil {
				power = strconv.Itoa(*move.Power)
			}
			fmt.Fprintf(w, "  - %-20s %-10s %-9s power %s\n", move.Name, move.Type, move.DamageClass, power)
		}
	}

	if len(p.EvolutionChain) > 0 {
		stages := make([]string, len(p.EvolutionChain))
		for i, stage := range p.EvolutionChain {
			stages[i] = strings.Join(stage, "/")
		}
		fmt.Fprintf(w, "\nEvolution: %s\n", strings.Join(stages, " -> "))
	}
}
