package client

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/pokebattle-api/internal/entities"
)

var (
	battleLevel    int
	battleMaxTurns int
	battleSeed     int64
	battleShowLog  bool
)

var battleCmd = &cobra.Command{
	Use:   "battle [pokemon1] [pokemon2]",
	Short: "Simulate a battle between two Pokemon",
	Long:  `Run the battle_simulator tool. Omitted level and max turns use the server defaults.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runBattle,
}

var getBattleCmd = &cobra.Command{
	Use:   "get-battle [battle-id]",
	Short: "Get a previously simulated battle",
	Args:  cobra.ExactArgs(1),
	RunE:  runGetBattle,
}

func init() {
	battleCmd.Flags().IntVar(&battleLevel, "level", 0, "Level of both Pokemon (server default when 0)")
	battleCmd.Flags().IntVar(&battleMaxTurns, "max-turns", 0, "Turn limit (server default when 0)")
	battleCmd.Flags().Int64Var(&battleSeed, "seed", 0, "Seed for a reproducible battle")
	battleCmd.Flags().BoolVar(&battleShowLog, "log", true, "Print the battle log")
	getBattleCmd.Flags().BoolVar(&battleShowLog, "log", true, "Print the battle log")
}

type battleRequest struct {
	Pokemon1 string `json:"pokemon1"`
	Pokemon2 string `json:"pokemon2"`
	Level    *int   `json:"level,omitempty"`
	MaxTurns *int   `json:"max_turns,omitempty"`
	Seed     *int64 `json:"seed,omitempty"`
}

type battleResponse struct {
	Tool   string                `json:"tool"`
	Result entities.BattleResult `json:"result"`
}

func runBattle(cmd *cobra.Command, args []string) error {
	req := &battleRequest{Pokemon1: args[0], Pokemon2: args[1]}
	if cmd.Flags().Changed("level") {
		req.Level = &battleLevel
	}
	if cmd.Flags().Changed("max-turns") {
		req.MaxTurns = &battleMaxTurns
	}
	if cmd.Flags().Changed("seed") {
		req.Seed = &battleSeed
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	log.Printf("Simulating %s vs %s on %s...", req.Pokemon1, req.Pokemon2, serverURL)

	var resp battleResponse
	raw, err := newAPIClient().getJSON(ctx, http.MethodPost, "/mcp/tools/battle_simulator", req, &resp)
	if err != nil {
		return fmt.Errorf("failed to simulate battle: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), raw)
	}

	printBattle(cmd.OutOrStdout(), &resp.Result)
	return nil
}

func runGetBattle(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	var resp battleResponse
	raw, err := newAPIClient().getJSON(ctx, http.MethodGet,
		"/mcp/tools/battle_simulator/"+url.PathEscape(args[0]), nil, &resp)
	if err != nil {
		return fmt.Errorf("failed to get battle: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), raw)
	}

	printBattle(cmd.OutOrStdout(), &resp.Result)
	return nil
}

func printBattle(w io.Writer, result *entities.BattleResult) {
	fmt.Fprintf(w, "Battle %s\n", result.ID)
	fmt.Fprintf(w, "  %s vs %s at level %d (max %d turns)\n",
		result.Params.Pokemon1, result.Params.Pokemon2, result.Params.Level, result.Params.MaxTurns)
	if result.Params.Seed != nil {
		fmt.Fprintf(w, "  Seed: %d\n", *result.Params.Seed)
	}

	if battleShowLog {
		fmt.Fprintf(w, "\n")
		for _, line := range result.Log {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}

	fmt.Fprintf(w, "\nWinner: %s after %d turns\n", result.Winner, result.Turns)
	fmt.Fprintf(w, "  %s: %d HP\n", result.FinalState.P1.Name, result.FinalState.P1.HP)
	fmt.Fprintf(w, "  %s: %d HP\n", result.FinalState.P2.Name, result.FinalState.P2.HP)
}
