package client

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/pokebattle-api/internal/entities"
)

var leaderboardLimit int

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the battle leaderboard",
	Args:  cobra.NoArgs,
	RunE:  runLeaderboard,
}

func init() {
	leaderboardCmd.Flags().IntVar(&leaderboardLimit, "limit", 0, "Number of entries (server default when 0)")
}

type leaderboardResponse struct {
	Entries []*entities.LeaderboardEntry `json:"entries"`
}

func runLeaderboard(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	path := "/mcp/resources/leaderboard"
	if leaderboardLimit > 0 {
		path += "?limit=" + strconv.Itoa(leaderboardLimit)
	}

	log.Printf("Requesting leaderboard from %s...", serverURL)

	var resp leaderboardResponse
	raw, err := newAPIClient().getJSON(ctx, http.MethodGet, path, nil, &resp)
	if err != nil {
		return fmt.Errorf("failed to get leaderboard: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), raw)
	}

	w := cmd.OutOrStdout()
	if len(resp.Entries) == 0 {
		fmt.Fprintln(w, "No battles recorded yet")
		return nil
	}

	fmt.Fprintf(w, "%-4s %-20s %5s %7s %6s\n", "#", "Pokemon", "Wins", "Losses", "Draws")
	for i, entry := range resp.Entries {
		fmt.Fprintf(w, "%-4d %-20s %5d %7d %6d\n", i+1, entry.Name, entry.Wins, entry.Losses, entry.Draws)
	}
	return nil
}
