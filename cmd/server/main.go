// Package main is the entry point for the pokebattle server and its test client
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/pokebattle-api/cmd/server/client"
)

var rootCmd = &cobra.Command{
	Use:   "pokebattle-api",
	Short: "Pokemon battle simulator API",
	Long:  `pokebattle-api serves PokeAPI creature data and simulates turn-based battles over HTTP.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(client.ClientCmd)
}
