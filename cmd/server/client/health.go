package client

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
)

var healthService string

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the gRPC health server",
	Args:  cobra.NoArgs,
	RunE:  runHealth,
}

func init() {
	healthCmd.Flags().StringVar(&healthService, "service", "", "Service name to check (overall health when empty)")
}

func runHealth(cmd *cobra.Command, _ []string) error {
	conn, err := grpc.NewClient(grpcAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}
	defer func() {
		_ = conn.Close() // nolint:errcheck // safe to ignore in cleanup
	}()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	resp, err := grpc_health_v1.NewHealthClient(conn).Check(ctx, &grpc_health_v1.HealthCheckRequest{
		Service: healthService,
	})
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), resp.GetStatus().String())
	return nil
}
