// Package client provides test commands for the pokebattle HTTP API
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	// Connection flags
	serverURL  string
	grpcAddr   string
	timeout    time.Duration
	jsonOutput bool
)

// ClientCmd is the root command for all client test commands
var ClientCmd = &cobra.Command{
	Use:   "client",
	Short: "Test client commands for the pokebattle API",
	Long:  `Client commands allow you to test the pokebattle API by making real HTTP requests.`,
}

func init() {
	ClientCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8000", "HTTP server base URL")
	ClientCmd.PersistentFlags().StringVar(&grpcAddr, "grpc", "localhost:50051", "gRPC health server address")
	ClientCmd.PersistentFlags().DurationVar(&timeout, "timeout", 60*time.Second, "Request timeout")
	ClientCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output raw JSON")

	ClientCmd.AddCommand(pokemonCmd)
	ClientCmd.AddCommand(battleCmd)
	ClientCmd.AddCommand(getBattleCmd)
	ClientCmd.AddCommand(leaderboardCmd)
	ClientCmd.AddCommand(healthCmd)
}

// apiError is returned for non-2xx responses
type apiError struct {
	Status int
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

func (e *apiError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("server returned %d %s: %s", e.Status, e.Code, e.Detail)
}

// apiClient issues requests against the HTTP API
type apiClient struct {
	baseURL    string
	httpClient *http.Client
}

func newAPIClient() *apiClient {
	return &apiClient{
		baseURL:    strings.TrimSuffix(serverURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// do sends body (when non-nil) as JSON and returns the raw response body
func (c *apiClient) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // nolint:errcheck // safe to ignore in cleanup
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &apiError{Status: resp.StatusCode}
		_ = json.Unmarshal(data, apiErr) // nolint:errcheck // status is enough without a body
		return nil, apiErr
	}

	return data, nil
}

// getJSON decodes the response into out and returns the raw body as well
func (c *apiClient) getJSON(ctx context.Context, method, path string, body, out any) ([]byte, error) {
	data, err := c.do(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return data, nil
}

// printJSON pretty prints a raw JSON body
func printJSON(w io.Writer, data []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return fmt.Errorf("failed to format response: %w", err)
	}
	_, err := fmt.Fprintln(w, buf.String())
	return err
}
