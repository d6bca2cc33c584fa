package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

const requestTimeout = 30 * time.Second

// apiClient is a thin client for a running engine instance. Every client
// subcommand shares the --endpoint and --caller flags; the caller
// identity is forwarded in the X-Caller-Identity header, which the engine
// treats as already authenticated.
type apiClient struct {
	endpoint string
	caller   string
	http     *http.Client
}

func clientFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("endpoint", "e", "http://localhost:8080", "Base URL of a running engine instance")
	cmd.Flags().StringP("caller", "c", "", "Caller identity (hex address)")
}

func newAPIClient(cmd *cobra.Command) *apiClient {
	endpoint, _ := cmd.Flags().GetString("endpoint")
	caller, _ := cmd.Flags().GetString("caller")

	return &apiClient{
		endpoint: endpoint,
		caller:   caller,
		http:     &http.Client{Timeout: requestTimeout},
	}
}

func (c *apiClient) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *apiClient) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *apiClient) patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

func (c *apiClient) do(ctx context.Context, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, payload)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.caller != "" {
		req.Header.Set("X-Caller-Identity", c.caller)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s (%s)", method, path, apiErr.Error, resp.Status)
		}
		return fmt.Errorf("%s %s: %s", method, path, resp.Status)
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
