package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/hupe1980/dialogmesh/core"
)

// Client posts turns to a running server.
type Client struct {
	// Endpoint is the full URL of the process route, e.g. "http://localhost:8080/process".
	Endpoint string
	// HTTPClient defaults to http.DefaultClient.
	HTTPClient *http.Client
}

// NewClient creates a Client for endpoint.
func NewClient(endpoint string) *Client {
	return &Client{Endpoint: endpoint}
}

// Process sends req and returns the turn result.
func (c *Client) Process(ctx context.Context, req core.Request) (core.Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return core.Response{}, fmt.Errorf("encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return core.Response{}, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	hc := c.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(httpReq)
	if err != nil {
		return core.Response{}, fmt.Errorf("post %s: %w", c.Endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return core.Response{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var e ErrorResponse
		if json.Unmarshal(raw, &e) == nil && e.Error != "" {
			return core.Response{}, fmt.Errorf("server error (%d): %s", resp.StatusCode, e.Error)
		}
		return core.Response{}, fmt.Errorf("server error (%d)", resp.StatusCode)
	}
	var out ProcessResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return core.Response{}, fmt.Errorf("decode response: %w", err)
	}
	return out.Response, nil
}

var _ TurnProcessor = (*Client)(nil)
