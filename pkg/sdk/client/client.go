// Package client is a small Go client for the tool gateway, used by the voice
// agent bridge and by operators scripting against the API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bturcanu/voicehook/pkg/types"
	"github.com/google/uuid"
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Tools returns the published tool definitions as raw function-definition
// objects, ready to hand to an agent's settings.
func (c *Client) Tools(ctx context.Context) ([]json.RawMessage, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/v1/tools", nil)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Tools []json.RawMessage `json:"tools"`
	}
	if err := c.doJSON(req, &resp); err != nil {
		return nil, err
	}
	return resp.Tools, nil
}

// Invoke calls one tool. args is encoded as the JSON argument object; nil sends {}.
// Validation failures come back as *types.APIError with code VALIDATION_ERROR.
func (c *Client) Invoke(ctx context.Context, tool string, args any) (*types.ToolCallResponse, error) {
	if args == nil {
		args = map[string]any{}
	}
	body, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("encode arguments: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/v1/tools/"+url.PathEscape(tool), body)
	if err != nil {
		return nil, err
	}
	var resp types.ToolCallResponse
	if err := c.doJSON(req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// EndpointHealth probes every configured backend through the gateway.
func (c *Client) EndpointHealth(ctx context.Context) (*types.EndpointHealthResponse, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/v1/endpoints/health", nil)
	if err != nil {
		return nil, err
	}
	var resp types.EndpointHealthResponse
	if err := c.doJSON(req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("X-Request-Id", uuid.NewString())
	return req, nil
}

func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr types.APIError
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Message != "" {
			apiErr.HTTPCode = resp.StatusCode
			return &apiErr
		}
		return fmt.Errorf("http status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
