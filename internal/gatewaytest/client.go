package gatewaytest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Config holds everything needed to call a deployed gateway
type Config struct {
	GatewayURL   string
	ClientID     string
	ClientSecret string
	TokenURL     string
	Scopes       []string

	// BaseTransport, when set, is installed under the oauth2 transport
	// (used for request tracing)
	BaseTransport http.RoundTripper
}

// Client is a minimal MCP-over-HTTP client for end-to-end smoke tests
// against a deployed gateway. Tokens come from the OAuth client-credentials
// flow the gateway's authorizer expects.
type Client struct {
	httpClient *http.Client
	url        string
	nextID     int
}

// NewClient creates a smoke-test client. The returned client refreshes its
// access token transparently.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.GatewayURL == "" {
		return nil, fmt.Errorf("gateway URL not configured")
	}
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.TokenURL == "" {
		return nil, fmt.Errorf("client credentials not configured (set COGNITO_CLIENT_ID, COGNITO_CLIENT_SECRET and COGNITO_TOKEN_URL)")
	}

	creds := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		Scopes:       cfg.Scopes,
	}
	if cfg.BaseTransport != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Transport: cfg.BaseTransport})
	}

	httpClient := creds.Client(ctx)
	httpClient.Timeout = 30 * time.Second

	return &Client{
		httpClient: httpClient,
		url:        cfg.GatewayURL,
		nextID:     1,
	}, nil
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// ToolInfo is one entry of a tools/list response
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Initialize performs the MCP initialize handshake
func (c *Client) Initialize(ctx context.Context) (json.RawMessage, error) {
	return c.call(ctx, "initialize", map[string]any{
		"protocolVersion": "2025-03-26",
		"capabilities":    map[string]any{},
		"clientInfo": map[string]any{
			"name":    "searchgate",
			"version": "smoke-test",
		},
	})
}

// ListTools lists the tools the gateway exposes
func (c *Client) ListTools(ctx context.Context) ([]ToolInfo, error) {
	result, err := c.call(ctx, "tools/list", nil)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Tools []ToolInfo `json:"tools"`
	}
	if err := json.Unmarshal(result, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode tools/list result: %w", err)
	}
	return payload.Tools, nil
}

// CallTool invokes one tool through the gateway
func (c *Client) CallTool(ctx context.Context, name string, arguments map[string]any) (json.RawMessage, error) {
	return c.call(ctx, "tools/call", map[string]any{
		"name":      name,
		"arguments": arguments,
	})
}

func (c *Client) call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      c.nextID,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s request: %w", method, err)
	}
	c.nextID++

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%s failed with status %d: %s", method, resp.StatusCode, string(respBody))
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	if rpcResp.Error != nil {
		return nil, fmt.Errorf("%s returned JSON-RPC error %d: %s", method, rpcResp.Error.Code, rpcResp.Error.Message)
	}
	return rpcResp.Result, nil
}
