package gatewaytest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// newTestServers stands up a token endpoint and a gateway endpoint, and
// returns a client wired to both
func newTestServers(t *testing.T, gatewayHandler http.HandlerFunc) *Client {
	t.Helper()

	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("token request method = %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "test-token-abc",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))
	t.Cleanup(tokenSrv.Close)

	gatewaySrv := httptest.NewServer(gatewayHandler)
	t.Cleanup(gatewaySrv.Close)

	client, err := NewClient(context.Background(), Config{
		GatewayURL:   gatewaySrv.URL,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		TokenURL:     tokenSrv.URL + "/oauth2/token",
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

func TestNewClientRequiresConfiguration(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"no gateway url", Config{ClientID: "a", ClientSecret: "b", TokenURL: "c"}},
		{"no client id", Config{GatewayURL: "https://gw", ClientSecret: "b", TokenURL: "c"}},
		{"no token url", Config{GatewayURL: "https://gw", ClientID: "a", ClientSecret: "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewClient(context.Background(), tt.cfg); err == nil {
				t.Error("NewClient() expected error")
			}
		})
	}
}

func TestListToolsSendsAuthorizedJSONRPC(t *testing.T) {
	var gotAuth string
	var gotBody rpcRequest
	client := newTestServers(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      gotBody.ID,
			"result": map[string]any{
				"tools": []map[string]string{
					{"name": "google-search___search", "description": "Web search"},
				},
			},
		})
	})

	toolList, err := client.ListTools(context.Background())
	if err != nil {
		t.Fatalf("ListTools() error = %v", err)
	}

	if gotAuth != "Bearer test-token-abc" {
		t.Errorf("Authorization = %q, want the bearer token from the credentials flow", gotAuth)
	}
	if gotBody.JSONRPC != "2.0" || gotBody.Method != "tools/list" {
		t.Errorf("request = %+v, want JSON-RPC 2.0 tools/list", gotBody)
	}
	if len(toolList) != 1 || toolList[0].Name != "google-search___search" {
		t.Errorf("tools = %+v", toolList)
	}
}

func TestCallToolPassesArguments(t *testing.T) {
	var gotParams map[string]any
	client := newTestServers(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string         `json:"method"`
			Params map[string]any `json:"params"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if req.Method == "tools/call" {
			gotParams = req.Params
		}
		json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0", "id": 1,
			"result": map[string]any{"content": []any{}},
		})
	})

	_, err := client.CallTool(context.Background(), "search", map[string]any{"q": "golang"})
	if err != nil {
		t.Fatalf("CallTool() error = %v", err)
	}
	if gotParams["name"] != "search" {
		t.Errorf("tool name = %v", gotParams["name"])
	}
	args, _ := gotParams["arguments"].(map[string]any)
	if args["q"] != "golang" {
		t.Errorf("arguments = %v", args)
	}
}

func TestCallSurfacesJSONRPCError(t *testing.T) {
	client := newTestServers(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0", "id": 1,
			"error": map[string]any{"code": -32601, "message": "method not found"},
		})
	})

	_, err := client.ListTools(context.Background())
	if err == nil {
		t.Fatal("expected JSON-RPC error to surface")
	}
	if !strings.Contains(err.Error(), "method not found") {
		t.Errorf("error = %v, should carry the server message", err)
	}
}

func TestCallSurfacesHTTPError(t *testing.T) {
	client := newTestServers(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	})

	_, err := client.ListTools(context.Background())
	if err == nil {
		t.Fatal("expected HTTP error to surface")
	}
	if !strings.Contains(err.Error(), "403") {
		t.Errorf("error = %v, should carry the status code", err)
	}
}

func TestRequestIDsIncrement(t *testing.T) {
	var ids []int
	client := newTestServers(t, func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		json.NewDecoder(r.Body).Decode(&req)
		ids = append(ids, req.ID)
		json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0", "id": req.ID, "result": map[string]any{"tools": []any{}},
		})
	})

	ctx := context.Background()
	client.Initialize(ctx)
	client.ListTools(ctx)
	client.CallTool(ctx, "search", nil)

	if len(ids) != 3 || ids[0] != 1 || ids[1] != 2 || ids[2] != 3 {
		t.Errorf("request ids = %v, want [1 2 3]", ids)
	}
}
