package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestNormalizeSentinel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"None", ""},
		{"null", ""},
		{"  None  ", ""},
		{"", ""},
		{"  ", ""},
		{"none", "none"}, // only the exact sentinels are mapped
		{"NULL", "NULL"},
		{"my-gateway", "my-gateway"},
		{"  padded  ", "padded"},
	}

	for _, tt := range tests {
		if got := NormalizeSentinel(tt.in); got != tt.want {
			t.Errorf("NormalizeSentinel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadDeployStateMissingFile(t *testing.T) {
	state, err := LoadDeployState(filepath.Join(t.TempDir(), ".deploy.env"))
	if err != nil {
		t.Fatalf("LoadDeployState() error = %v", err)
	}
	if state.Get(KeyGatewayName) != "" {
		t.Error("empty state should return empty values")
	}
	if len(state.Keys()) != 0 {
		t.Errorf("empty state has keys: %v", state.Keys())
	}
}

func TestLoadDeployStateNormalizesSentinels(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".deploy.env")
	content := "GATEWAY_ID=None\nGATEWAY_URL=null\nGATEWAY_NAME=search-gateway\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	state, err := LoadDeployState(path)
	if err != nil {
		t.Fatalf("LoadDeployState() error = %v", err)
	}
	if got := state.Get(KeyGatewayID); got != "" {
		t.Errorf("GATEWAY_ID = %q, want empty (sentinel)", got)
	}
	if got := state.Get(KeyGatewayURL); got != "" {
		t.Errorf("GATEWAY_URL = %q, want empty (sentinel)", got)
	}
	if got := state.Get(KeyGatewayName); got != "search-gateway" {
		t.Errorf("GATEWAY_NAME = %q, want search-gateway", got)
	}
}

func TestDeployStateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".deploy.env")

	state, err := LoadDeployState(path)
	if err != nil {
		t.Fatal(err)
	}
	state.Set(KeyGatewayName, "search-gateway")
	state.Set(KeyGatewayID, "gw-123abc")
	state.Set(KeyRegion, "us-east-1")
	state.SetBool(KeyAudienceFromURL, true)
	if err := state.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	reloaded, err := LoadDeployState(path)
	if err != nil {
		t.Fatalf("reload error = %v", err)
	}
	if got := reloaded.Get(KeyGatewayName); got != "search-gateway" {
		t.Errorf("GATEWAY_NAME = %q after round trip", got)
	}
	if got := reloaded.Get(KeyGatewayID); got != "gw-123abc" {
		t.Errorf("GATEWAY_ID = %q after round trip", got)
	}
	if !reloaded.GetBool(KeyAudienceFromURL) {
		t.Error("AUDIENCE_USE_GATEWAY_URL flag lost in round trip")
	}

	// Keys() is sorted lexicographically
	want := []string{"AUDIENCE_USE_GATEWAY_URL", "AWS_REGION", "GATEWAY_ID", "GATEWAY_NAME"}
	if got := reloaded.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

func TestDeployStateSetEmptyUnsets(t *testing.T) {
	state := &DeployState{values: map[string]string{KeyGatewayURL: "https://example.com/mcp"}}

	state.Set(KeyGatewayURL, "None")
	if got := state.Get(KeyGatewayURL); got != "" {
		t.Errorf("setting a sentinel should unset, got %q", got)
	}
	if len(state.Keys()) != 0 {
		t.Errorf("key not removed: %v", state.Keys())
	}
}

func TestDeployStateGetBool(t *testing.T) {
	state := &DeployState{values: map[string]string{
		"A": "true",
		"B": "TRUE",
		"C": "1",
		"D": "false",
		"E": "yes", // not a ParseBool value
	}}

	for key, want := range map[string]bool{"A": true, "B": true, "C": true, "D": false, "E": false, "F": false} {
		if got := state.GetBool(key); got != want {
			t.Errorf("GetBool(%q) = %v, want %v", key, got, want)
		}
	}
}
