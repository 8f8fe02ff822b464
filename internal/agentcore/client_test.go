package agentcore

import (
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	errs "github.com/searchgate-io/searchgate-cli/pkg/errors"
)

func TestSelectMatch(t *testing.T) {
	t.Run("no match means create", func(t *testing.T) {
		id, err := selectMatch("search-gateway", nil)
		if err != nil || id != "" {
			t.Errorf("selectMatch() = %q, %v; want empty, nil", id, err)
		}
	})

	t.Run("single match is canonical", func(t *testing.T) {
		id, err := selectMatch("search-gateway", []string{"gw-1"})
		if err != nil || id != "gw-1" {
			t.Errorf("selectMatch() = %q, %v; want gw-1, nil", id, err)
		}
	})

	t.Run("several matches are refused with all ids", func(t *testing.T) {
		_, err := selectMatch("search-gateway", []string{"gw-1", "gw-2"})
		if !errors.Is(err, errs.ErrGatewayAmbiguous) {
			t.Fatalf("error = %v, want ErrGatewayAmbiguous", err)
		}
		for _, id := range []string{"gw-1", "gw-2"} {
			if !strings.Contains(err.Error(), id) {
				t.Errorf("error does not name colliding id %s: %v", id, err)
			}
		}
	})
}

func TestNormStripsSentinels(t *testing.T) {
	tests := []struct {
		in   *string
		want string
	}{
		{nil, ""},
		{aws.String("None"), ""},
		{aws.String("null"), ""},
		{aws.String("https://gw.example.com/mcp"), "https://gw.example.com/mcp"},
	}
	for _, tt := range tests {
		if got := norm(tt.in); got != tt.want {
			t.Errorf("norm(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
