package main

import (
	"context"
	"testing"

	"github.com/aws/aws-lambda-go/lambdacontext"
)

func TestToolNameStripsTargetPrefix(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"prefixed", "google-search___search", "search"},
		{"unprefixed", "search", "search"},
		{"empty", "", ""},
		{"multiple delimiters", "a___b___search", "search"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := lambdacontext.NewContext(context.Background(), &lambdacontext.LambdaContext{
				ClientContext: lambdacontext.ClientContext{
					Custom: map[string]string{toolNameKey: tt.in},
				},
			})
			if got := toolName(ctx); got != tt.want {
				t.Errorf("toolName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestToolNameWithoutLambdaContext(t *testing.T) {
	if got := toolName(context.Background()); got != "" {
		t.Errorf("toolName() = %q, want empty without lambda context", got)
	}
}

func TestHandleRejectsUnknownTool(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "key")
	t.Setenv("GOOGLE_CX", "cx")
	h, err := newHandler()
	if err != nil {
		t.Fatal(err)
	}

	ctx := lambdacontext.NewContext(context.Background(), &lambdacontext.LambdaContext{
		ClientContext: lambdacontext.ClientContext{
			Custom: map[string]string{toolNameKey: "google-search___unknown"},
		},
	})
	if _, err := h.Handle(ctx, map[string]any{"q": "golang"}); err == nil {
		t.Error("Handle() expected error for unknown tool")
	}
}

func TestHandleUnwrapsInvocationEnvelope(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "key")
	t.Setenv("GOOGLE_CX", "cx")
	h, err := newHandler()
	if err != nil {
		t.Fatal(err)
	}

	// Direct invocations wrap name and arguments instead of using the
	// client context
	event := map[string]any{
		"name":      "google-search___nonexistent",
		"arguments": map[string]any{"q": "golang"},
	}
	_, err = h.Handle(context.Background(), event)
	if err == nil {
		t.Fatal("Handle() expected error for unknown wrapped tool")
	}
	if want := `unknown tool "nonexistent"`; err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}
