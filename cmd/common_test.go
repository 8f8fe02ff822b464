package main

import (
	"testing"

	"github.com/searchgate-io/searchgate-cli/pkg/errors"
	"github.com/spf13/cobra"
)

func TestUsageArgsMapsArityViolations(t *testing.T) {
	validate := usageArgs(cobra.MaximumNArgs(1))
	cmd := &cobra.Command{Use: "status"}

	err := validate(cmd, []string{"one", "two"})
	if err == nil {
		t.Fatal("expected error for too many arguments")
	}
	if !errors.IsUsage(err) {
		t.Errorf("error = %v, want a usage error", err)
	}

	if err := validate(cmd, []string{"one"}); err != nil {
		t.Errorf("error = %v for a valid argument count", err)
	}
}

func TestUnknownCommandIsUsageError(t *testing.T) {
	err := rootCmd.Args(rootCmd, []string{"bogus"})
	if err == nil {
		t.Fatal("expected error for unknown subcommand")
	}
	if !errors.IsUsage(err) {
		t.Errorf("error = %v, want a usage error", err)
	}

	if err := rootCmd.Args(rootCmd, nil); err != nil {
		t.Errorf("error = %v for a bare invocation", err)
	}
}
