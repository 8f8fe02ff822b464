package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/fatih/color"
	"github.com/searchgate-io/searchgate-cli/internal/awsx"
	"github.com/searchgate-io/searchgate-cli/internal/config"
	"github.com/searchgate-io/searchgate-cli/internal/debug"
	"github.com/searchgate-io/searchgate-cli/internal/search"
	"github.com/searchgate-io/searchgate-cli/pkg/errors"
	"github.com/searchgate-io/searchgate-cli/pkg/models"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Output formats
const (
	OutputFormatJSON  = "json"
	OutputFormatYAML  = "yaml"
	OutputFormatTable = "table"
)

// getEffectiveOutputFormat returns the output format to use, checking flag -> config -> default
func getEffectiveOutputFormat() string {
	if outputFormat != "" {
		return outputFormat
	}
	cfg := config.GetConfig()
	if cfg.Defaults.OutputFormat != "" {
		return cfg.Defaults.OutputFormat
	}
	return OutputFormatTable
}

// getEffectiveRegion returns the AWS region to use, checking flag -> environment -> deploy state -> config
func getEffectiveRegion(state *config.DeployState) string {
	if regionFlag != "" {
		return regionFlag
	}
	if region := config.NormalizeSentinel(os.Getenv(config.KeyRegion)); region != "" {
		return region
	}
	if state != nil {
		if region := state.Get(config.KeyRegion); region != "" {
			return region
		}
	}
	return config.GetConfig().Defaults.Region
}

// loadAWSConfig loads AWS credentials and region, installing the debug
// transport when --debug is set
func loadAWSConfig(ctx context.Context, region string) (aws.Config, error) {
	cfg, err := awsx.LoadConfig(ctx, region)
	if err != nil {
		return aws.Config{}, err
	}
	if debugMode {
		cfg.HTTPClient = &http.Client{Transport: &debug.DebugTransport{Transport: http.DefaultTransport}}
	}
	return cfg, nil
}

// loadDeployState reads .deploy.env from the working directory; a missing
// file is not an error, just empty state
func loadDeployState() *config.DeployState {
	state, err := config.LoadDeployState(config.DeployStateFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to read %s: %v\n", config.DeployStateFile, err)
		return nil
	}
	return state
}

// newSearchClient builds a Custom Search client from config and environment
func newSearchClient() (*search.Client, error) {
	cfg := config.GetConfig()
	searchCfg := search.Config{
		APIKey: cfg.Search.APIKey,
		CX:     cfg.Search.CX,
	}
	if debugMode {
		searchCfg.HTTPClient = &http.Client{Transport: &debug.DebugTransport{Transport: http.DefaultTransport}}
	}
	return search.NewClient(searchCfg)
}

// formatOutput handles the common output formatting logic used across commands
func formatOutput(data interface{}, format string) error {
	switch format {
	case OutputFormatJSON:
		jsonData, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal to JSON: %w", err)
		}
		fmt.Println(string(jsonData))

	case OutputFormatYAML:
		yamlData, err := yaml.Marshal(data)
		if err != nil {
			return fmt.Errorf("failed to marshal to YAML: %w", err)
		}
		fmt.Print(string(yamlData))

	default:
		return fmt.Errorf("unsupported output format for generic data: %s", format)
	}
	return nil
}

// printSuccessMessage prints a success message with green checkmark
func printSuccessMessage(message string, args ...interface{}) {
	color.Green("✓ "+message, args...)
}

// printFailedMessage prints a failure message with red cross
func printFailedMessage(message string, args ...interface{}) {
	color.Red("× "+message, args...)
}

// formatGatewayStatus returns a colored string representation of gateway status
func formatGatewayStatus(status models.GatewayStatus) string {
	switch status {
	case models.GatewayReady:
		return color.GreenString(string(status))
	case models.GatewayCreating, models.GatewayUpdating:
		return color.YellowString(string(status))
	case models.GatewayFailed:
		return color.RedString(string(status))
	default:
		return color.WhiteString(string(status))
	}
}

// usageArgs wraps a positional-argument validator so arity violations exit
// with the usage status, like flag parse failures
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return errors.NewUsageError("%s", err)
		}
		return nil
	}
}

// wrapError wraps an error with context information
func wrapError(operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to %s: %w", operation, err)
}
