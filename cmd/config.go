package main

import (
	"fmt"

	"github.com/searchgate-io/searchgate-cli/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Aliases: []string{"cfg"},
		Short:   "Manage configuration",
		Long:    "Manage SearchGate CLI configuration",
	}

	cmd.AddCommand(
		configShowCmd(),
		configSetCmd(),
	)

	return cmd
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "show",
		Aliases: []string{"get", "view"},
		Short:   "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetConfig()

			// Mask the API key for security
			displayCfg := *cfg
			if displayCfg.Search.APIKey != "" {
				displayCfg.Search.APIKey = "***MASKED***"
			}

			yamlData, err := yaml.Marshal(displayCfg)
			if err != nil {
				return wrapError("marshal config", err)
			}

			fmt.Print(string(yamlData))
			return nil
		},
	}
}

func configSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set configuration values",
		Long:  "Set configuration values",
	}

	cmd.AddCommand(
		configSetSearchCredentialsCmd(),
		configSetRegionCmd(),
		configSetDefaultGatewayCmd(),
		configSetOutputFormatCmd(),
	)

	return cmd
}

func configSetSearchCredentialsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search-credentials [api-key] [cx]",
		Short: "Set the Custom Search API key and engine id",
		Args:  usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.SetSearchCredentials(args[0], args[1]); err != nil {
				return wrapError("set search credentials", err)
			}
			fmt.Println("Search credentials saved")
			return nil
		},
	}
}

func configSetRegionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "region [region]",
		Short: "Set the default AWS region",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.SetRegion(args[0]); err != nil {
				return wrapError("set region", err)
			}
			fmt.Printf("Default region set to: %s\n", args[0])
			return nil
		},
	}
}

func configSetDefaultGatewayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "default-gateway [name]",
		Short: "Set the default gateway name",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.SetDefaultGateway(args[0]); err != nil {
				return wrapError("set default gateway", err)
			}
			fmt.Printf("Default gateway set to: %s\n", args[0])
			return nil
		},
	}
}

func configSetOutputFormatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "output-format [format]",
		Short: "Set default output format (table, json, yaml)",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := args[0]
			if format != OutputFormatTable && format != OutputFormatJSON && format != OutputFormatYAML {
				return fmt.Errorf("invalid output format: %s. Must be one of: table, json, yaml", format)
			}

			if err := config.SetOutputFormat(format); err != nil {
				return wrapError("save config", err)
			}
			fmt.Printf("Default output format set to: %s\n", format)
			return nil
		},
	}
}
