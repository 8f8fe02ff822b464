// Copyright (C) 2026 Ioannis Torakis <john.torakis@gmail.com>
// SPDX-License-Identifier: Elastic-2.0
//
// Licensed under the Elastic License 2.0.
// You may obtain a copy of the license at:
// https://www.elastic.co/licensing/elastic-license
//
// Use, modification, and redistribution permitted under the terms of the license,
// except for providing this software as a commercial service or product.

package main

import (
	"fmt"
	"os"

	"github.com/searchgate-io/searchgate-cli/internal/config"
	"github.com/searchgate-io/searchgate-cli/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	// Version information set by ldflags during build
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"

	regionFlag   string
	outputFormat string
	debugMode    bool

	rootCmd = &cobra.Command{
		Use:   "searchgate",
		Short: "Google Custom Search as an MCP tool, deployable to AgentCore Gateway",
		Long: `SearchGate wraps the Google Custom Search API as a Model Context Protocol
tool and provisions it behind an Amazon Bedrock AgentCore Gateway: it creates
the gateway, the invocation role and the Lambda target idempotently, and can
serve the same tool locally over stdio or HTTP for development.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if err := config.Init(); err != nil {
				fmt.Fprintf(os.Stderr, "Error initializing config: %v\n", err)
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&regionFlag, "region", "r", "", "AWS region")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "Output format (table, json, yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Log HTTP requests and responses")

	// Flag parse failures are usage errors, not runtime failures
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errors.NewUsageError("%s", err)
	})

	// So are unrecognized subcommands
	rootCmd.Args = func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return errors.NewUsageError("unknown command %q for %q", args[0], cmd.CommandPath())
		}
		return nil
	}

	rootCmd.AddCommand(
		deployCmd(),
		statusCmd(),
		schemaCmd(),
		serveCmd(),
		searchCmd(),
		gatewayCmd(),
		configCmd(),
		versionCmd(),
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.IsUsage(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("SearchGate CLI %s\n", Version)
			fmt.Printf("Commit: %s\n", CommitHash)
			fmt.Printf("Built: %s\n", BuildDate)
		},
	}
}
