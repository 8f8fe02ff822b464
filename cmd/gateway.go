package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/searchgate-io/searchgate-cli/internal/config"
	"github.com/searchgate-io/searchgate-cli/internal/debug"
	"github.com/searchgate-io/searchgate-cli/internal/gatewaytest"
	"github.com/searchgate-io/searchgate-cli/internal/tools"
	"github.com/spf13/cobra"
)

func gatewayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gateway",
		Short: "Operate on the deployed gateway",
	}

	cmd.AddCommand(gatewayTestCmd())

	return cmd
}

func gatewayTestCmd() *cobra.Command {
	var (
		gatewayURL string
		query      string
		skipCall   bool
	)

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Smoke-test the deployed gateway end to end",
		Long: `Test obtains an access token with the OAuth client-credentials flow, lists
the tools the gateway exposes, and invokes the search tool once. Connection
settings come from .deploy.env and the COGNITO_* environment variables.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			state := loadDeployState()

			cfg := gatewaytest.Config{
				GatewayURL:   gatewayURL,
				ClientID:     os.Getenv("COGNITO_CLIENT_ID"),
				ClientSecret: os.Getenv("COGNITO_CLIENT_SECRET"),
				TokenURL:     os.Getenv("COGNITO_TOKEN_URL"),
			}
			if cfg.GatewayURL == "" {
				cfg.GatewayURL = os.Getenv("GATEWAY_URL")
			}
			if cfg.GatewayURL == "" && state != nil {
				cfg.GatewayURL = state.Get(config.KeyGatewayURL)
			}
			if debugMode {
				cfg.BaseTransport = &debug.DebugTransport{Transport: http.DefaultTransport}
			}

			client, err := gatewaytest.NewClient(ctx, cfg)
			if err != nil {
				return err
			}

			if _, err := client.Initialize(ctx); err != nil {
				printFailedMessage("Initialize failed")
				return err
			}
			printSuccessMessage("Initialized MCP session")

			toolList, err := client.ListTools(ctx)
			if err != nil {
				printFailedMessage("tools/list failed")
				return err
			}
			printSuccessMessage("Gateway exposes %d tool(s)", len(toolList))
			for _, t := range toolList {
				fmt.Printf("  - %s: %s\n", t.Name, t.Description)
			}

			if skipCall {
				return nil
			}

			// Gateway targets prefix tool names with "<target>___"
			toolName := tools.SearchToolName
			for _, t := range toolList {
				if strings.HasSuffix(t.Name, tools.SearchToolName) {
					toolName = t.Name
					break
				}
			}

			result, err := client.CallTool(ctx, toolName, map[string]any{
				"q":   query,
				"num": 3,
			})
			if err != nil {
				printFailedMessage("tools/call failed")
				return err
			}

			var pretty any
			if err := json.Unmarshal(result, &pretty); err == nil {
				out, _ := json.MarshalIndent(pretty, "", "  ")
				fmt.Println(string(out))
			} else {
				fmt.Println(string(result))
			}
			printSuccessMessage("Gateway smoke test passed")
			return nil
		},
	}

	cmd.Flags().StringVar(&gatewayURL, "url", "", "Gateway MCP endpoint (defaults to deployed state)")
	cmd.Flags().StringVarP(&query, "query", "q", "what is model context protocol", "Query for the tool invocation")
	cmd.Flags().BoolVar(&skipCall, "list-only", false, "Only list tools, skip the tool invocation")

	return cmd
}
