package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/searchgate-io/searchgate-cli/internal/agentcore"
	"github.com/searchgate-io/searchgate-cli/internal/config"
	"github.com/searchgate-io/searchgate-cli/internal/table"
	"github.com/searchgate-io/searchgate-cli/pkg/errors"
	"github.com/searchgate-io/searchgate-cli/pkg/models"
	"github.com/spf13/cobra"
)

func statusCmd() *cobra.Command {
	var (
		gatewayName string
		wait        bool
	)

	cmd := &cobra.Command{
		Use:     "status [gateway-name]",
		Args:    usageArgs(cobra.MaximumNArgs(1)),
		Aliases: []string{"s", "st"},
		Short:   "Show the deployed gateway and its targets",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			state := loadDeployState()

			name := gatewayName
			if name == "" && len(args) > 0 {
				name = args[0]
			}
			if name == "" && state != nil {
				name = state.Get(config.KeyGatewayName)
			}
			if name == "" {
				name = config.GetConfig().Defaults.GatewayName
			}
			if name == "" {
				return fmt.Errorf("no gateway to inspect. Provide --gateway-name or run 'searchgate deploy' first")
			}

			region := getEffectiveRegion(state)
			awsCfg, err := loadAWSConfig(ctx, region)
			if err != nil {
				return wrapError("load AWS configuration", err)
			}
			client := agentcore.NewClient(awsCfg)

			gw, err := client.FindGatewayByName(ctx, name)
			if err != nil {
				return wrapError("look up gateway", err)
			}
			if gw == nil {
				return fmt.Errorf("gateway %q: %w", name, errors.ErrGatewayNotFound)
			}

			if wait && !gw.ReadyWithURL() {
				gw, err = waitForReady(cmd, client, gw)
				if err != nil {
					return err
				}
			}

			format := getEffectiveOutputFormat()
			if format != OutputFormatTable {
				return formatOutput(gw, format)
			}

			fmt.Println(color.CyanString("Gateway:"))
			table.RenderKeyValue(os.Stdout, [][2]string{
				{"Name", gw.Name},
				{"ID", gw.ID},
				{"Status", formatGatewayStatus(gw.Status)},
				{"URL", gw.URL},
				{"ARN", gw.ARN},
				{"Role ARN", gw.RoleArn},
				{"Authorizer", string(gw.AuthorizerType)},
				{"Audience", strings.Join(gw.Audience, ", ")},
			})

			targets, err := client.ListTargets(ctx, gw.ID)
			if err != nil {
				return wrapError("list gateway targets", err)
			}

			fmt.Println("\n" + color.CyanString("Targets:"))
			if len(targets) == 0 {
				fmt.Println("  No targets attached")
				return nil
			}
			rows := make([]table.Row, 0, len(targets))
			for _, t := range targets {
				rows = append(rows, table.Row{t.Name, t.ID, t.Status})
			}
			table.RenderTable(table.TableOptions{
				Headers: []string{"Name", "ID", "Status"},
				SortBy:  0,
				GroupBy: -1,
			}, rows)

			return nil
		},
	}

	cmd.Flags().StringVarP(&gatewayName, "gateway-name", "g", "", "Gateway name (defaults to the deployed one)")
	cmd.Flags().BoolVarP(&wait, "wait", "w", false, "Poll until the gateway is ready")

	return cmd
}

func waitForReady(cmd *cobra.Command, client *agentcore.Client, gw *models.Gateway) (*models.Gateway, error) {
	ctx := cmd.Context()
	deadline := time.Now().Add(90 * time.Second)
	for {
		if gw.ReadyWithURL() {
			return gw, nil
		}
		if gw.Status == models.GatewayFailed {
			return gw, fmt.Errorf("gateway %s: %w", gw.ID, errors.ErrGatewayNotReady)
		}
		if time.Now().After(deadline) {
			return gw, fmt.Errorf("gateway %s still %s: %w", gw.ID, gw.Status, errors.ErrGatewayNotReady)
		}
		fmt.Printf("Gateway %s is %s, waiting...\n", gw.ID, gw.Status)
		select {
		case <-ctx.Done():
			return gw, ctx.Err()
		case <-time.After(2 * time.Second):
		}
		refreshed, err := client.GetGateway(ctx, gw.ID)
		if err != nil {
			return gw, wrapError("poll gateway status", err)
		}
		gw = refreshed
	}
}
