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
	"strings"

	"github.com/searchgate-io/searchgate-cli/internal/agentcore"
	"github.com/searchgate-io/searchgate-cli/internal/awsx"
	"github.com/searchgate-io/searchgate-cli/internal/config"
	"github.com/searchgate-io/searchgate-cli/internal/deploy"
	"github.com/searchgate-io/searchgate-cli/internal/schema"
	"github.com/searchgate-io/searchgate-cli/internal/tools"
	"github.com/searchgate-io/searchgate-cli/pkg/models"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func deployCmd() *cobra.Command {
	var (
		gatewayName    string
		lambdaArn      string
		targetName     string
		authorizerType string
		discoveryURL   string
		audience       string
		audienceFromGW bool
		roleArn        string
		roleName       string
		trustPrincipal string
		autoCreateRole bool
		interactive    bool
		schemaFile     string
		stackName      string
	)

	cmd := &cobra.Command{
		Use:     "deploy [lambda-arn]",
		Args:    usageArgs(cobra.MaximumNArgs(1)),
		Aliases: []string{"d", "up"},
		Short:   "Provision the gateway, execution role and Lambda target",
		Long: `Deploy looks up the gateway by name and creates it if absent, resolves or
creates the invocation role, attaches the search Lambda as an MCP target, and
persists everything it resolved to .deploy.env so later runs converge without
re-prompting. Re-running against existing resources is safe.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			state := loadDeployState()

			if len(args) > 0 && lambdaArn == "" {
				lambdaArn = args[0]
			}

			flags := deploy.Inputs{
				Region:                 getEffectiveRegion(state),
				StackName:              stackName,
				GatewayName:            gatewayName,
				LambdaArn:              lambdaArn,
				TargetName:             targetName,
				AuthorizerType:         models.AuthorizerType(strings.ToUpper(authorizerType)),
				DiscoveryURL:           discoveryURL,
				AudienceFromGatewayURL: audienceFromGW,
				RoleArn:                roleArn,
				RoleName:               roleName,
				TrustPrincipal:         trustPrincipal,
				AutoCreateRole:         autoCreateRole,
			}
			if audience != "" {
				for _, a := range strings.Split(audience, ",") {
					if a = strings.TrimSpace(a); a != "" {
						flags.Audience = append(flags.Audience, a)
					}
				}
			}

			isTTY := term.IsTerminal(int(os.Stdin.Fd()))
			in, err := deploy.Resolve(flags, state, deploy.TerminalPrompter{}, interactive, isTTY)
			if err != nil {
				return err
			}

			manifest, err := resolveManifest(schemaFile)
			if err != nil {
				return err
			}

			awsCfg, err := loadAWSConfig(ctx, in.Region)
			if err != nil {
				return wrapError("load AWS configuration", err)
			}
			identity, err := awsx.Preflight(ctx, awsCfg)
			if err != nil {
				return wrapError("verify AWS credentials", err)
			}
			fmt.Printf("Deploying as %s (account %s, region %s)\n", identity.Arn, identity.Account, in.Region)

			if state == nil {
				state, err = config.LoadDeployState(config.DeployStateFile)
				if err != nil {
					return wrapError("open deploy state", err)
				}
			}

			deployer := &deploy.Deployer{
				Gateways:  agentcore.NewClient(awsCfg),
				Roles:     awsx.NewRoleManager(awsCfg),
				Functions: awsx.NewFunctionChecker(awsCfg),
				State:     state,
				Manifest:  manifest,
				Out:       os.Stdout,
				ErrOut:    os.Stderr,
			}

			res, err := deployer.Run(ctx, in)
			if err != nil {
				printFailedMessage("Deployment failed")
				return err
			}

			printSuccessMessage("Deployment complete")
			fmt.Printf("Gateway: %s (%s)\n", res.Gateway.Name, res.Gateway.ID)
			if res.Gateway.URL != "" {
				fmt.Printf("URL:     %s\n", res.Gateway.URL)
			}
			if res.Target != nil {
				fmt.Printf("Target:  %s (%s)\n", res.Target.Name, res.Target.ID)
			}
			if res.AudiencePending {
				fmt.Println("Run 'searchgate deploy' again once the gateway is ready to finish audience reconciliation.")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&gatewayName, "gateway-name", "g", "", "Gateway name (idempotency key)")
	cmd.Flags().StringVarP(&lambdaArn, "lambda-arn", "l", "", "ARN of the search Lambda function")
	cmd.Flags().StringVar(&targetName, "target-name", "", "Gateway target name (default \""+deploy.DefaultTargetName+"\")")
	cmd.Flags().StringVar(&authorizerType, "authorizer", "", "Authorizer type (CUSTOM_JWT, AWS_IAM)")
	cmd.Flags().StringVar(&discoveryURL, "discovery-url", "", "OIDC discovery URL for the JWT authorizer")
	cmd.Flags().StringVar(&audience, "audience", "", "Comma-separated allowed audiences")
	cmd.Flags().BoolVar(&audienceFromGW, "audience-from-gateway-url", false, "Use the gateway URL as the allowed audience once known")
	cmd.Flags().StringVar(&roleArn, "role-arn", "", "Existing execution role ARN")
	cmd.Flags().StringVar(&roleName, "role-name", "", "Existing execution role name to resolve")
	cmd.Flags().StringVar(&trustPrincipal, "trust-principal", "", "Service principal trusted by an auto-created role")
	cmd.Flags().BoolVarP(&autoCreateRole, "auto-create-role", "a", false, "Create the execution role when it does not exist")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Prompt for missing values")
	cmd.Flags().StringVar(&schemaFile, "schema", "", "Path to a sanitized tool schema manifest (default: built-in)")
	cmd.Flags().StringVar(&stackName, "stack-name", "", "Name recorded for the backing stack")

	return cmd
}

// resolveManifest produces the tool schema to attach: the built-in manifest
// sanitized in process, or an operator-supplied file which must already be
// sanitized
func resolveManifest(path string) (*schema.Manifest, error) {
	if path == "" {
		m, err := tools.Manifest()
		if err != nil {
			return nil, wrapError("generate tool schema", err)
		}
		return schema.Sanitize(m), nil
	}

	m, err := schema.Load(path)
	if err != nil {
		return nil, err
	}
	// Reject unsupported keywords before any AWS call is made
	if _, err := m.ToolDefinitions(); err != nil {
		return nil, err
	}
	return m, nil
}
