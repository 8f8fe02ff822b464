// Copyright (C) 2026 Ioannis Torakis <john.torakis@gmail.com>
// SPDX-License-Identifier: Elastic-2.0
//
// Licensed under the Elastic License 2.0.
// You may obtain a copy of the license at:
// https://www.elastic.co/licensing/elastic-license
//
// Use, modification, and redistribution permitted under the terms of the license,
// except for providing this software as a commercial service or product.

package agentcore

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	bac "github.com/aws/aws-sdk-go-v2/service/bedrockagentcorecontrol"
	bactypes "github.com/aws/aws-sdk-go-v2/service/bedrockagentcorecontrol/types"
	"github.com/google/uuid"

	"github.com/searchgate-io/searchgate-cli/internal/config"
	"github.com/searchgate-io/searchgate-cli/internal/schema"
	errs "github.com/searchgate-io/searchgate-cli/pkg/errors"
	"github.com/searchgate-io/searchgate-cli/pkg/models"
)

const listPageSize = 50

// Client wraps the AgentCore control plane with the lookup-or-create
// operations the deployment workflow needs
type Client struct {
	api *bac.Client
}

// NewClient creates a new control-plane client
func NewClient(cfg aws.Config) *Client {
	return &Client{api: bac.NewFromConfig(cfg)}
}

// CreateGatewayParams are the inputs for gateway creation
type CreateGatewayParams struct {
	Name           string
	RoleArn        string
	AuthorizerType models.AuthorizerType
	DiscoveryURL   string
	Audience       []string
	AllowedClients []string
	Description    string
}

// CreateTargetParams are the inputs for target attachment
type CreateTargetParams struct {
	GatewayID string
	Name      string
	LambdaArn string
	Manifest  *schema.Manifest
}

// FindGatewayByName queries for a gateway whose name matches exactly.
// Returns nil, nil when absent. More than one match is an error naming the
// colliding ids; the automation refuses to guess which one is canonical.
func (c *Client) FindGatewayByName(ctx context.Context, name string) (*models.Gateway, error) {
	var matches []string
	var nextToken *string
	for {
		out, err := c.api.ListGateways(ctx, &bac.ListGatewaysInput{
			MaxResults: aws.Int32(listPageSize),
			NextToken:  nextToken,
		})
		if err != nil {
			return nil, errs.WrapDeployError("list gateways", name, err)
		}
		for _, item := range out.Items {
			if aws.ToString(item.Name) == name {
				matches = append(matches, aws.ToString(item.GatewayId))
			}
		}
		if out.NextToken == nil {
			break
		}
		nextToken = out.NextToken
	}

	id, err := selectMatch(name, matches)
	if err != nil || id == "" {
		return nil, err
	}
	return c.GetGateway(ctx, id)
}

// selectMatch makes the lookup-or-create decision for a set of exact-name
// matches: none means create, one is canonical, several is refused with all
// colliding ids named.
func selectMatch(name string, ids []string) (string, error) {
	switch len(ids) {
	case 0:
		return "", nil
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("%w: %q matches gateways %s", errs.ErrGatewayAmbiguous, name, strings.Join(ids, ", "))
	}
}

// GetGateway reads the full gateway detail, including the generated URL
func (c *Client) GetGateway(ctx context.Context, id string) (*models.Gateway, error) {
	out, err := c.api.GetGateway(ctx, &bac.GetGatewayInput{
		GatewayIdentifier: aws.String(id),
	})
	if err != nil {
		return nil, errs.WrapDeployError("get gateway", id, err)
	}

	gw := &models.Gateway{
		ID:             norm(out.GatewayId),
		Name:           norm(out.Name),
		URL:            norm(out.GatewayUrl),
		ARN:            norm(out.GatewayArn),
		RoleArn:        norm(out.RoleArn),
		Status:         models.GatewayStatus(out.Status),
		AuthorizerType: models.AuthorizerType(out.AuthorizerType),
	}
	if authCfg, ok := out.AuthorizerConfiguration.(*bactypes.AuthorizerConfigurationMemberCustomJWTAuthorizer); ok {
		gw.DiscoveryURL = norm(authCfg.Value.DiscoveryUrl)
		gw.Audience = authCfg.Value.AllowedAudience
		gw.AllowedClients = authCfg.Value.AllowedClients
	}
	return gw, nil
}

// CreateGateway creates a gateway and captures its identifiers with a
// second, separate lookup: the create response is deliberately not trusted
// for the fields downstream stages need.
func (c *Client) CreateGateway(ctx context.Context, p CreateGatewayParams) (*models.Gateway, error) {
	input := &bac.CreateGatewayInput{
		Name:           aws.String(p.Name),
		RoleArn:        aws.String(p.RoleArn),
		ProtocolType:   bactypes.GatewayProtocolTypeMcp,
		AuthorizerType: bactypes.AuthorizerType(p.AuthorizerType),
		ClientToken:    aws.String(uuid.NewString()),
	}
	if p.Description != "" {
		input.Description = aws.String(p.Description)
	}
	if p.AuthorizerType == models.AuthorizerCustomJWT {
		input.AuthorizerConfiguration = &bactypes.AuthorizerConfigurationMemberCustomJWTAuthorizer{
			Value: bactypes.CustomJWTAuthorizerConfiguration{
				DiscoveryUrl:    aws.String(p.DiscoveryURL),
				AllowedAudience: p.Audience,
				AllowedClients:  p.AllowedClients,
			},
		}
	}

	if _, err := c.api.CreateGateway(ctx, input); err != nil {
		return nil, errs.NewDeployError("create gateway", p.Name, input, err)
	}

	gw, err := c.FindGatewayByName(ctx, p.Name)
	if err != nil {
		return nil, err
	}
	if gw == nil {
		return nil, errs.NewDeployError("create gateway", p.Name, nil,
			fmt.Errorf("gateway not visible after creation"))
	}
	return gw, nil
}

// SetGatewayAudience replaces the allowed audience with an absolute value,
// preserving the discovery URL and allowed clients. The control plane's
// update is a full replacement, so the gateway's current identity fields
// ride along unchanged.
func (c *Client) SetGatewayAudience(ctx context.Context, gw *models.Gateway, audience []string) error {
	input := &bac.UpdateGatewayInput{
		GatewayIdentifier: aws.String(gw.ID),
		Name:              aws.String(gw.Name),
		RoleArn:           aws.String(gw.RoleArn),
		ProtocolType:      bactypes.GatewayProtocolTypeMcp,
		AuthorizerType:    bactypes.AuthorizerTypeCustomJwt,
		AuthorizerConfiguration: &bactypes.AuthorizerConfigurationMemberCustomJWTAuthorizer{
			Value: bactypes.CustomJWTAuthorizerConfiguration{
				DiscoveryUrl:    aws.String(gw.DiscoveryURL),
				AllowedAudience: audience,
				AllowedClients:  gw.AllowedClients,
			},
		},
	}
	if _, err := c.api.UpdateGateway(ctx, input); err != nil {
		return errs.NewDeployError("update gateway authorizer", gw.Name, input, err)
	}
	return nil
}

// FindTargetByName queries for a target of the gateway matching name
// exactly. Returns nil, nil when absent; first match wins.
func (c *Client) FindTargetByName(ctx context.Context, gatewayID, name string) (*models.GatewayTarget, error) {
	var nextToken *string
	for {
		out, err := c.api.ListGatewayTargets(ctx, &bac.ListGatewayTargetsInput{
			GatewayIdentifier: aws.String(gatewayID),
			MaxResults:        aws.Int32(listPageSize),
			NextToken:         nextToken,
		})
		if err != nil {
			return nil, errs.WrapDeployError("list gateway targets", gatewayID, err)
		}
		for _, item := range out.Items {
			if aws.ToString(item.Name) == name {
				return &models.GatewayTarget{
					ID:        norm(item.TargetId),
					Name:      norm(item.Name),
					GatewayID: gatewayID,
					Status:    string(item.Status),
				}, nil
			}
		}
		if out.NextToken == nil {
			break
		}
		nextToken = out.NextToken
	}
	return nil, nil
}

// ListTargets returns all targets attached to a gateway
func (c *Client) ListTargets(ctx context.Context, gatewayID string) ([]*models.GatewayTarget, error) {
	var targets []*models.GatewayTarget
	var nextToken *string
	for {
		out, err := c.api.ListGatewayTargets(ctx, &bac.ListGatewayTargetsInput{
			GatewayIdentifier: aws.String(gatewayID),
			MaxResults:        aws.Int32(listPageSize),
			NextToken:         nextToken,
		})
		if err != nil {
			return nil, errs.WrapDeployError("list gateway targets", gatewayID, err)
		}
		for _, item := range out.Items {
			targets = append(targets, &models.GatewayTarget{
				ID:        norm(item.TargetId),
				Name:      norm(item.Name),
				GatewayID: gatewayID,
				Status:    string(item.Status),
			})
		}
		if out.NextToken == nil {
			return targets, nil
		}
		nextToken = out.NextToken
	}
}

// CreateLambdaTarget attaches the backend function to the gateway with the
// sanitized tool schema inline. Credentials delegate to the gateway's own
// execution role; no separate provider is issued for the target.
func (c *Client) CreateLambdaTarget(ctx context.Context, p CreateTargetParams) (*models.GatewayTarget, error) {
	defs, err := p.Manifest.ToolDefinitions()
	if err != nil {
		return nil, fmt.Errorf("tool schema rejected before submission: %w", err)
	}

	input := &bac.CreateGatewayTargetInput{
		GatewayIdentifier: aws.String(p.GatewayID),
		Name:              aws.String(p.Name),
		ClientToken:       aws.String(uuid.NewString()),
		TargetConfiguration: &bactypes.TargetConfigurationMemberMcp{
			Value: &bactypes.McpTargetConfigurationMemberLambda{
				Value: bactypes.McpLambdaTargetConfiguration{
					LambdaArn: aws.String(p.LambdaArn),
					ToolSchema: &bactypes.ToolSchemaMemberInlinePayload{
						Value: defs,
					},
				},
			},
		},
		CredentialProviderConfigurations: []bactypes.CredentialProviderConfiguration{
			{CredentialProviderType: bactypes.CredentialProviderTypeGatewayIamRole},
		},
	}

	out, err := c.api.CreateGatewayTarget(ctx, input)
	if err != nil {
		return nil, errs.NewDeployError("create gateway target", p.Name, input, err)
	}
	return &models.GatewayTarget{
		ID:        norm(out.TargetId),
		Name:      p.Name,
		GatewayID: p.GatewayID,
		LambdaArn: p.LambdaArn,
		Status:    string(out.Status),
	}, nil
}

// norm dereferences and strips string sentinels at the ingress boundary
func norm(s *string) string {
	return config.NormalizeSentinel(aws.ToString(s))
}
