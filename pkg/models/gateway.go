// Copyright (C) 2026 Ioannis Torakis <john.torakis@gmail.com>
// SPDX-License-Identifier: Elastic-2.0
//
// Licensed under the Elastic License 2.0.
// You may obtain a copy of the license at:
// https://www.elastic.co/licensing/elastic-license
//
// Use, modification, and redistribution permitted under the terms of the license,
// except for providing this software as a commercial service or product.

package models

// AuthorizerType represents the inbound authorization scheme of a gateway
type AuthorizerType string

// Authorizer types accepted by the AgentCore control plane
const (
	AuthorizerCustomJWT AuthorizerType = "CUSTOM_JWT"
	AuthorizerAWSIAM    AuthorizerType = "AWS_IAM"
)

// GatewayStatus represents the lifecycle status reported by the control plane
type GatewayStatus string

// Gateway statuses the CLI reacts to
const (
	GatewayCreating GatewayStatus = "CREATING"
	GatewayUpdating GatewayStatus = "UPDATING"
	GatewayReady    GatewayStatus = "READY"
	GatewayFailed   GatewayStatus = "FAILED"
)

// Gateway represents an AgentCore Gateway resource
type Gateway struct {
	ID             string         `json:"id" yaml:"id"`
	Name           string         `json:"name" yaml:"name"`
	URL            string         `json:"url,omitempty" yaml:"url,omitempty"`
	ARN            string         `json:"arn,omitempty" yaml:"arn,omitempty"`
	RoleArn        string         `json:"role_arn,omitempty" yaml:"role_arn,omitempty"`
	Status         GatewayStatus  `json:"status" yaml:"status"`
	AuthorizerType AuthorizerType `json:"authorizer_type,omitempty" yaml:"authorizer_type,omitempty"`
	DiscoveryURL   string         `json:"discovery_url,omitempty" yaml:"discovery_url,omitempty"`
	Audience       []string       `json:"audience,omitempty" yaml:"audience,omitempty"`
	AllowedClients []string       `json:"allowed_clients,omitempty" yaml:"allowed_clients,omitempty"`
}

// ReadyWithURL reports whether the gateway reached READY and its generated
// URL is available. Status alone is not sufficient; URL provisioning can lag
// the status transition.
func (g *Gateway) ReadyWithURL() bool {
	return g != nil && g.Status == GatewayReady && g.URL != ""
}

// GatewayTarget represents a backend binding attached to a gateway. The
// target name acts as the idempotency key: at most one target per
// (gateway, name) pair.
type GatewayTarget struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	GatewayID string `json:"gateway_id" yaml:"gateway_id"`
	LambdaArn string `json:"lambda_arn,omitempty" yaml:"lambda_arn,omitempty"`
	Status    string `json:"status,omitempty" yaml:"status,omitempty"`
}

// Identity describes the AWS principal the CLI is running as
type Identity struct {
	Account string `json:"account"`
	Arn     string `json:"arn"`
}
