// Copyright (C) 2026 Ioannis Torakis <john.torakis@gmail.com>
// SPDX-License-Identifier: Elastic-2.0
//
// Licensed under the Elastic License 2.0.
// You may obtain a copy of the license at:
// https://www.elastic.co/licensing/elastic-license
//
// Use, modification, and redistribution permitted under the terms of the license,
// except for providing this software as a commercial service or product.

package deploy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/searchgate-io/searchgate-cli/internal/agentcore"
	"github.com/searchgate-io/searchgate-cli/internal/awsx"
	"github.com/searchgate-io/searchgate-cli/internal/config"
	"github.com/searchgate-io/searchgate-cli/internal/schema"
	errs "github.com/searchgate-io/searchgate-cli/pkg/errors"
	"github.com/searchgate-io/searchgate-cli/pkg/models"
)

// Poll budgets for gateway readiness. The interval is fixed; the timeout
// depends on the call site.
const (
	DefaultPollInterval    = 2 * time.Second
	DefaultReadyTimeout    = 90 * time.Second
	PostCreateReadyTimeout = 180 * time.Second
	FallbackReadyTimeout   = 60 * time.Second
)

// AudiencePlaceholder is the allowed-audience value a gateway is created
// with when the real audience is its own URL, which only exists after
// creation. Reconciliation replaces it once the URL is known.
const AudiencePlaceholder = "urn:searchgate:pending-gateway-url"

// ControlPlane is the subset of gateway control-plane operations the
// workflow calls. Find operations return nil, nil when the resource is
// absent.
type ControlPlane interface {
	FindGatewayByName(ctx context.Context, name string) (*models.Gateway, error)
	GetGateway(ctx context.Context, id string) (*models.Gateway, error)
	CreateGateway(ctx context.Context, p agentcore.CreateGatewayParams) (*models.Gateway, error)
	SetGatewayAudience(ctx context.Context, gw *models.Gateway, audience []string) error
	FindTargetByName(ctx context.Context, gatewayID, name string) (*models.GatewayTarget, error)
	CreateLambdaTarget(ctx context.Context, p agentcore.CreateTargetParams) (*models.GatewayTarget, error)
}

// RoleService resolves or creates the gateway execution role
type RoleService interface {
	ResolveArn(ctx context.Context, roleName string) (string, error)
	CreateInvokeRole(ctx context.Context, roleName, lambdaArn, trustPrincipal string) (string, error)
}

// FunctionValidator checks the backend function before it is referenced
type FunctionValidator interface {
	ValidateFunction(ctx context.Context, functionArn string) error
}

// Deployer runs the provisioning workflow: lookup-or-create the gateway,
// resolve the execution role, attach the target, reconcile the authorizer
// audience, and persist resolved state. Execution is strictly sequential;
// the only suspension points are the readiness polls.
type Deployer struct {
	Gateways  ControlPlane
	Roles     RoleService
	Functions FunctionValidator
	State     *config.DeployState
	Manifest  *schema.Manifest

	Out    io.Writer
	ErrOut io.Writer

	// Sleep and the poll budgets are injectable for tests
	Sleep             func(time.Duration)
	PollInterval      time.Duration
	PostCreateTimeout time.Duration
	FallbackTimeout   time.Duration
}

// Result summarizes what a run did
type Result struct {
	Gateway         *models.Gateway
	Target          *models.GatewayTarget
	RoleArn         string
	CreatedGateway  bool
	CreatedTarget   bool
	CreatedRole     bool
	AudiencePatched bool
	AudiencePending bool
}

// Run executes the workflow for the resolved inputs. Creation failures are
// fatal and never retried; readiness timeouts and audience patch failures
// are soft and leave the run rerunnable.
func (d *Deployer) Run(ctx context.Context, in Inputs) (*Result, error) {
	res := &Result{}

	if d.Functions != nil {
		if err := d.Functions.ValidateFunction(ctx, in.LambdaArn); err != nil {
			return nil, err
		}
	}

	gw, err := d.Gateways.FindGatewayByName(ctx, in.GatewayName)
	if err != nil {
		return nil, err
	}

	if gw != nil {
		d.infof("Gateway %q already exists (id %s); attaching target only", gw.Name, gw.ID)
		res.RoleArn = gw.RoleArn
	} else {
		if missing := creationPrereqs(in); len(missing) > 0 {
			return nil, &errs.PrereqError{Missing: missing, Example: ExampleInvocation()}
		}

		roleArn, createdRole, err := d.resolveRole(ctx, in)
		if err != nil {
			return nil, err
		}
		res.RoleArn, res.CreatedRole = roleArn, createdRole

		audience := in.Audience
		if in.AudienceFromGatewayURL && in.AuthorizerType == models.AuthorizerCustomJWT {
			audience = []string{AudiencePlaceholder}
		}

		d.infof("Creating gateway %q", in.GatewayName)
		gw, err = d.Gateways.CreateGateway(ctx, agentcore.CreateGatewayParams{
			Name:           in.GatewayName,
			RoleArn:        roleArn,
			AuthorizerType: in.AuthorizerType,
			DiscoveryURL:   in.DiscoveryURL,
			Audience:       audience,
			Description:    "SearchGate MCP gateway",
		})
		if err != nil {
			return nil, err
		}
		res.CreatedGateway = true
		d.infof("Created gateway %s", gw.ID)

		if in.AudienceFromGatewayURL && in.AuthorizerType == models.AuthorizerCustomJWT {
			if ready, ok := d.waitReady(ctx, gw.ID, d.postCreateTimeout()); ok {
				gw = ready
				d.patchAudience(ctx, gw, res)
			} else {
				d.notef("gateway not ready within %s; audience reconciliation deferred", d.postCreateTimeout())
				if ready != nil {
					gw = ready
				}
			}
		}
	}
	res.Gateway = gw

	target, err := d.Gateways.FindTargetByName(ctx, gw.ID, in.TargetName)
	if err != nil {
		return nil, err
	}
	if target != nil {
		// Existing targets are reused as-is; later runs never mutate a
		// target that might be in active use.
		d.infof("Target %q already attached (id %s)", target.Name, target.ID)
	} else {
		if d.Manifest == nil {
			return nil, fmt.Errorf("no tool schema available for target creation")
		}
		d.infof("Attaching target %q", in.TargetName)
		target, err = d.Gateways.CreateLambdaTarget(ctx, agentcore.CreateTargetParams{
			GatewayID: gw.ID,
			Name:      in.TargetName,
			LambdaArn: in.LambdaArn,
			Manifest:  d.Manifest,
		})
		if err != nil {
			return nil, err
		}
		res.CreatedTarget = true
		d.infof("Attached target %s", target.ID)
	}
	res.Target = target

	// Fallback reconciliation: the inline attempt may have lacked the URL
	// or the role ARN; try once more at the very end. Gateways without a
	// JWT authorizer have no audience to reconcile, even when a stale
	// AUDIENCE_USE_GATEWAY_URL survives in the state file.
	if in.AudienceFromGatewayURL && gw.AuthorizerType == models.AuthorizerCustomJWT && !res.AudiencePatched {
		if ready, ok := d.waitReady(ctx, gw.ID, d.fallbackTimeout()); ok {
			res.Gateway = ready
			d.patchAudience(ctx, ready, res)
		}
		if !res.AudiencePatched {
			res.AudiencePending = true
			d.notef("audience still set to placeholder; re-run once the gateway is ready to finish reconciliation")
		}
	}

	if err := d.persist(in, res); err != nil {
		return res, err
	}
	return res, nil
}

func (d *Deployer) resolveRole(ctx context.Context, in Inputs) (arn string, created bool, err error) {
	if in.RoleArn != "" {
		return in.RoleArn, false, nil
	}
	if in.RoleName != "" {
		arn, err = d.Roles.ResolveArn(ctx, in.RoleName)
		if err == nil {
			return arn, false, nil
		}
		if !errors.Is(err, errs.ErrRoleNotFound) || !in.AutoCreateRole {
			return "", false, err
		}
		d.infof("Creating execution role %q", in.RoleName)
		arn, err = d.Roles.CreateInvokeRole(ctx, in.RoleName, in.LambdaArn, in.TrustPrincipal)
		return arn, err == nil, err
	}

	roleName := awsx.RoleNameForGateway(in.GatewayName)
	d.infof("Creating execution role %q", roleName)
	arn, err = d.Roles.CreateInvokeRole(ctx, roleName, in.LambdaArn, in.TrustPrincipal)
	return arn, err == nil, err
}

// waitReady polls the gateway detail until it is READY with a non-empty
// URL, at a fixed interval, up to the timeout. Timing out is a soft
// condition: the caller decides whether to proceed without the URL.
func (d *Deployer) waitReady(ctx context.Context, id string, timeout time.Duration) (*models.Gateway, bool) {
	deadline := time.Now().Add(timeout)
	var last *models.Gateway
	for {
		gw, err := d.Gateways.GetGateway(ctx, id)
		if err != nil {
			d.notef("gateway status query failed: %v", err)
		} else {
			last = gw
			if gw.ReadyWithURL() {
				return gw, true
			}
			if gw.Status == models.GatewayFailed {
				d.notef("gateway %s entered FAILED state", id)
				return gw, false
			}
		}
		if ctx.Err() != nil || !time.Now().Before(deadline) {
			return last, false
		}
		d.sleep(d.pollInterval())
	}
}

// patchAudience sets the allowed audience to exactly the gateway URL. It is
// an absolute "set", safe to attempt twice, and is never sent to a gateway
// without a JWT authorizer or while the URL or the role ARN is still
// unknown. Failures are reported but non-fatal.
func (d *Deployer) patchAudience(ctx context.Context, gw *models.Gateway, res *Result) {
	if gw.AuthorizerType != models.AuthorizerCustomJWT || gw.URL == "" || gw.RoleArn == "" {
		return
	}
	if len(gw.Audience) == 1 && gw.Audience[0] == gw.URL {
		res.AudiencePatched = true
		return
	}
	if err := d.Gateways.SetGatewayAudience(ctx, gw, []string{gw.URL}); err != nil {
		d.notef("audience update failed (non-fatal): %v", err)
		return
	}
	gw.Audience = []string{gw.URL}
	res.AudiencePatched = true
	d.infof("Authorizer audience set to %s", gw.URL)
}

// persist rewrites the deployment state record in full
func (d *Deployer) persist(in Inputs, res *Result) error {
	if d.State == nil {
		return nil
	}
	s := d.State
	s.Set(config.KeyRegion, in.Region)
	s.Set(config.KeyStackName, in.StackName)
	s.Set(config.KeyLambdaArn, in.LambdaArn)
	s.Set(config.KeyGatewayName, in.GatewayName)
	s.Set(config.KeyTargetName, in.TargetName)
	s.Set(config.KeyTrustPrincipal, in.TrustPrincipal)
	s.SetBool(config.KeyAudienceFromURL, in.AudienceFromGatewayURL)
	s.Set(config.KeyRoleName, in.RoleName)
	s.Set(config.KeyRoleArn, res.RoleArn)
	if gw := res.Gateway; gw != nil {
		s.Set(config.KeyGatewayID, gw.ID)
		s.Set(config.KeyGatewayURL, gw.URL)
		s.Set(config.KeyGatewayArn, gw.ARN)
		s.Set(config.KeyAuthorizerType, string(gw.AuthorizerType))
		s.Set(config.KeyDiscoveryURL, gw.DiscoveryURL)
		s.Set(config.KeyAudience, strings.Join(gw.Audience, ","))
	}
	if res.Target != nil {
		s.Set(config.KeyTargetID, res.Target.ID)
	}
	return s.Save()
}

func (d *Deployer) infof(format string, args ...any) {
	fmt.Fprintf(d.out(), format+"\n", args...)
}

// notef reports a non-fatal condition; nothing is silently discarded
func (d *Deployer) notef(format string, args ...any) {
	fmt.Fprintf(d.errOut(), "NOTE: "+format+"\n", args...)
}

func (d *Deployer) out() io.Writer {
	if d.Out != nil {
		return d.Out
	}
	return os.Stdout
}

func (d *Deployer) errOut() io.Writer {
	if d.ErrOut != nil {
		return d.ErrOut
	}
	return os.Stderr
}

func (d *Deployer) sleep(interval time.Duration) {
	if d.Sleep != nil {
		d.Sleep(interval)
		return
	}
	time.Sleep(interval)
}

func (d *Deployer) pollInterval() time.Duration {
	if d.PollInterval > 0 {
		return d.PollInterval
	}
	return DefaultPollInterval
}

func (d *Deployer) postCreateTimeout() time.Duration {
	if d.PostCreateTimeout > 0 {
		return d.PostCreateTimeout
	}
	return PostCreateReadyTimeout
}

func (d *Deployer) fallbackTimeout() time.Duration {
	if d.FallbackTimeout > 0 {
		return d.FallbackTimeout
	}
	return FallbackReadyTimeout
}
