package awsx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"

	errs "github.com/searchgate-io/searchgate-cli/pkg/errors"
)

// DefaultTrustPrincipal is the service principal that assumes the gateway's
// execution role
const DefaultTrustPrincipal = "bedrock-agentcore.amazonaws.com"

// iamRoleNameMax is the IAM limit on role name length
const iamRoleNameMax = 64

// RoleManager resolves and creates the gateway execution role
type RoleManager struct {
	iam *iam.Client
}

// NewRoleManager creates a RoleManager from the resolved AWS configuration
func NewRoleManager(cfg aws.Config) *RoleManager {
	return &RoleManager{iam: iam.NewFromConfig(cfg)}
}

// ResolveArn looks up an existing role by name and returns its ARN.
// Returns ErrRoleNotFound when no such role exists.
func (m *RoleManager) ResolveArn(ctx context.Context, roleName string) (string, error) {
	out, err := m.iam.GetRole(ctx, &iam.GetRoleInput{RoleName: aws.String(roleName)})
	if err != nil {
		var notFound *iamtypes.NoSuchEntityException
		if errors.As(err, &notFound) {
			return "", fmt.Errorf("role %q: %w", roleName, errs.ErrRoleNotFound)
		}
		return "", errs.WrapDeployError("look up role", roleName, err)
	}
	return aws.ToString(out.Role.Arn), nil
}

// CreateInvokeRole creates a role trusted by a single service principal,
// carrying one inline policy that grants only InvokeFunction on the given
// function and its versions/aliases. The role must not be broader than
// "invoke this one function".
func (m *RoleManager) CreateInvokeRole(ctx context.Context, roleName, lambdaArn, trustPrincipal string) (string, error) {
	if trustPrincipal == "" {
		trustPrincipal = DefaultTrustPrincipal
	}

	trustDoc, err := TrustPolicyDocument(trustPrincipal)
	if err != nil {
		return "", fmt.Errorf("failed to build trust policy: %w", err)
	}

	created, err := m.iam.CreateRole(ctx, &iam.CreateRoleInput{
		RoleName:                 aws.String(roleName),
		AssumeRolePolicyDocument: aws.String(trustDoc),
		Description:              aws.String("Execution role for the SearchGate AgentCore gateway"),
	})
	if err != nil {
		var exists *iamtypes.EntityAlreadyExistsException
		if errors.As(err, &exists) {
			// Reuse the existing role; the inline policy below is an
			// idempotent put.
			arn, rerr := m.ResolveArn(ctx, roleName)
			if rerr != nil {
				return "", rerr
			}
			if perr := m.putInvokePolicy(ctx, roleName, lambdaArn); perr != nil {
				return "", perr
			}
			return arn, nil
		}
		return "", errs.NewDeployError("create role", roleName, map[string]string{
			"RoleName":                 roleName,
			"AssumeRolePolicyDocument": trustDoc,
		}, err)
	}

	if err := m.putInvokePolicy(ctx, roleName, lambdaArn); err != nil {
		return "", err
	}
	return aws.ToString(created.Role.Arn), nil
}

func (m *RoleManager) putInvokePolicy(ctx context.Context, roleName, lambdaArn string) error {
	policyDoc, err := InvokePolicyDocument(lambdaArn)
	if err != nil {
		return fmt.Errorf("failed to build invoke policy: %w", err)
	}
	_, err = m.iam.PutRolePolicy(ctx, &iam.PutRolePolicyInput{
		RoleName:       aws.String(roleName),
		PolicyName:     aws.String("InvokeGatewayTarget"),
		PolicyDocument: aws.String(policyDoc),
	})
	if err != nil {
		return errs.NewDeployError("attach invoke policy to role", roleName, map[string]string{
			"RoleName":       roleName,
			"PolicyDocument": policyDoc,
		}, err)
	}
	return nil
}

// PolicyDocument is an IAM policy document
type PolicyDocument struct {
	Version   string            `json:"Version"`
	Statement []PolicyStatement `json:"Statement"`
}

// PolicyStatement is a single IAM policy statement
type PolicyStatement struct {
	Effect    string            `json:"Effect"`
	Principal map[string]string `json:"Principal,omitempty"`
	Action    []string          `json:"Action"`
	Resource  []string          `json:"Resource,omitempty"`
}

// TrustPolicyDocument builds the assume-role policy scoped to the single
// service principal that will assume the role
func TrustPolicyDocument(principal string) (string, error) {
	doc := PolicyDocument{
		Version: "2012-10-17",
		Statement: []PolicyStatement{{
			Effect:    "Allow",
			Principal: map[string]string{"Service": principal},
			Action:    []string{"sts:AssumeRole"},
		}},
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// InvokePolicyDocument builds the inline policy granting invoke on exactly
// one function, plus its versions and aliases
func InvokePolicyDocument(lambdaArn string) (string, error) {
	doc := PolicyDocument{
		Version: "2012-10-17",
		Statement: []PolicyStatement{{
			Effect:   "Allow",
			Action:   []string{"lambda:InvokeFunction"},
			Resource: []string{lambdaArn, lambdaArn + ":*"},
		}},
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// RoleNameForGateway derives a deterministic role name from a gateway name,
// restricted to the IAM role-name character set
func RoleNameForGateway(gatewayName string) string {
	var b strings.Builder
	for _, r := range gatewayName {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '+', r == '=', r == ',', r == '.', r == '@', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	name := b.String() + "-invoke-role"
	if len(name) > iamRoleNameMax {
		name = name[:iamRoleNameMax]
	}
	return name
}
