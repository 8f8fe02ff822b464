package deploy

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/searchgate-io/searchgate-cli/internal/awsx"
	"github.com/searchgate-io/searchgate-cli/internal/config"
	errs "github.com/searchgate-io/searchgate-cli/pkg/errors"
	"github.com/searchgate-io/searchgate-cli/pkg/models"
)

// DefaultTargetName is the fixed idempotency key for the search backend
// target
const DefaultTargetName = "google-search"

// Inputs is the fully-specified parameter set the workflow runs with,
// resolved once up front and passed explicitly to each stage
type Inputs struct {
	Region                 string
	StackName              string
	LambdaArn              string
	GatewayName            string
	TargetName             string
	AuthorizerType         models.AuthorizerType
	DiscoveryURL           string
	Audience               []string
	AudienceFromGatewayURL bool
	RoleArn                string
	RoleName               string
	TrustPrincipal         string
	AutoCreateRole         bool
}

// Prompter asks the operator for a value. Implementations must only be
// used when a terminal is attached.
type Prompter interface {
	Input(label, defaultValue string) (string, error)
	Select(label string, items []string, defaultIndex int) (string, error)
	Confirm(label string, defaultValue bool) (bool, error)
}

// Resolve produces the workflow inputs in precedence order: explicit
// flags > process environment > persisted state > interactive prompts.
// Prompting happens only when a terminal is attached; otherwise missing
// required values are accumulated and reported instead of hanging.
func Resolve(flags Inputs, state *config.DeployState, prompter Prompter, forceInteractive, isTTY bool) (Inputs, error) {
	in := flags

	// Environment variables share the state-file key names and sit between
	// explicit flags and the state file. Sentinels are normalized the same
	// way as on state-file load.
	mergeEnv := func(dst *string, key string) {
		if *dst == "" {
			*dst = config.NormalizeSentinel(os.Getenv(key))
		}
	}
	mergeEnv(&in.Region, config.KeyRegion)
	mergeEnv(&in.StackName, config.KeyStackName)
	mergeEnv(&in.LambdaArn, config.KeyLambdaArn)
	mergeEnv(&in.GatewayName, config.KeyGatewayName)
	mergeEnv(&in.TargetName, config.KeyTargetName)
	mergeEnv(&in.DiscoveryURL, config.KeyDiscoveryURL)
	mergeEnv(&in.RoleArn, config.KeyRoleArn)
	mergeEnv(&in.RoleName, config.KeyRoleName)
	mergeEnv(&in.TrustPrincipal, config.KeyTrustPrincipal)
	if in.AuthorizerType == "" {
		in.AuthorizerType = models.AuthorizerType(config.NormalizeSentinel(os.Getenv(config.KeyAuthorizerType)))
	}
	if len(in.Audience) == 0 {
		if aud := config.NormalizeSentinel(os.Getenv(config.KeyAudience)); aud != "" {
			in.Audience = splitAudience(aud)
		}
	}
	if !in.AudienceFromGatewayURL {
		if v, err := strconv.ParseBool(strings.ToLower(os.Getenv(config.KeyAudienceFromURL))); err == nil && v {
			in.AudienceFromGatewayURL = true
		}
	}

	if state != nil {
		merge := func(dst *string, key string) {
			if *dst == "" {
				*dst = state.Get(key)
			}
		}
		merge(&in.Region, config.KeyRegion)
		merge(&in.StackName, config.KeyStackName)
		merge(&in.LambdaArn, config.KeyLambdaArn)
		merge(&in.GatewayName, config.KeyGatewayName)
		merge(&in.TargetName, config.KeyTargetName)
		merge(&in.DiscoveryURL, config.KeyDiscoveryURL)
		merge(&in.RoleArn, config.KeyRoleArn)
		merge(&in.RoleName, config.KeyRoleName)
		merge(&in.TrustPrincipal, config.KeyTrustPrincipal)
		if in.AuthorizerType == "" {
			in.AuthorizerType = models.AuthorizerType(state.Get(config.KeyAuthorizerType))
		}
		if len(in.Audience) == 0 {
			if aud := state.Get(config.KeyAudience); aud != "" {
				in.Audience = splitAudience(aud)
			}
		}
		if !in.AudienceFromGatewayURL {
			in.AudienceFromGatewayURL = state.GetBool(config.KeyAudienceFromURL)
		}
	}

	interactive := isTTY && (forceInteractive || in.GatewayName == "" || in.LambdaArn == "")
	if interactive {
		if prompter == nil {
			return in, fmt.Errorf("interactive mode requested but no prompter available")
		}
		if err := promptInputs(&in, prompter); err != nil {
			return in, err
		}
	}

	if in.TargetName == "" {
		in.TargetName = DefaultTargetName
	}
	if in.AuthorizerType == "" {
		in.AuthorizerType = models.AuthorizerCustomJWT
	}

	if err := validateInputs(in); err != nil {
		return in, err
	}

	var missing []string
	if in.GatewayName == "" {
		missing = append(missing, config.KeyGatewayName)
	}
	if in.LambdaArn == "" {
		missing = append(missing, config.KeyLambdaArn)
	}
	if in.Region == "" {
		missing = append(missing, config.KeyRegion)
	}
	if len(missing) > 0 {
		return in, &errs.PrereqError{Missing: missing, Example: ExampleInvocation()}
	}
	return in, nil
}

// promptInputs fills the interactive values, pre-seeding each prompt with
// the currently resolved value so re-prompting just confirms defaults
func promptInputs(in *Inputs, prompter Prompter) error {
	var err error
	if in.GatewayName, err = prompter.Input("Gateway name", in.GatewayName); err != nil {
		return err
	}
	if in.LambdaArn, err = prompter.Input("Backend Lambda function ARN", in.LambdaArn); err != nil {
		return err
	}
	if in.Region, err = prompter.Input("AWS region", in.Region); err != nil {
		return err
	}

	authTypes := []string{string(models.AuthorizerCustomJWT), string(models.AuthorizerAWSIAM)}
	defaultIndex := 0
	if in.AuthorizerType == models.AuthorizerAWSIAM {
		defaultIndex = 1
	}
	authType, err := prompter.Select("Authorizer type", authTypes, defaultIndex)
	if err != nil {
		return err
	}
	in.AuthorizerType = models.AuthorizerType(authType)

	if in.AuthorizerType == models.AuthorizerCustomJWT {
		if in.DiscoveryURL, err = prompter.Input("OIDC discovery URL", in.DiscoveryURL); err != nil {
			return err
		}
		if in.AudienceFromGatewayURL, err = prompter.Confirm("Use the gateway URL as the allowed audience", in.AudienceFromGatewayURL); err != nil {
			return err
		}
		if !in.AudienceFromGatewayURL {
			audience, err := prompter.Input("Allowed audience (comma-separated)", strings.Join(in.Audience, ","))
			if err != nil {
				return err
			}
			in.Audience = splitAudience(audience)
		}
	}

	if in.RoleArn == "" {
		roleRef, err := prompter.Input("Execution role ARN or name (empty to auto-create)", in.RoleName)
		if err != nil {
			return err
		}
		switch {
		case roleRef == "":
			in.AutoCreateRole = true
		case awsx.IsARN(roleRef):
			in.RoleArn = roleRef
		default:
			in.RoleName = roleRef
		}
	}
	return nil
}

// validateInputs rejects identifiers that belong to the wrong resource
// class before any remote call can surface an opaque error for them
func validateInputs(in Inputs) error {
	if in.LambdaArn != "" && awsx.IsARN(in.LambdaArn) && !awsx.IsLambdaFunctionARN(in.LambdaArn) {
		return fmt.Errorf("%w: %q was supplied as the backend function but is not a Lambda function ARN",
			errs.ErrWrongResourceARN, in.LambdaArn)
	}
	if in.RoleArn != "" && !awsx.IsRoleARN(in.RoleArn) {
		return fmt.Errorf("%w: %q was supplied as the execution role but is not an IAM role ARN",
			errs.ErrWrongResourceARN, in.RoleArn)
	}
	return nil
}

// creationPrereqs lists the values gateway creation still needs. Evaluated
// only when no gateway of the requested name exists; an existing gateway
// skips role and authorizer requirements entirely.
func creationPrereqs(in Inputs) []string {
	var missing []string
	if in.RoleArn == "" && in.RoleName == "" && !in.AutoCreateRole {
		missing = append(missing, config.KeyRoleArn+" (or --role-name, or --auto-create-role)")
	}
	if in.AuthorizerType == models.AuthorizerCustomJWT {
		if in.DiscoveryURL == "" {
			missing = append(missing, config.KeyDiscoveryURL)
		}
		if len(in.Audience) == 0 && !in.AudienceFromGatewayURL {
			missing = append(missing, config.KeyAudience+" (or --audience-from-gateway-url)")
		}
	}
	return missing
}

// ExampleInvocation returns a complete deploy command the operator can
// adapt when required values are missing
func ExampleInvocation() string {
	return "searchgate deploy --gateway-name google-search \\\n" +
		"    --lambda-arn arn:aws:lambda:us-east-1:111122223333:function:google-search-mcp \\\n" +
		"    --discovery-url https://cognito-idp.us-east-1.amazonaws.com/<pool-id>/.well-known/openid-configuration \\\n" +
		"    --audience-from-gateway-url --auto-create-role"
}

func splitAudience(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
