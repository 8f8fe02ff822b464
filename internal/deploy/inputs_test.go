package deploy

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/searchgate-io/searchgate-cli/internal/config"
	errs "github.com/searchgate-io/searchgate-cli/pkg/errors"
	"github.com/searchgate-io/searchgate-cli/pkg/models"
)

// scriptedPrompter returns canned answers and records that it was used
type scriptedPrompter struct {
	inputs   map[string]string
	selects  map[string]string
	confirms map[string]bool
	used     bool
}

func (p *scriptedPrompter) Input(label, defaultValue string) (string, error) {
	p.used = true
	if v, ok := p.inputs[label]; ok {
		return v, nil
	}
	return defaultValue, nil
}

func (p *scriptedPrompter) Select(label string, items []string, defaultIndex int) (string, error) {
	p.used = true
	if v, ok := p.selects[label]; ok {
		return v, nil
	}
	return items[defaultIndex], nil
}

func (p *scriptedPrompter) Confirm(label string, defaultValue bool) (bool, error) {
	p.used = true
	if v, ok := p.confirms[label]; ok {
		return v, nil
	}
	return defaultValue, nil
}

func stateWith(t *testing.T, values map[string]string) *config.DeployState {
	t.Helper()
	state, err := config.LoadDeployState(filepath.Join(t.TempDir(), ".deploy.env"))
	if err != nil {
		t.Fatal(err)
	}
	for k, v := range values {
		state.Set(k, v)
	}
	return state
}

// clearResolveEnv blanks every input variable so a test sees only the
// sources it sets up itself
func clearResolveEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		config.KeyRegion, config.KeyStackName, config.KeyLambdaArn,
		config.KeyGatewayName, config.KeyTargetName, config.KeyAuthorizerType,
		config.KeyDiscoveryURL, config.KeyAudience, config.KeyAudienceFromURL,
		config.KeyRoleName, config.KeyRoleArn, config.KeyTrustPrincipal,
	} {
		t.Setenv(key, "")
	}
}

func TestResolveFlagsBeatState(t *testing.T) {
	clearResolveEnv(t)
	state := stateWith(t, map[string]string{
		config.KeyGatewayName: "old-gateway",
		config.KeyLambdaArn:   "arn:aws:lambda:us-east-1:111122223333:function:old-fn",
		config.KeyRegion:      "eu-west-1",
	})

	flags := Inputs{
		GatewayName: "new-gateway",
		LambdaArn:   testLambdaArn,
		Region:      "us-east-1",
	}

	in, err := Resolve(flags, state, nil, false, false)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if in.GatewayName != "new-gateway" {
		t.Errorf("GatewayName = %q, flag should win over state", in.GatewayName)
	}
	if in.LambdaArn != testLambdaArn {
		t.Errorf("LambdaArn = %q, flag should win over state", in.LambdaArn)
	}
	if in.Region != "us-east-1" {
		t.Errorf("Region = %q, flag should win over state", in.Region)
	}
}

func TestResolveEnvironmentFillsGaps(t *testing.T) {
	clearResolveEnv(t)
	t.Setenv(config.KeyGatewayName, "env-gateway")
	t.Setenv(config.KeyLambdaArn, testLambdaArn)
	t.Setenv(config.KeyRegion, "us-east-1")
	t.Setenv(config.KeyDiscoveryURL, "https://issuer.example.com/.well-known/openid-configuration")
	t.Setenv(config.KeyAudience, "aud-one, aud-two")
	t.Setenv(config.KeyAudienceFromURL, "true")
	t.Setenv(config.KeyRoleName, "env-role")

	in, err := Resolve(Inputs{}, nil, nil, false, false)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if in.GatewayName != "env-gateway" {
		t.Errorf("GatewayName = %q, want value from environment", in.GatewayName)
	}
	if in.LambdaArn != testLambdaArn {
		t.Errorf("LambdaArn = %q, want value from environment", in.LambdaArn)
	}
	if in.Region != "us-east-1" {
		t.Errorf("Region = %q, want value from environment", in.Region)
	}
	if want := []string{"aud-one", "aud-two"}; !reflect.DeepEqual(in.Audience, want) {
		t.Errorf("Audience = %v, want %v", in.Audience, want)
	}
	if !in.AudienceFromGatewayURL {
		t.Error("AudienceFromGatewayURL not taken from environment")
	}
	if in.RoleName != "env-role" {
		t.Errorf("RoleName = %q, want value from environment", in.RoleName)
	}
}

func TestResolveEnvironmentPrecedence(t *testing.T) {
	clearResolveEnv(t)
	t.Setenv(config.KeyGatewayName, "env-gateway")
	t.Setenv(config.KeyLambdaArn, testLambdaArn)
	t.Setenv(config.KeyRegion, "us-east-1")

	state := stateWith(t, map[string]string{
		config.KeyGatewayName: "state-gateway",
		config.KeyStackName:   "state-stack",
	})

	in, err := Resolve(Inputs{GatewayName: "flag-gateway"}, state, nil, false, false)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if in.GatewayName != "flag-gateway" {
		t.Errorf("GatewayName = %q, flag should win over environment and state", in.GatewayName)
	}
	if in.Region != "us-east-1" {
		t.Errorf("Region = %q, want value from environment", in.Region)
	}
	// The state file still fills what neither flags nor environment set
	if in.StackName != "state-stack" {
		t.Errorf("StackName = %q, want value from state", in.StackName)
	}
}

func TestResolveEnvironmentSentinelsIgnored(t *testing.T) {
	clearResolveEnv(t)
	t.Setenv(config.KeyGatewayName, "None")
	t.Setenv(config.KeyLambdaArn, "null")

	_, err := Resolve(Inputs{Region: "us-east-1"}, nil, nil, false, false)
	if !errors.Is(err, errs.ErrMissingPrereqs) {
		t.Fatalf("error = %v, want ErrMissingPrereqs for sentinel-only environment", err)
	}
	var prereq *errs.PrereqError
	if !errors.As(err, &prereq) {
		t.Fatalf("error %v is not a PrereqError", err)
	}
	for _, key := range []string{config.KeyGatewayName, config.KeyLambdaArn} {
		found := false
		for _, m := range prereq.Missing {
			if m == key {
				found = true
			}
		}
		if !found {
			t.Errorf("missing list %v does not name %s", prereq.Missing, key)
		}
	}
}

func TestResolveStateFillsGaps(t *testing.T) {
	clearResolveEnv(t)
	state := stateWith(t, map[string]string{
		config.KeyGatewayName:    "stored-gateway",
		config.KeyLambdaArn:      testLambdaArn,
		config.KeyRegion:         "us-east-1",
		config.KeyAuthorizerType: "CUSTOM_JWT",
		config.KeyAudience:       "aud-one, aud-two",
	})

	in, err := Resolve(Inputs{}, state, nil, false, false)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if in.GatewayName != "stored-gateway" {
		t.Errorf("GatewayName = %q, want value from state", in.GatewayName)
	}
	if in.AuthorizerType != models.AuthorizerCustomJWT {
		t.Errorf("AuthorizerType = %q", in.AuthorizerType)
	}
	if want := []string{"aud-one", "aud-two"}; !reflect.DeepEqual(in.Audience, want) {
		t.Errorf("Audience = %v, want %v", in.Audience, want)
	}
}

func TestResolveDefaults(t *testing.T) {
	clearResolveEnv(t)
	flags := Inputs{
		GatewayName: "search-gateway",
		LambdaArn:   testLambdaArn,
		Region:      "us-east-1",
	}

	in, err := Resolve(flags, nil, nil, false, false)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if in.TargetName != DefaultTargetName {
		t.Errorf("TargetName = %q, want default %q", in.TargetName, DefaultTargetName)
	}
	if in.AuthorizerType != models.AuthorizerCustomJWT {
		t.Errorf("AuthorizerType = %q, want default CUSTOM_JWT", in.AuthorizerType)
	}
}

func TestResolveNonInteractiveMissingValues(t *testing.T) {
	clearResolveEnv(t)
	prompter := &scriptedPrompter{}

	// No TTY: missing values must become a structured error, not a prompt
	_, err := Resolve(Inputs{}, nil, prompter, false, false)
	if err == nil {
		t.Fatal("Resolve() expected error for missing required values")
	}
	if !errors.Is(err, errs.ErrMissingPrereqs) {
		t.Errorf("error = %v, want ErrMissingPrereqs", err)
	}
	var prereq *errs.PrereqError
	if !errors.As(err, &prereq) {
		t.Fatalf("error %v is not a PrereqError", err)
	}
	for _, key := range []string{config.KeyGatewayName, config.KeyLambdaArn, config.KeyRegion} {
		found := false
		for _, m := range prereq.Missing {
			if m == key {
				found = true
			}
		}
		if !found {
			t.Errorf("missing list %v does not name %s", prereq.Missing, key)
		}
	}
	if prereq.Example == "" {
		t.Error("PrereqError carries no example invocation")
	}
	if prompter.used {
		t.Error("prompter consulted without a TTY")
	}
}

func TestResolveInteractiveFillsValues(t *testing.T) {
	clearResolveEnv(t)
	prompter := &scriptedPrompter{
		inputs: map[string]string{
			"Gateway name":                "prompted-gateway",
			"Backend Lambda function ARN": testLambdaArn,
			"AWS region":                  "us-east-1",
			"OIDC discovery URL":          "https://issuer.example.com/.well-known/openid-configuration",
			"Execution role ARN or name (empty to auto-create)": "",
		},
		confirms: map[string]bool{
			"Use the gateway URL as the allowed audience": true,
		},
	}

	in, err := Resolve(Inputs{}, nil, prompter, false, true)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !prompter.used {
		t.Fatal("prompter not consulted despite TTY and missing values")
	}
	if in.GatewayName != "prompted-gateway" {
		t.Errorf("GatewayName = %q", in.GatewayName)
	}
	if !in.AudienceFromGatewayURL {
		t.Error("AudienceFromGatewayURL not taken from confirmation")
	}
	if !in.AutoCreateRole {
		t.Error("empty role reference should enable auto-creation")
	}
}

func TestResolveTTYWithCompleteFlagsSkipsPrompts(t *testing.T) {
	clearResolveEnv(t)
	prompter := &scriptedPrompter{}
	flags := Inputs{
		GatewayName: "search-gateway",
		LambdaArn:   testLambdaArn,
		Region:      "us-east-1",
	}

	if _, err := Resolve(flags, nil, prompter, false, true); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if prompter.used {
		t.Error("prompts shown although all required values were present")
	}
}

func TestResolveRejectsWrongClassARNs(t *testing.T) {
	tests := []struct {
		name  string
		flags Inputs
	}{
		{
			"role arn as lambda",
			Inputs{
				GatewayName: "g", Region: "us-east-1",
				LambdaArn: "arn:aws:iam::111122223333:role/some-role",
			},
		},
		{
			"lambda arn as role",
			Inputs{
				GatewayName: "g", Region: "us-east-1",
				LambdaArn: testLambdaArn,
				RoleArn:   testLambdaArn,
			},
		},
	}

	clearResolveEnv(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.flags, nil, nil, false, false)
			if !errors.Is(err, errs.ErrWrongResourceARN) {
				t.Errorf("Resolve() error = %v, want ErrWrongResourceARN", err)
			}
		})
	}
}

func TestCreationPrereqs(t *testing.T) {
	tests := []struct {
		name        string
		in          Inputs
		wantMissing int
	}{
		{
			"all present",
			Inputs{AutoCreateRole: true, AuthorizerType: models.AuthorizerCustomJWT,
				DiscoveryURL: "https://issuer.example.com", AudienceFromGatewayURL: true},
			0,
		},
		{
			"no role reference",
			Inputs{AuthorizerType: models.AuthorizerCustomJWT,
				DiscoveryURL: "https://issuer.example.com", AudienceFromGatewayURL: true},
			1,
		},
		{
			"jwt without discovery or audience",
			Inputs{AutoCreateRole: true, AuthorizerType: models.AuthorizerCustomJWT},
			2,
		},
		{
			"iam authorizer needs neither",
			Inputs{AutoCreateRole: true, AuthorizerType: models.AuthorizerAWSIAM},
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := creationPrereqs(tt.in); len(got) != tt.wantMissing {
				t.Errorf("creationPrereqs() = %v, want %d missing", got, tt.wantMissing)
			}
		})
	}
}

func TestSplitAudience(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b ", []string{"a", "b"}},
		{"a,,b", []string{"a", "b"}},
		{"", nil},
		{" , ", nil},
	}
	for _, tt := range tests {
		if got := splitAudience(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitAudience(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
