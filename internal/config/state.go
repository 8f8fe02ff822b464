package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DeployStateFile is the per-project deployment state file, written in the
// working directory as flat key=value pairs so it can also be sourced by
// shell tooling.
const DeployStateFile = ".deploy.env"

// Keys persisted in the deployment state file
const (
	KeyRegion          = "AWS_REGION"
	KeyStackName       = "STACK_NAME"
	KeyLambdaArn       = "LAMBDA_ARN"
	KeyGatewayName     = "GATEWAY_NAME"
	KeyGatewayID       = "GATEWAY_ID"
	KeyGatewayURL      = "GATEWAY_URL"
	KeyGatewayArn      = "GATEWAY_ARN"
	KeyTargetID        = "TARGET_ID"
	KeyTargetName      = "TARGET_NAME"
	KeyAuthorizerType  = "AUTHORIZER_TYPE"
	KeyDiscoveryURL    = "DISCOVERY_URL"
	KeyAudience        = "AUDIENCE"
	KeyAudienceFromURL = "AUDIENCE_USE_GATEWAY_URL"
	KeyRoleName        = "GATEWAY_ROLE_NAME"
	KeyRoleArn         = "GATEWAY_ROLE_ARN"
	KeyTrustPrincipal  = "GATEWAY_TRUST_PRINCIPAL"
)

// NormalizeSentinel maps the literal placeholder strings "None" and "null"
// (artifacts of text-mode query output from earlier tooling) to empty, so
// "is this set?" checks behave correctly. Applied on ingress; nothing
// downstream should see a sentinel.
func NormalizeSentinel(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "None" || trimmed == "null" {
		return ""
	}
	return trimmed
}

// DeployState is the cached identifier/input record of previous runs
type DeployState struct {
	path   string
	values map[string]string
}

// LoadDeployState reads the state file at path. A missing file yields an
// empty state, not an error. Sentinel values are normalized on load.
func LoadDeployState(path string) (*DeployState, error) {
	state := &DeployState{
		path:   path,
		values: map[string]string{},
	}

	values, err := godotenv.Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return state, nil
		}
		return nil, fmt.Errorf("failed to read deploy state %s: %w", path, err)
	}

	for key, value := range values {
		if normalized := NormalizeSentinel(value); normalized != "" {
			state.values[key] = normalized
		}
	}
	return state, nil
}

// Get returns the normalized value for key, or empty when unset
func (s *DeployState) Get(key string) string {
	return s.values[key]
}

// GetBool interprets the stored value as a boolean flag
func (s *DeployState) GetBool(key string) bool {
	v, err := strconv.ParseBool(strings.ToLower(s.Get(key)))
	return err == nil && v
}

// Set stores a value, normalizing sentinels; empty values unset the key
func (s *DeployState) Set(key, value string) {
	normalized := NormalizeSentinel(value)
	if normalized == "" {
		delete(s.values, key)
		return
	}
	s.values[key] = normalized
}

// SetBool stores a boolean flag
func (s *DeployState) SetBool(key string, value bool) {
	if value {
		s.values[key] = "true"
	} else {
		delete(s.values, key)
	}
}

// Keys returns the stored keys in sorted order
func (s *DeployState) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for key := range s.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Save rewrites the state file in full. The record is overwritten wholesale
// on every successful run that resolves new values.
func (s *DeployState) Save() error {
	if err := godotenv.Write(s.values, s.path); err != nil {
		return fmt.Errorf("failed to write deploy state %s: %w", s.path, err)
	}
	return nil
}

// Path returns the file backing this state record
func (s *DeployState) Path() string {
	return s.path
}
