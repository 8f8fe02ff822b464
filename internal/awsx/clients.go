package awsx

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/searchgate-io/searchgate-cli/pkg/models"
)

// LoadConfig resolves the AWS configuration for the given region using the
// default credential chain
func LoadConfig(ctx context.Context, region string) (aws.Config, error) {
	if region == "" {
		return aws.Config{}, fmt.Errorf("AWS region not configured")
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return cfg, nil
}

// Preflight verifies the resolved credentials are usable before any
// provisioning call is attempted, and reports which principal will act.
func Preflight(ctx context.Context, cfg aws.Config) (*models.Identity, error) {
	out, err := sts.NewFromConfig(cfg).GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return nil, fmt.Errorf("AWS credentials check failed: %w", err)
	}
	return &models.Identity{
		Account: aws.ToString(out.Account),
		Arn:     aws.ToString(out.Arn),
	}, nil
}
