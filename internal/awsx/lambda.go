package awsx

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/smithy-go"

	errs "github.com/searchgate-io/searchgate-cli/pkg/errors"
)

// FunctionChecker validates that the backend function exists before any
// gateway call references it
type FunctionChecker struct {
	lambda *lambda.Client
}

// NewFunctionChecker creates a FunctionChecker from the resolved AWS
// configuration
func NewFunctionChecker(cfg aws.Config) *FunctionChecker {
	return &FunctionChecker{lambda: lambda.NewFromConfig(cfg)}
}

// ValidateFunction rejects identifiers of the wrong resource class locally,
// then confirms the function exists remotely. A wrong-class ARN gets a
// specific diagnostic instead of an opaque remote error.
func (c *FunctionChecker) ValidateFunction(ctx context.Context, functionArn string) error {
	if !IsLambdaFunctionARN(functionArn) {
		return fmt.Errorf("%w: %q is not a Lambda function ARN (expected arn:<partition>:lambda:<region>:<account>:function:<name>)",
			errs.ErrWrongResourceARN, functionArn)
	}
	_, err := c.lambda.GetFunction(ctx, &lambda.GetFunctionInput{
		FunctionName: aws.String(functionArn),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "ResourceNotFoundException" {
			return fmt.Errorf("backend function %s does not exist in this region: %w", functionArn, err)
		}
		return errs.WrapDeployError("look up backend function", functionArn, err)
	}
	return nil
}
