package awsx

import "strings"

// IsARN reports whether s has the general ARN shape
func IsARN(s string) bool {
	return strings.HasPrefix(s, "arn:") && strings.Count(s, ":") >= 5
}

// IsLambdaFunctionARN reports whether s identifies a Lambda function,
// e.g. arn:aws:lambda:us-east-1:123456789012:function:my-fn
func IsLambdaFunctionARN(s string) bool {
	if !IsARN(s) {
		return false
	}
	parts := strings.SplitN(s, ":", 7)
	return len(parts) >= 7 && parts[2] == "lambda" && parts[5] == "function"
}

// IsRoleARN reports whether s identifies an IAM role,
// e.g. arn:aws:iam::123456789012:role/my-role
func IsRoleARN(s string) bool {
	if !IsARN(s) {
		return false
	}
	parts := strings.SplitN(s, ":", 6)
	return len(parts) == 6 && parts[2] == "iam" && strings.HasPrefix(parts[5], "role/")
}
