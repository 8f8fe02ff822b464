package awsx

import "testing"

func TestIsLambdaFunctionARN(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"arn:aws:lambda:us-east-1:123456789012:function:search-fn", true},
		{"arn:aws:lambda:us-east-1:123456789012:function:search-fn:prod", true},
		{"arn:aws:iam::123456789012:role/my-role", false},
		{"arn:aws:lambda:us-east-1:123456789012:layer:my-layer:1", false},
		{"arn:aws:s3:::my-bucket", false},
		{"search-fn", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsLambdaFunctionARN(tt.in); got != tt.want {
			t.Errorf("IsLambdaFunctionARN(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsRoleARN(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"arn:aws:iam::123456789012:role/my-role", true},
		{"arn:aws:iam::123456789012:role/service-role/my-role", true},
		{"arn:aws:iam::123456789012:user/somebody", false},
		{"arn:aws:lambda:us-east-1:123456789012:function:search-fn", false},
		{"my-role", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsRoleARN(tt.in); got != tt.want {
			t.Errorf("IsRoleARN(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
