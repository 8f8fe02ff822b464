// Copyright (C) 2026 Ioannis Torakis <john.torakis@gmail.com>
// SPDX-License-Identifier: Elastic-2.0
//
// Licensed under the Elastic License 2.0.
// You may obtain a copy of the license at:
// https://www.elastic.co/licensing/elastic-license
//
// Use, modification, and redistribution permitted under the terms of the license,
// except for providing this software as a commercial service or product.

package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common cases - these can be checked with errors.Is()
var (
	ErrGatewayNotFound  = errors.New("gateway not found")
	ErrGatewayAmbiguous = errors.New("multiple gateways share the requested name")
	ErrTargetNotFound   = errors.New("gateway target not found")
	ErrRoleNotFound     = errors.New("role not found")
	ErrGatewayNotReady  = errors.New("gateway did not become ready in time")
	ErrSchemaInvalid    = errors.New("invalid tool schema")
	ErrMissingPrereqs   = errors.New("missing prerequisites")
	ErrWrongResourceARN = errors.New("identifier belongs to the wrong resource class")
)

// DeployError provides structured error information for control-plane
// operations. Payload carries the exact request body that was sent so the
// operator can diagnose rejected calls without re-running with tracing.
type DeployError struct {
	Operation string // The operation that failed (e.g., "create gateway")
	Resource  string // The resource name or id involved in the operation
	Payload   string // JSON request body sent to the control plane, if any
	Err       error  // The underlying error, verbatim from the remote call
}

// Error implements the error interface
func (e *DeployError) Error() string {
	var b strings.Builder
	if e.Resource != "" {
		fmt.Fprintf(&b, "failed to %s %q: %v", e.Operation, e.Resource, e.Err)
	} else {
		fmt.Fprintf(&b, "failed to %s: %v", e.Operation, e.Err)
	}
	if e.Payload != "" {
		fmt.Fprintf(&b, "\nrequest payload: %s", e.Payload)
	}
	return b.String()
}

// Unwrap returns the underlying error for error wrapping/unwrapping
func (e *DeployError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches a target error (for sentinel error checking)
func (e *DeployError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewDeployError creates a new DeployError, serializing the request payload
// for diagnosis. A payload that cannot be marshaled is dropped rather than
// masking the original error.
func NewDeployError(operation, resource string, payload any, err error) *DeployError {
	e := &DeployError{
		Operation: operation,
		Resource:  resource,
		Err:       err,
	}
	if payload != nil {
		if data, merr := json.Marshal(payload); merr == nil {
			e.Payload = string(data)
		}
	}
	return e
}

// WrapDeployError wraps an error with operation context, without double-wrapping
func WrapDeployError(operation, resource string, err error) error {
	if err == nil {
		return nil
	}
	var deployErr *DeployError
	if errors.As(err, &deployErr) {
		return err
	}
	return NewDeployError(operation, resource, nil, err)
}

// PrereqError accumulates the required values a run could not resolve. It is
// reported once, with a generated example invocation, instead of failing on
// the first missing value.
type PrereqError struct {
	Missing []string // Env-style key names, e.g. GATEWAY_NAME
	Example string   // Example invocation that would supply them
}

func (e *PrereqError) Error() string {
	msg := fmt.Sprintf("missing required values: %s", strings.Join(e.Missing, ", "))
	if e.Example != "" {
		msg += fmt.Sprintf("\nexample:\n  %s", e.Example)
	}
	return msg
}

func (e *PrereqError) Is(target error) bool {
	return target == ErrMissingPrereqs
}

// UsageError marks command-line misuse; main maps it to exit code 2.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// NewUsageError creates a UsageError with a formatted message
func NewUsageError(format string, args ...any) *UsageError {
	return &UsageError{Err: fmt.Errorf(format, args...)}
}

// IsUsage reports whether err is a command-line usage error
func IsUsage(err error) bool {
	var usageErr *UsageError
	return errors.As(err, &usageErr)
}
