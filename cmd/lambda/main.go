// Copyright (C) 2026 Ioannis Torakis <john.torakis@gmail.com>
// SPDX-License-Identifier: Elastic-2.0
//
// Licensed under the Elastic License 2.0.
// You may obtain a copy of the license at:
// https://www.elastic.co/licensing/elastic-license
//
// Use, modification, and redistribution permitted under the terms of the license,
// except for providing this software as a commercial service or product.

// Command lambda is the gateway target backend. AgentCore Gateway invokes it
// with the tool arguments as the event payload and the resolved tool name in
// the client context.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/searchgate-io/searchgate-cli/internal/search"
	"github.com/searchgate-io/searchgate-cli/internal/tools"
)

// toolNameKey is the client-context key the gateway sets on invocation
const toolNameKey = "bedrockAgentCoreToolName"

// targetDelimiter separates the target name prefix from the tool name
const targetDelimiter = "___"

type handler struct {
	client *search.Client
}

func newHandler() (*handler, error) {
	client, err := search.NewClient(search.Config{
		APIKey: os.Getenv("GOOGLE_API_KEY"),
		CX:     os.Getenv("GOOGLE_CX"),
	})
	if err != nil {
		return nil, err
	}
	return &handler{client: client}, nil
}

// Handle dispatches one gateway invocation to the matching tool. The
// gateway delivers the arguments as the event body and the tool name in the
// client context; direct invocations may instead wrap both in a
// {"name": ..., "arguments": ...} envelope.
func (h *handler) Handle(ctx context.Context, event map[string]any) (any, error) {
	name := toolName(ctx)
	if wrappedName, ok := event["name"].(string); ok {
		if wrappedArgs, ok := event["arguments"].(map[string]any); ok {
			name, event = stripTargetPrefix(wrappedName), wrappedArgs
		}
	}

	switch name {
	case tools.SearchToolName:
		return h.search(ctx, event)
	default:
		return nil, fmt.Errorf("unknown tool %q", name)
	}
}

func (h *handler) search(ctx context.Context, event map[string]any) (*search.Response, error) {
	// Round-trip through JSON so numeric arguments land in the right types
	raw, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal arguments: %w", err)
	}
	var query search.Query
	if err := json.Unmarshal(raw, &query); err != nil {
		return nil, fmt.Errorf("failed to decode arguments: %w", err)
	}
	return h.client.Search(ctx, query)
}

// toolName extracts the invoked tool from the client context, stripping the
// "<target>___" prefix the gateway prepends
func toolName(ctx context.Context) string {
	lc, ok := lambdacontext.FromContext(ctx)
	if !ok {
		return ""
	}
	return stripTargetPrefix(lc.ClientContext.Custom[toolNameKey])
}

func stripTargetPrefix(name string) string {
	if i := strings.LastIndex(name, targetDelimiter); i >= 0 {
		return name[i+len(targetDelimiter):]
	}
	return name
}

func main() {
	h, err := newHandler()
	if err != nil {
		fmt.Fprintf(os.Stderr, "initialization failed: %v\n", err)
		os.Exit(1)
	}
	lambda.Start(h.Handle)
}
