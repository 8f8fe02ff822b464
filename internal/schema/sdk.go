package schema

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	bactypes "github.com/aws/aws-sdk-go-v2/service/bedrockagentcorecontrol/types"

	errs "github.com/searchgate-io/searchgate-cli/pkg/errors"
)

// ToolDefinitions converts a sanitized manifest into the control plane's
// inline tool payload. The manifest must already be sanitized: disallowed
// keywords have no SDK representation and are treated as an error here
// rather than dropped silently.
func (m *Manifest) ToolDefinitions() ([]bactypes.ToolDefinition, error) {
	defs := make([]bactypes.ToolDefinition, 0, len(m.Tools))
	for _, tool := range m.Tools {
		input, err := toSchemaDefinition(tool.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("tool %q: input schema: %w", tool.Name, err)
		}
		def := bactypes.ToolDefinition{
			Name:        aws.String(tool.Name),
			InputSchema: input,
		}
		if tool.Description != "" {
			def.Description = aws.String(tool.Description)
		}
		if tool.OutputSchema != nil {
			output, err := toSchemaDefinition(tool.OutputSchema)
			if err != nil {
				return nil, fmt.Errorf("tool %q: output schema: %w", tool.Name, err)
			}
			def.OutputSchema = output
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func toSchemaDefinition(node map[string]any) (*bactypes.SchemaDefinition, error) {
	def := &bactypes.SchemaDefinition{}
	for key, value := range node {
		switch key {
		case "type":
			t, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("%w: \"type\" is not a string", errs.ErrSchemaInvalid)
			}
			def.Type = bactypes.SchemaType(t)
		case "description":
			if d, ok := value.(string); ok {
				def.Description = aws.String(d)
			}
		case "required":
			items, ok := value.([]any)
			if !ok {
				return nil, fmt.Errorf("%w: \"required\" is not an array", errs.ErrSchemaInvalid)
			}
			for _, item := range items {
				name, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("%w: \"required\" entry is not a string", errs.ErrSchemaInvalid)
				}
				def.Required = append(def.Required, name)
			}
		case "properties":
			props, ok := value.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: \"properties\" is not an object", errs.ErrSchemaInvalid)
			}
			def.Properties = make(map[string]bactypes.SchemaDefinition, len(props))
			for name, sub := range props {
				subNode, ok := sub.(map[string]any)
				if !ok {
					return nil, fmt.Errorf("%w: property %q is not an object", errs.ErrSchemaInvalid, name)
				}
				subDef, err := toSchemaDefinition(subNode)
				if err != nil {
					return nil, fmt.Errorf("property %q: %w", name, err)
				}
				def.Properties[name] = *subDef
			}
		case "items":
			subNode, ok := value.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: \"items\" is not an object", errs.ErrSchemaInvalid)
			}
			subDef, err := toSchemaDefinition(subNode)
			if err != nil {
				return nil, fmt.Errorf("items: %w", err)
			}
			def.Items = subDef
		default:
			return nil, fmt.Errorf("%w: unsupported keyword %q (sanitize the manifest first)", errs.ErrSchemaInvalid, key)
		}
	}
	if def.Type == "" {
		return nil, fmt.Errorf("%w: missing \"type\"", errs.ErrSchemaInvalid)
	}
	return def, nil
}
