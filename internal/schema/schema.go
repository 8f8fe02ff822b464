package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	errs "github.com/searchgate-io/searchgate-cli/pkg/errors"
)

// Manifest is the tool-capability document exchanged with the gateway: the
// raw form comes out of `schema dump`, the sanitized form is what target
// creation embeds inline.
type Manifest struct {
	Tools []Tool `json:"tools"`
}

// Tool describes a single callable tool
type Tool struct {
	Name         string         `json:"name"`
	Description  string         `json:"description,omitempty"`
	InputSchema  map[string]any `json:"inputSchema"`
	OutputSchema map[string]any `json:"outputSchema,omitempty"`
}

// Parse decodes and validates a manifest document. Validation is local and
// fails before any remote call is attempted: the document must be a JSON
// object with a "tools" array of named tools carrying object input schemas.
func Parse(data []byte) (*Manifest, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("%w: not a JSON object: %v", errs.ErrSchemaInvalid, err)
	}
	raw, ok := top["tools"]
	if !ok {
		return nil, fmt.Errorf("%w: missing top-level \"tools\" array", errs.ErrSchemaInvalid)
	}

	var m Manifest
	if err := json.Unmarshal(raw, &m.Tools); err != nil {
		return nil, fmt.Errorf("%w: \"tools\" is not an array of tools: %v", errs.ErrSchemaInvalid, err)
	}
	if len(m.Tools) == 0 {
		return nil, fmt.Errorf("%w: manifest declares no tools", errs.ErrSchemaInvalid)
	}
	for i, tool := range m.Tools {
		if tool.Name == "" {
			return nil, fmt.Errorf("%w: tool %d has no name", errs.ErrSchemaInvalid, i)
		}
		if len(tool.InputSchema) == 0 {
			return nil, fmt.Errorf("%w: tool %q has no input schema", errs.ErrSchemaInvalid, tool.Name)
		}
	}
	return &m, nil
}

// Load reads and parses a manifest file
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("tool schema file not found at %s (run 'searchgate schema dump' first)", path)
		}
		return nil, fmt.Errorf("failed to read tool schema: %w", err)
	}
	return Parse(data)
}

// Save writes the manifest as indented JSON, creating parent directories
func (m *Manifest) Save(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal tool schema: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create schema directory: %w", err)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write tool schema: %w", err)
	}
	return nil
}
