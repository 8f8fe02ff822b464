package schema

// allowedKeywords is the subset of JSON Schema the gateway's inline tool
// schema accepts. Anything else (title, default, examples, icons, ...) is
// rejected by the control plane, so it is stripped before submission.
var allowedKeywords = map[string]bool{
	"type":        true,
	"properties":  true,
	"required":    true,
	"items":       true,
	"description": true,
}

// Sanitize returns a copy of the manifest with every tool schema reduced to
// the allowed keyword subset, recursively through nested properties and
// items. Allowed keys keep their values unchanged.
func Sanitize(m *Manifest) *Manifest {
	out := &Manifest{Tools: make([]Tool, len(m.Tools))}
	for i, tool := range m.Tools {
		out.Tools[i] = Tool{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: sanitizeNode(tool.InputSchema),
		}
		if tool.OutputSchema != nil {
			out.Tools[i].OutputSchema = sanitizeNode(tool.OutputSchema)
		}
	}
	return out
}

func sanitizeNode(node map[string]any) map[string]any {
	out := make(map[string]any, len(node))
	for key, value := range node {
		if !allowedKeywords[key] {
			continue
		}
		switch key {
		case "properties":
			props, ok := value.(map[string]any)
			if !ok {
				continue
			}
			cleaned := make(map[string]any, len(props))
			for name, sub := range props {
				if subNode, ok := sub.(map[string]any); ok {
					cleaned[name] = sanitizeNode(subNode)
				}
			}
			out[key] = cleaned
		case "items":
			if subNode, ok := value.(map[string]any); ok {
				out[key] = sanitizeNode(subNode)
			}
		default:
			out[key] = value
		}
	}
	return out
}
