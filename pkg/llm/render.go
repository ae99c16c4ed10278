package llm

import (
	"encoding/json"

	"github.com/minhyannv/mcp-client-go/pkg/toolhost"
)

// ToolResultTexts renders a tool result as the text parts sent back to the
// model. Non-text MCP blocks are passed as their raw JSON. The result is
// never empty.
func ToolResultTexts(res *toolhost.Result) []string {
	parts := res.Texts()
	if len(parts) == 0 {
		parts = append(parts, "[]")
	}
	return parts
}

// SchemaParts splits an object schema into its properties, its required
// list and every other keyword ($defs, additionalProperties, ...). The
// "type" keyword is left out; provider SDKs set it themselves.
func SchemaParts(schema json.RawMessage) (map[string]any, []string, map[string]any) {
	properties := map[string]any{}
	var required []string
	extra := map[string]any{}

	var decoded map[string]json.RawMessage
	if len(schema) > 0 {
		_ = json.Unmarshal(schema, &decoded)
	}
	for key, raw := range decoded {
		switch key {
		case "type":
		case "properties":
			_ = json.Unmarshal(raw, &properties)
		case "required":
			_ = json.Unmarshal(raw, &required)
		default:
			var v any
			if err := json.Unmarshal(raw, &v); err == nil {
				extra[key] = v
			}
		}
	}
	if properties == nil {
		properties = map[string]any{}
	}
	if len(extra) == 0 {
		extra = nil
	}
	return properties, required, extra
}

// SchemaMap decodes a schema into a generic map. Invalid input yields an
// empty object schema.
func SchemaMap(schema json.RawMessage) map[string]any {
	out := map[string]any{}
	if len(schema) > 0 {
		_ = json.Unmarshal(schema, &out)
	}
	if _, ok := out["type"]; !ok {
		out["type"] = "object"
	}
	if _, ok := out["properties"]; !ok {
		out["properties"] = map[string]any{}
	}
	return out
}
