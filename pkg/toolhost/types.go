package toolhost

import (
	"encoding/json"
	"strings"
)

// Tool is one entry of the host's tools/list response.
type Tool struct {
	Name        string
	Description string
	InputSchema json.RawMessage
}

// Result is the verbatim content of a tools/call response.
type Result struct {
	// Content holds the MCP content blocks as received on the wire.
	Content json.RawMessage
	// Structured holds the optional structuredContent payload.
	Structured json.RawMessage
	IsError    bool
}

// Block is one decoded MCP content block.
type Block struct {
	Type string
	Text string
	Raw  json.RawMessage
}

// Blocks decodes Content into individual blocks. Content that is not a JSON
// array is returned as a single text block.
func (r *Result) Blocks() []Block {
	if r == nil || len(r.Content) == 0 {
		return nil
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(r.Content, &raws); err != nil {
		return []Block{{Type: "text", Text: string(r.Content), Raw: r.Content}}
	}

	blocks := make([]Block, 0, len(raws))
	for _, raw := range raws {
		var head struct {
			Type string `json:"type"`
			Text string `json:"text"`
		}
		_ = json.Unmarshal(raw, &head)
		blocks = append(blocks, Block{Type: head.Type, Text: head.Text, Raw: raw})
	}
	return blocks
}

// Texts renders the non-blank blocks of the result. Text blocks contribute
// their text, other blocks their JSON encoding. A result with no such block
// falls back to its structured content.
func (r *Result) Texts() []string {
	var parts []string
	for _, b := range r.Blocks() {
		if s := b.String(); strings.TrimSpace(s) != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 && r != nil && len(r.Structured) > 0 {
		parts = append(parts, string(r.Structured))
	}
	return parts
}

// String returns the block text, or its raw JSON for non-text blocks.
func (b Block) String() string {
	if b.Type == "text" {
		return b.Text
	}
	return string(b.Raw)
}
