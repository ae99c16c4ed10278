package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/minhyannv/mcp-client-go/pkg/conversation"
	"github.com/minhyannv/mcp-client-go/pkg/tools"
)

// ContentType tags a content item of a model reply.
type ContentType string

const (
	ContentText    ContentType = "text"
	ContentToolUse ContentType = "tool_use"
)

// ContentItem is one element of a model reply: either text or a request to
// invoke a tool.
type ContentItem struct {
	Type ContentType
	Text string

	ID    string
	Name  string
	Input json.RawMessage
}

// Request is one chat call. A nil or empty Tools slice means the model is
// not offered any tools.
type Request struct {
	Model     string
	MaxTokens int
	Messages  []conversation.Turn
	Tools     []tools.Descriptor
}

// Response is the ordered content of one model reply.
type Response struct {
	Content []ContentItem
}

// FirstText returns the text of the first content item, or "" when the
// reply is empty or starts with something other than text.
func (r *Response) FirstText() string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	if r.Content[0].Type != ContentText {
		return ""
	}
	return r.Content[0].Text
}

// Client sends chat requests to an LLM provider.
type Client interface {
	Create(ctx context.Context, req Request) (*Response, error)
}

// ModelCallError reports a failed or unusable LLM call.
type ModelCallError struct {
	Provider string
	Err      error
}

func (e *ModelCallError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("model call %s: %v", e.Provider, e.Err)
}

func (e *ModelCallError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
