package openai

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/minhyannv/mcp-client-go/pkg/conversation"
	"github.com/minhyannv/mcp-client-go/pkg/llm"
	"github.com/minhyannv/mcp-client-go/pkg/tools"
	sdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// ProviderName identifies this backend in errors and logs.
const ProviderName = "openai"

// Options configures the chat completions client.
type Options struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// Client calls an OpenAI-compatible chat completions endpoint.
type Client struct {
	client sdk.Client
}

var _ llm.Client = (*Client)(nil)

// New builds a client with SDK retries disabled.
func New(opts Options) *Client {
	reqOpts := []option.RequestOption{option.WithMaxRetries(0)}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	if opts.APIKey != "" {
		reqOpts = append(reqOpts, option.WithAPIKey(opts.APIKey))
	}
	if opts.HTTPClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(opts.HTTPClient))
	}
	return &Client{client: sdk.NewClient(reqOpts...)}
}

// Create sends one chat completion request. Tool calls in the reply are
// returned as tool_use items after the reply text.
func (c *Client) Create(ctx context.Context, req llm.Request) (*llm.Response, error) {
	params := sdk.ChatCompletionNewParams{
		Model:    sdk.ChatModel(req.Model),
		Messages: toMessages(req.Messages),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = sdk.Int(int64(req.MaxTokens))
	}
	if len(req.Tools) > 0 {
		params.Tools = toTools(req.Tools)
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, &llm.ModelCallError{Provider: ProviderName, Err: err}
	}
	if completion == nil || len(completion.Choices) == 0 {
		return nil, &llm.ModelCallError{Provider: ProviderName, Err: errors.New("empty completion choices")}
	}
	return fromMessage(completion.Choices[0].Message), nil
}

func toMessages(turns []conversation.Turn) []sdk.ChatCompletionMessageParamUnion {
	out := make([]sdk.ChatCompletionMessageParamUnion, 0, len(turns))
	for _, turn := range turns {
		if turn.IsToolResult() {
			out = append(out, sdk.UserMessage(strings.Join(llm.ToolResultTexts(turn.ToolResult), "\n")))
			continue
		}
		if strings.TrimSpace(turn.Text) == "" {
			continue
		}
		if turn.Role == conversation.RoleAssistant {
			out = append(out, sdk.AssistantMessage(turn.Text))
		} else {
			out = append(out, sdk.UserMessage(turn.Text))
		}
	}
	return out
}

func toTools(descs []tools.Descriptor) []sdk.ChatCompletionToolParam {
	out := make([]sdk.ChatCompletionToolParam, 0, len(descs))
	for _, d := range descs {
		fn := sdk.FunctionDefinitionParam{
			Name:       d.Name,
			Parameters: sdk.FunctionParameters(llm.SchemaMap(d.InputSchema)),
		}
		if d.Description != "" {
			fn.Description = sdk.String(d.Description)
		}
		out = append(out, sdk.ChatCompletionToolParam{Function: fn})
	}
	return out
}

func fromMessage(msg sdk.ChatCompletionMessage) *llm.Response {
	resp := &llm.Response{}
	if msg.Content != "" {
		resp.Content = append(resp.Content, llm.ContentItem{Type: llm.ContentText, Text: msg.Content})
	}
	for _, call := range msg.ToolCalls {
		input := strings.TrimSpace(call.Function.Arguments)
		if input == "" {
			input = "{}"
		}
		resp.Content = append(resp.Content, llm.ContentItem{
			Type:  llm.ContentToolUse,
			ID:    call.ID,
			Name:  call.Function.Name,
			Input: []byte(input),
		})
	}
	return resp
}
