package anthropic

import (
	"context"
	"errors"
	"net/http"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/minhyannv/mcp-client-go/pkg/conversation"
	"github.com/minhyannv/mcp-client-go/pkg/llm"
	"github.com/minhyannv/mcp-client-go/pkg/tools"
)

// ProviderName identifies this backend in errors and logs.
const ProviderName = "anthropic"

// Options configures the Messages API client.
type Options struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// Client calls the Anthropic Messages API.
type Client struct {
	client sdk.Client
}

var _ llm.Client = (*Client)(nil)

// New builds a client. SDK retries are disabled: a failed call fails the query.
func New(opts Options) *Client {
	reqOpts := []option.RequestOption{option.WithMaxRetries(0)}
	if opts.APIKey != "" {
		reqOpts = append(reqOpts, option.WithAPIKey(opts.APIKey))
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	if opts.HTTPClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(opts.HTTPClient))
	}
	return &Client{client: sdk.NewClient(reqOpts...)}
}

// Create sends one messages request.
func (c *Client) Create(ctx context.Context, req llm.Request) (*llm.Response, error) {
	params := sdk.MessageNewParams{
		Model:     sdk.Model(req.Model),
		MaxTokens: int64(req.MaxTokens),
		Messages:  toMessages(req.Messages),
	}
	if len(req.Tools) > 0 {
		params.Tools = toTools(req.Tools)
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, &llm.ModelCallError{Provider: ProviderName, Err: err}
	}
	if msg == nil {
		return nil, &llm.ModelCallError{Provider: ProviderName, Err: errors.New("empty response")}
	}
	return fromMessage(msg), nil
}

// toMessages renders conversation turns. Empty text turns stay in the
// conversation but are not sent; the API rejects empty text blocks.
func toMessages(turns []conversation.Turn) []sdk.MessageParam {
	out := make([]sdk.MessageParam, 0, len(turns))
	for _, turn := range turns {
		if turn.IsToolResult() {
			texts := llm.ToolResultTexts(turn.ToolResult)
			blocks := make([]sdk.ContentBlockParamUnion, 0, len(texts))
			for _, text := range texts {
				blocks = append(blocks, sdk.NewTextBlock(text))
			}
			out = append(out, sdk.NewUserMessage(blocks...))
			continue
		}
		if strings.TrimSpace(turn.Text) == "" {
			continue
		}
		switch turn.Role {
		case conversation.RoleAssistant:
			out = append(out, sdk.NewAssistantMessage(sdk.NewTextBlock(turn.Text)))
		default:
			out = append(out, sdk.NewUserMessage(sdk.NewTextBlock(turn.Text)))
		}
	}
	return out
}

func toTools(descs []tools.Descriptor) []sdk.ToolUnionParam {
	out := make([]sdk.ToolUnionParam, 0, len(descs))
	for _, d := range descs {
		properties, required, extra := llm.SchemaParts(d.InputSchema)
		tool := &sdk.ToolParam{
			Name: d.Name,
			InputSchema: sdk.ToolInputSchemaParam{
				Properties:  properties,
				Required:    required,
				ExtraFields: extra,
			},
		}
		if d.Description != "" {
			tool.Description = sdk.String(d.Description)
		}
		out = append(out, sdk.ToolUnionParam{OfTool: tool})
	}
	return out
}

func fromMessage(msg *sdk.Message) *llm.Response {
	resp := &llm.Response{Content: make([]llm.ContentItem, 0, len(msg.Content))}
	for _, block := range msg.Content {
		switch block.Type {
		case "text":
			resp.Content = append(resp.Content, llm.ContentItem{Type: llm.ContentText, Text: block.Text})
		case "tool_use":
			resp.Content = append(resp.Content, llm.ContentItem{
				Type:  llm.ContentToolUse,
				ID:    block.ID,
				Name:  block.Name,
				Input: block.Input,
			})
		}
	}
	return resp
}
