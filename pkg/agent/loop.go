package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	configpkg "github.com/minhyannv/mcp-client-go/pkg/config"
	"github.com/minhyannv/mcp-client-go/pkg/conversation"
	"github.com/minhyannv/mcp-client-go/pkg/directive"
	"github.com/minhyannv/mcp-client-go/pkg/llm"
	anthropicllm "github.com/minhyannv/mcp-client-go/pkg/llm/anthropic"
	openaillm "github.com/minhyannv/mcp-client-go/pkg/llm/openai"
	loggerpkg "github.com/minhyannv/mcp-client-go/pkg/logger"
	"github.com/minhyannv/mcp-client-go/pkg/toolhost"
	"github.com/minhyannv/mcp-client-go/pkg/tools"
)

// AgentLoop holds the runtime state of one session: the conversation, the
// tool host connection and the model client.
type AgentLoop struct {
	config     configpkg.Config
	client     llm.Client
	host       tools.Host
	registry   *tools.Registry
	dispatcher *tools.Dispatcher
	directive  *directive.Directive
	history    *conversation.State
	sessionID  string

	logger  loggerpkg.Logger
	verbose bool
}

// New loads the directive, connects to the tool host, lists its tools and
// prepares the model client.
func New(ctx context.Context, cfg configpkg.Config, opts ...AgentOption) (*AgentLoop, error) {
	cfg = configpkg.Normalize(cfg)
	deps := agentDeps{logger: loggerpkg.NopLogger{}}
	for _, opt := range opts {
		if opt != nil {
			opt(&deps)
		}
	}
	if deps.logger == nil {
		deps.logger = loggerpkg.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	sessionID := uuid.New().String()
	logger := loggerpkg.With(deps.logger, map[string]any{"session_id": sessionID})

	loggerpkg.Debug(cfg.Verbose, logger, "agent_loop init", map[string]any{
		"provider":  cfg.Provider,
		"model":     cfg.Model,
		"base_url":  cfg.BaseURL,
		"server":    cfg.Server,
		"directive": cfg.DirectiveFile,
	})

	dir, err := directive.Load(cfg.DirectiveFile)
	if err != nil {
		return nil, &configpkg.StartupError{Field: "directive", Reason: "could not be loaded", Err: err}
	}
	loggerpkg.Debug(cfg.Verbose, logger, "directive ready", map[string]any{
		"name":  dir.Name,
		"bytes": len(dir.Text),
	})

	client := deps.model
	if client == nil {
		client, err = newModelClient(cfg)
		if err != nil {
			return nil, err
		}
	}

	host := deps.host
	if host == nil {
		endpoint, err := toolhost.Resolve(cfg.Server, cfg.Servers)
		if err != nil {
			return nil, &configpkg.StartupError{Field: "server", Reason: "is not a usable endpoint", Err: err}
		}
		loggerpkg.Debug(cfg.Verbose, logger, "connecting to tool host", map[string]any{
			"endpoint": endpoint.String(),
			"kind":     string(endpoint.Kind),
		})
		var connectOpts []toolhost.Option
		if deps.stderr != nil {
			connectOpts = append(connectOpts, toolhost.WithStderr(deps.stderr))
		}
		conn, err := toolhost.Connect(ctx, endpoint, connectOpts...)
		if err != nil {
			return nil, err
		}
		host = conn
	}

	registry, err := tools.Load(ctx, host, logger)
	if err != nil {
		closeHost(host)
		return nil, err
	}

	return &AgentLoop{
		config:     cfg,
		client:     client,
		host:       host,
		registry:   registry,
		dispatcher: tools.NewDispatcher(host, registry, logger, cfg.Verbose),
		directive:  dir,
		history:    conversation.New(dir.Text),
		sessionID:  sessionID,

		logger:  logger,
		verbose: cfg.Verbose,
	}, nil
}

func newModelClient(cfg configpkg.Config) (llm.Client, error) {
	if cfg.APIKey == "" {
		return nil, &configpkg.StartupError{Field: configpkg.APIKeyEnv(cfg.Provider), Reason: "is not set"}
	}
	switch cfg.Provider {
	case configpkg.ProviderAnthropic:
		return anthropicllm.New(anthropicllm.Options{APIKey: cfg.APIKey, BaseURL: cfg.BaseURL}), nil
	case configpkg.ProviderOpenAI:
		return openaillm.New(openaillm.Options{APIKey: cfg.APIKey, BaseURL: cfg.BaseURL}), nil
	default:
		return nil, &configpkg.StartupError{Field: "provider", Reason: "unsupported provider " + cfg.Provider}
	}
}

// Run processes one user query and returns the text shown to the user.
// Turns appended before a failure stay in the history.
func (a *AgentLoop) Run(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", errors.New("query is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := a.history.Append(conversation.UserText(query)); err != nil {
		return "", err
	}

	resp, err := a.create(ctx, a.registry.Descriptors())
	if err != nil {
		return "", err
	}

	var output []string
	for _, item := range resp.Content {
		switch item.Type {
		case llm.ContentText:
			output = append(output, item.Text)
			if err := a.history.Append(conversation.AssistantText(item.Text)); err != nil {
				return "", err
			}
		case llm.ContentToolUse:
			marker, text, err := a.runTool(ctx, item)
			if err != nil {
				return "", err
			}
			output = append(output, marker, text)
		default:
			a.debugf("skipping content item of type %q", item.Type)
		}
	}
	return strings.Join(output, "\n"), nil
}

// runTool dispatches one tool_use item, records its result and asks the
// model to continue without tools.
func (a *AgentLoop) runTool(ctx context.Context, item llm.ContentItem) (string, string, error) {
	res, err := a.dispatcher.Invoke(ctx, item.Name, item.Input)
	if err != nil {
		return "", "", err
	}
	if err := a.history.Append(conversation.ToolResult(res)); err != nil {
		return "", "", err
	}

	follow, err := a.create(ctx, nil)
	if err != nil {
		return "", "", err
	}
	text := follow.FirstText()
	if err := a.history.Append(conversation.AssistantText(text)); err != nil {
		return "", "", err
	}
	return toolCallMarker(item.Name, item.Input), text, nil
}

func (a *AgentLoop) create(ctx context.Context, descriptors []tools.Descriptor) (*llm.Response, error) {
	req := llm.Request{
		Model:     a.config.Model,
		MaxTokens: a.config.MaxTokens,
		Messages:  a.history.Snapshot(),
		Tools:     descriptors,
	}
	loggerpkg.Debug(a.verbose, a.logger, "model call", map[string]any{
		"turns": len(req.Messages),
		"tools": len(req.Tools),
	})
	resp, err := a.client.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, &llm.ModelCallError{Provider: a.config.Provider, Err: errors.New("empty response")}
	}
	loggerpkg.Debug(a.verbose, a.logger, "model reply", map[string]any{
		"items": len(resp.Content),
	})
	return resp, nil
}

// toolCallMarker renders the line shown to the user for a tool call.
func toolCallMarker(name string, input json.RawMessage) string {
	args := "{}"
	if trimmed := bytes.TrimSpace(input); len(trimmed) > 0 {
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err == nil {
			args = buf.String()
		} else {
			args = string(trimmed)
		}
	}
	return fmt.Sprintf("[Calling tool %s with args %s]", name, args)
}

// Tools returns the descriptors advertised by the tool host.
func (a *AgentLoop) Tools() []tools.Descriptor {
	return a.registry.Descriptors()
}

// History returns a copy of the conversation so far.
func (a *AgentLoop) History() []conversation.Turn {
	return a.history.Snapshot()
}

// SessionID identifies this session in logs.
func (a *AgentLoop) SessionID() string {
	return a.sessionID
}

// Directive returns the directive this session was started with.
func (a *AgentLoop) Directive() *directive.Directive {
	return a.directive
}

// Close releases the tool host connection.
func (a *AgentLoop) Close() error {
	if a == nil || a.host == nil {
		return nil
	}
	a.debugf("closing tool host")
	err := closeHost(a.host)
	a.host = nil
	return err
}

func closeHost(h tools.Host) error {
	if c, ok := h.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (a *AgentLoop) debugf(format string, args ...any) {
	loggerpkg.Debugf(a.verbose, a.logger, format, args...)
}
