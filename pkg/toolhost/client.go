package toolhost

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	clientName    = "mcp-client-cli"
	clientVersion = "1.0.0"
)

// ErrClosed is returned by calls made after Close.
var ErrClosed = errors.New("tool host session is closed")

// transportBuilder is overridden in tests to stub the transport factory.
var transportBuilder = buildTransport

// Option configures Connect.
type Option func(*options)

type options struct {
	stderr io.Writer
}

// WithStderr sets where a spawned tool host's stderr goes. Defaults to os.Stderr.
func WithStderr(w io.Writer) Option {
	return func(o *options) {
		o.stderr = w
	}
}

// Client is one MCP session with a tool host.
type Client struct {
	endpoint Endpoint
	session  *mcpsdk.ClientSession
}

// Connect starts the transport for ep and performs the MCP handshake.
func Connect(ctx context.Context, ep Endpoint, opts ...Option) (*Client, error) {
	o := options{stderr: os.Stderr}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	transport, err := transportBuilder(ep, o)
	if err != nil {
		return nil, &ConnectionError{Endpoint: ep.String(), Op: "build transport", Err: err}
	}

	impl := mcpsdk.NewClient(&mcpsdk.Implementation{Name: clientName, Version: clientVersion}, nil)
	session, err := impl.Connect(ctx, transport, nil)
	if err != nil {
		return nil, &ConnectionError{Endpoint: ep.String(), Op: "initialize", Err: err}
	}
	return &Client{endpoint: ep, session: session}, nil
}

// Endpoint returns the endpoint this client is connected to.
func (c *Client) Endpoint() Endpoint {
	return c.endpoint
}

// ListTools fetches the full tool list, following pagination.
func (c *Client) ListTools(ctx context.Context) ([]Tool, error) {
	if c == nil || c.session == nil {
		return nil, ErrClosed
	}
	var tools []Tool
	for tool, err := range c.session.Tools(ctx, nil) {
		if err != nil {
			return nil, err
		}
		converted, err := toTool(tool)
		if err != nil {
			return nil, err
		}
		tools = append(tools, converted)
	}
	return tools, nil
}

// CallTool sends a single tools/call request and waits for its result.
func (c *Client) CallTool(ctx context.Context, name string, args json.RawMessage) (*Result, error) {
	if c == nil || c.session == nil {
		return nil, ErrClosed
	}
	var arguments any = map[string]any{}
	if trimmed := bytes.TrimSpace(args); len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		arguments = json.RawMessage(trimmed)
	}

	res, err := c.session.CallTool(ctx, &mcpsdk.CallToolParams{Name: name, Arguments: arguments})
	if err != nil {
		return nil, err
	}
	return toResult(res)
}

// Close shuts down the session and, for stdio hosts, the subprocess.
func (c *Client) Close() error {
	if c == nil || c.session == nil {
		return nil
	}
	err := c.session.Close()
	c.session = nil
	return err
}

func buildTransport(ep Endpoint, o options) (mcpsdk.Transport, error) {
	switch ep.Kind {
	case KindStdio:
		if ep.Command == "" {
			return nil, fmt.Errorf("stdio command is empty")
		}
		// #nosec G204 -- the command comes from the operator's own argument or config file
		cmd := exec.Command(ep.Command, ep.Args...)
		cmd.Env = mergeEnv(sanitizedEnv(), ep.Env)
		cmd.Stderr = o.stderr
		return &mcpsdk.CommandTransport{Command: cmd}, nil
	case KindStreamable:
		return &mcpsdk.StreamableClientTransport{Endpoint: ep.URL}, nil
	case KindSSE:
		return &mcpsdk.SSEClientTransport{Endpoint: ep.URL}, nil
	default:
		return nil, fmt.Errorf("unsupported transport kind %q", ep.Kind)
	}
}

func toTool(tool *mcpsdk.Tool) (Tool, error) {
	if tool == nil {
		return Tool{}, fmt.Errorf("tool listing contains a null entry")
	}
	var schema json.RawMessage
	if tool.InputSchema != nil {
		raw, err := json.Marshal(tool.InputSchema)
		if err != nil {
			return Tool{}, fmt.Errorf("tool %s: encode input schema: %w", tool.Name, err)
		}
		schema = raw
	}
	return Tool{
		Name:        tool.Name,
		Description: tool.Description,
		InputSchema: schema,
	}, nil
}

func toResult(res *mcpsdk.CallToolResult) (*Result, error) {
	if res == nil {
		return &Result{Content: json.RawMessage("[]")}, nil
	}
	content := json.RawMessage("[]")
	if len(res.Content) > 0 {
		raw, err := json.Marshal(res.Content)
		if err != nil {
			return nil, fmt.Errorf("encode tool result content: %w", err)
		}
		content = raw
	}
	out := &Result{Content: content, IsError: res.IsError}
	if res.StructuredContent != nil {
		raw, err := json.Marshal(res.StructuredContent)
		if err != nil {
			return nil, fmt.Errorf("encode structured content: %w", err)
		}
		out.Structured = raw
	}
	return out, nil
}
