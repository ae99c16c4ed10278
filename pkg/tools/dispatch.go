package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"

	loggerpkg "github.com/minhyannv/mcp-client-go/pkg/logger"
	"github.com/minhyannv/mcp-client-go/pkg/toolhost"
	"github.com/xeipuuv/gojsonschema"
)

// Dispatcher forwards validated tool calls to the host.
type Dispatcher struct {
	host     Host
	registry *Registry
	logger   loggerpkg.Logger
	verbose  bool
}

// NewDispatcher binds a registry to the host that advertised it.
func NewDispatcher(host Host, registry *Registry, logger loggerpkg.Logger, verbose bool) *Dispatcher {
	if logger == nil {
		logger = loggerpkg.NopLogger{}
	}
	return &Dispatcher{host: host, registry: registry, logger: logger, verbose: verbose}
}

// Invoke sends one tools/call request and waits for the result. It is not
// retried. A result flagged isError is returned as a normal result.
func (d *Dispatcher) Invoke(ctx context.Context, name string, args json.RawMessage) (*toolhost.Result, error) {
	args = normalizeArgs(args)
	if err := d.validate(name, args); err != nil {
		return nil, err
	}

	loggerpkg.Debug(d.verbose, d.logger, "tool call", map[string]any{
		"tool": name,
		"args": string(args),
	})
	res, err := d.host.CallTool(ctx, name, args)
	if err != nil {
		return nil, &InvocationError{Tool: name, Err: err}
	}
	if res == nil {
		return nil, &InvocationError{Tool: name, Err: errors.New("empty response")}
	}
	loggerpkg.Debug(d.verbose, d.logger, "tool result", map[string]any{
		"tool":     name,
		"is_error": res.IsError,
		"bytes":    len(res.Content),
	})
	return res, nil
}

func (d *Dispatcher) validate(name string, args json.RawMessage) error {
	if _, ok := d.registry.Lookup(name); !ok {
		return &ValidationError{Tool: name, Reason: "unknown tool"}
	}
	if !json.Valid(args) {
		return &ValidationError{Tool: name, Reason: "arguments are not valid JSON"}
	}
	schema := d.registry.schemas[name]
	if schema == nil {
		return nil
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(args))
	if err != nil {
		return &ValidationError{Tool: name, Reason: "schema validation failed: " + err.Error()}
	}
	if !result.Valid() {
		var problems []string
		for _, e := range result.Errors() {
			problems = append(problems, e.String())
		}
		return &ValidationError{Tool: name, Reason: strings.Join(problems, "; ")}
	}
	return nil
}

// normalizeArgs maps absent arguments to an empty object.
func normalizeArgs(args json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(args)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return json.RawMessage(`{}`)
	}
	return trimmed
}
