package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	loggerpkg "github.com/minhyannv/mcp-client-go/pkg/logger"
	"github.com/minhyannv/mcp-client-go/pkg/toolhost"
	"github.com/xeipuuv/gojsonschema"
)

var emptyObjectSchema = json.RawMessage(`{"type":"object","properties":{}}`)

// Host is the tool host session the registry and dispatcher talk to.
type Host interface {
	ListTools(ctx context.Context) ([]toolhost.Tool, error)
	CallTool(ctx context.Context, name string, args json.RawMessage) (*toolhost.Result, error)
}

// Descriptor is what the model is told about one tool.
type Descriptor struct {
	Name        string
	Description string
	InputSchema json.RawMessage
}

// Registry holds the tools advertised by the host at connect time.
type Registry struct {
	descriptors []Descriptor
	index       map[string]int
	schemas     map[string]*gojsonschema.Schema
}

// Load lists the host's tools once and builds the registry.
func Load(ctx context.Context, host Host, logger loggerpkg.Logger) (*Registry, error) {
	if logger == nil {
		logger = loggerpkg.NopLogger{}
	}
	endpoint := endpointName(host)

	listed, err := host.ListTools(ctx)
	if err != nil {
		return nil, &toolhost.ConnectionError{Endpoint: endpoint, Op: "list tools", Err: err}
	}

	r := &Registry{
		descriptors: make([]Descriptor, 0, len(listed)),
		index:       make(map[string]int, len(listed)),
		schemas:     make(map[string]*gojsonschema.Schema, len(listed)),
	}
	for _, tool := range listed {
		desc, err := toDescriptor(tool)
		if err != nil {
			return nil, &toolhost.ConnectionError{Endpoint: endpoint, Op: "list tools", Err: err}
		}
		if _, dup := r.index[desc.Name]; dup {
			return nil, &toolhost.ConnectionError{
				Endpoint: endpoint,
				Op:       "list tools",
				Err:      fmt.Errorf("duplicate tool name %q", desc.Name),
			}
		}
		r.register(desc, logger)
	}

	logger.Info("connected to tool host", map[string]any{
		"endpoint": endpoint,
		"count":    r.Len(),
		"tools":    r.Names(),
	})
	return r, nil
}

func (r *Registry) register(desc Descriptor, logger loggerpkg.Logger) {
	r.index[desc.Name] = len(r.descriptors)
	r.descriptors = append(r.descriptors, desc)

	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(desc.InputSchema))
	if err != nil {
		// The host stays authoritative; arguments for this tool are forwarded unchecked.
		logger.Warn("tool input schema not usable for validation", map[string]any{
			"tool":  desc.Name,
			"error": err.Error(),
		})
		return
	}
	r.schemas[desc.Name] = schema
}

// Descriptors returns a copy of every descriptor in listing order.
func (r *Registry) Descriptors() []Descriptor {
	if r == nil {
		return nil
	}
	out := make([]Descriptor, len(r.descriptors))
	copy(out, r.descriptors)
	return out
}

// Lookup finds a descriptor by tool name.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	if r == nil {
		return Descriptor{}, false
	}
	i, ok := r.index[name]
	if !ok {
		return Descriptor{}, false
	}
	return r.descriptors[i], true
}

// Names returns the tool names in listing order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.descriptors))
	for _, d := range r.descriptors {
		names = append(names, d.Name)
	}
	return names
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.descriptors)
}

func toDescriptor(tool toolhost.Tool) (Descriptor, error) {
	name := strings.TrimSpace(tool.Name)
	if name == "" {
		return Descriptor{}, fmt.Errorf("tool with empty name")
	}
	schema := bytes.TrimSpace(tool.InputSchema)
	if len(schema) == 0 || bytes.Equal(schema, []byte("null")) {
		schema = emptyObjectSchema
	}

	var decoded map[string]any
	if err := json.Unmarshal(schema, &decoded); err != nil {
		return Descriptor{}, fmt.Errorf("tool %s: input schema is not a JSON object", name)
	}
	if typ, ok := decoded["type"]; ok && typ != "object" {
		return Descriptor{}, fmt.Errorf("tool %s: input schema type is %v, want object", name, typ)
	}

	return Descriptor{
		Name:        name,
		Description: tool.Description,
		InputSchema: append(json.RawMessage(nil), schema...),
	}, nil
}

func endpointName(host Host) string {
	if named, ok := host.(interface{ Endpoint() toolhost.Endpoint }); ok {
		return named.Endpoint().String()
	}
	return "tool host"
}
