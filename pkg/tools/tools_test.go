package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	loggerpkg "github.com/minhyannv/mcp-client-go/pkg/logger"
	"github.com/minhyannv/mcp-client-go/pkg/toolhost"
)

type fakeHost struct {
	tools   []toolhost.Tool
	listErr error
	callErr error
	result  *toolhost.Result
	calls   []string
	args    []json.RawMessage
}

func (h *fakeHost) ListTools(context.Context) ([]toolhost.Tool, error) {
	return h.tools, h.listErr
}

func (h *fakeHost) CallTool(_ context.Context, name string, args json.RawMessage) (*toolhost.Result, error) {
	h.calls = append(h.calls, name)
	h.args = append(h.args, args)
	if h.callErr != nil {
		return nil, h.callErr
	}
	return h.result, nil
}

func weatherTool() toolhost.Tool {
	return toolhost.Tool{
		Name:        "get_weather",
		Description: "Current weather",
		InputSchema: json.RawMessage(`{"type":"object","properties":{"city":{"type":"string"}},"required":["city"]}`),
	}
}

func TestLoadBuildsRegistry(t *testing.T) {
	var logs bytes.Buffer
	host := &fakeHost{tools: []toolhost.Tool{
		weatherTool(),
		{Name: "ping", Description: "Liveness"},
	}}

	reg, err := Load(context.Background(), host, loggerpkg.NewJSONLogger(&logs))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := strings.Join(reg.Names(), ","); got != "get_weather,ping" {
		t.Fatalf("unexpected names: %s", got)
	}
	ping, ok := reg.Lookup("ping")
	if !ok {
		t.Fatal("ping should be registered")
	}
	if string(ping.InputSchema) != `{"type":"object","properties":{}}` {
		t.Fatalf("missing schema should default to empty object, got %s", ping.InputSchema)
	}
	if reg.Len() != 2 || !strings.Contains(logs.String(), `"count":2`) {
		t.Fatalf("expected tool count in info log, got %s", logs.String())
	}
	if !strings.Contains(logs.String(), `"tools":["get_weather","ping"]`) {
		t.Fatalf("expected tool names in info log, got %s", logs.String())
	}

	descs := reg.Descriptors()
	descs[0].Name = "mutated"
	if reg.Descriptors()[0].Name != "get_weather" {
		t.Fatal("Descriptors must return a copy")
	}
}

func TestLoadRejectsMalformedListings(t *testing.T) {
	tests := []struct {
		name  string
		tools []toolhost.Tool
	}{
		{name: "EmptyName", tools: []toolhost.Tool{{Name: "  "}}},
		{name: "Duplicate", tools: []toolhost.Tool{weatherTool(), weatherTool()}},
		{name: "ArraySchema", tools: []toolhost.Tool{{Name: "x", InputSchema: json.RawMessage(`[]`)}}},
		{name: "StringType", tools: []toolhost.Tool{{Name: "x", InputSchema: json.RawMessage(`{"type":"string"}`)}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(context.Background(), &fakeHost{tools: tt.tools}, nil)
			var connErr *toolhost.ConnectionError
			if !errors.As(err, &connErr) {
				t.Fatalf("expected ConnectionError, got %v", err)
			}
		})
	}
}

func TestLoadListFailure(t *testing.T) {
	_, err := Load(context.Background(), &fakeHost{listErr: errors.New("pipe closed")}, nil)
	var connErr *toolhost.ConnectionError
	if !errors.As(err, &connErr) || connErr.Op != "list tools" {
		t.Fatalf("expected list tools ConnectionError, got %v", err)
	}
}

func TestInvokeForwardsValidCall(t *testing.T) {
	want := &toolhost.Result{Content: json.RawMessage(`[{"type":"text","text":"sunny"}]`)}
	host := &fakeHost{tools: []toolhost.Tool{weatherTool()}, result: want}
	reg, err := Load(context.Background(), host, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	d := NewDispatcher(host, reg, nil, false)
	got, err := d.Invoke(context.Background(), "get_weather", json.RawMessage(`{"city":"Tokyo"}`))
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if got != want {
		t.Fatal("result should be forwarded verbatim")
	}
	if len(host.calls) != 1 || string(host.args[0]) != `{"city":"Tokyo"}` {
		t.Fatalf("unexpected host calls: %v %s", host.calls, host.args)
	}
}

func TestInvokeForwardsErrorResult(t *testing.T) {
	host := &fakeHost{
		tools:  []toolhost.Tool{{Name: "ping"}},
		result: &toolhost.Result{Content: json.RawMessage(`[{"type":"text","text":"down"}]`), IsError: true},
	}
	reg, _ := Load(context.Background(), host, nil)

	res, err := NewDispatcher(host, reg, nil, false).Invoke(context.Background(), "ping", nil)
	if err != nil {
		t.Fatalf("isError results are not failures: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected isError to be preserved")
	}
	if string(host.args[0]) != `{}` {
		t.Fatalf("absent arguments should be sent as {}, got %s", host.args[0])
	}
}

func TestInvokeValidation(t *testing.T) {
	tests := []struct {
		name    string
		tool    string
		args    string
		wantErr string
	}{
		{name: "UnknownTool", tool: "get_time", args: `{}`, wantErr: "unknown tool"},
		{name: "MissingRequired", tool: "get_weather", args: `{}`, wantErr: "city"},
		{name: "WrongType", tool: "get_weather", args: `{"city":42}`, wantErr: "city"},
		{name: "InvalidJSON", tool: "get_weather", args: `{"city":`, wantErr: "not valid JSON"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := &fakeHost{tools: []toolhost.Tool{weatherTool()}}
			reg, err := Load(context.Background(), host, nil)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			_, err = NewDispatcher(host, reg, nil, false).Invoke(context.Background(), tt.tool, json.RawMessage(tt.args))
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if !strings.Contains(vErr.Error(), tt.wantErr) {
				t.Fatalf("expected %q in %q", tt.wantErr, vErr.Error())
			}
			if len(host.calls) != 0 {
				t.Fatal("invalid calls must not reach the host")
			}
		})
	}
}

func TestInvokeTransportFailure(t *testing.T) {
	cause := errors.New("connection reset")
	host := &fakeHost{tools: []toolhost.Tool{weatherTool()}, callErr: cause}
	reg, _ := Load(context.Background(), host, nil)

	_, err := NewDispatcher(host, reg, nil, false).Invoke(context.Background(), "get_weather", json.RawMessage(`{"city":"Tokyo"}`))
	var invErr *InvocationError
	if !errors.As(err, &invErr) {
		t.Fatalf("expected InvocationError, got %v", err)
	}
	if invErr.Tool != "get_weather" || !errors.Is(err, cause) {
		t.Fatalf("unexpected error: %v", err)
	}
}
