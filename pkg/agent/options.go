package agent

import (
	"io"

	"github.com/minhyannv/mcp-client-go/pkg/llm"
	loggerpkg "github.com/minhyannv/mcp-client-go/pkg/logger"
	"github.com/minhyannv/mcp-client-go/pkg/tools"
)

// AgentOption configures optional runtime dependencies for AgentLoop.
type AgentOption func(*agentDeps)

type agentDeps struct {
	logger loggerpkg.Logger
	model  llm.Client
	host   tools.Host
	stderr io.Writer
}

// WithLogger injects a logger dependency.
func WithLogger(l loggerpkg.Logger) AgentOption {
	return func(d *agentDeps) {
		d.logger = l
	}
}

// WithModelClient replaces the provider client built from the config.
func WithModelClient(c llm.Client) AgentOption {
	return func(d *agentDeps) {
		d.model = c
	}
}

// WithToolHost uses an already connected tool host instead of connecting to
// the configured endpoint. If h implements io.Closer, Close closes it.
func WithToolHost(h tools.Host) AgentOption {
	return func(d *agentDeps) {
		d.host = h
	}
}

// WithToolHostStderr sets where a spawned tool host's stderr goes.
func WithToolHostStderr(w io.Writer) AgentOption {
	return func(d *agentDeps) {
		d.stderr = w
	}
}
