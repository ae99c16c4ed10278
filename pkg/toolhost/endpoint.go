package toolhost

import (
	"fmt"
	"net/url"
	"os"
	"runtime"
	"strings"

	configpkg "github.com/minhyannv/mcp-client-go/pkg/config"
)

// Kind is the transport used to reach a tool host.
type Kind string

const (
	KindStdio      Kind = "stdio"
	KindStreamable Kind = "streamable"
	KindSSE        Kind = "sse"
)

const (
	stdioSchemePrefix = "stdio://"
	sseSchemePrefix   = "sse://"
)

// Endpoint identifies a tool host and how to reach it.
type Endpoint struct {
	Name    string
	Kind    Kind
	Command string
	Args    []string
	Env     []string
	URL     string
}

func (e Endpoint) String() string {
	if e.Name != "" {
		return e.Name
	}
	if e.Kind == KindStdio {
		return strings.TrimSpace(e.Command + " " + strings.Join(e.Args, " "))
	}
	return e.URL
}

// Resolve turns the endpoint argument into an Endpoint. The argument may be
// the name of a configured server, a .js or .py server script, a URL, or a
// command line.
func Resolve(arg string, servers map[string]configpkg.ServerConfig) (Endpoint, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return Endpoint{}, fmt.Errorf("endpoint is empty")
	}

	if srv, ok := servers[arg]; ok {
		return fromServerConfig(arg, srv)
	}

	lowered := strings.ToLower(arg)
	switch {
	case strings.HasPrefix(lowered, stdioSchemePrefix):
		return commandEndpoint(arg[len(stdioSchemePrefix):])
	case strings.HasPrefix(lowered, sseSchemePrefix):
		endpoint, err := normalizeHTTPURL(arg[len(sseSchemePrefix):], true)
		if err != nil {
			return Endpoint{}, fmt.Errorf("invalid SSE endpoint: %w", err)
		}
		return Endpoint{Kind: KindSSE, URL: endpoint}, nil
	}

	if ep, matched, err := urlEndpoint(arg); matched || err != nil {
		return ep, err
	}
	if strings.HasSuffix(lowered, ".js") || strings.HasSuffix(lowered, ".py") {
		return scriptEndpoint(arg)
	}
	return commandEndpoint(arg)
}

func fromServerConfig(name string, srv configpkg.ServerConfig) (Endpoint, error) {
	if srv.URL != "" {
		ep, matched, err := urlEndpoint(srv.URL)
		if err != nil {
			return Endpoint{}, fmt.Errorf("server %s: %w", name, err)
		}
		if !matched {
			return Endpoint{}, fmt.Errorf("server %s: url must use http or https", name)
		}
		ep.Name = name
		return ep, nil
	}
	if srv.Command == "" {
		return Endpoint{}, fmt.Errorf("server %s: command or url is required", name)
	}
	return Endpoint{
		Name:    name,
		Kind:    KindStdio,
		Command: srv.Command,
		Args:    append([]string(nil), srv.Args...),
		Env:     append([]string(nil), srv.Env...),
	}, nil
}

// scriptEndpoint launches a server script with the interpreter its
// extension implies.
func scriptEndpoint(path string) (Endpoint, error) {
	if err := validateFileExists(path); err != nil {
		return Endpoint{}, fmt.Errorf("server script: %w", err)
	}
	command := "node"
	if strings.HasSuffix(strings.ToLower(path), ".py") {
		command = "python3"
		if runtime.GOOS == "windows" {
			command = "python"
		}
	}
	return Endpoint{Kind: KindStdio, Command: command, Args: []string{path}}, nil
}

func commandEndpoint(cmdline string) (Endpoint, error) {
	parts, err := parseCommandLine(strings.TrimSpace(cmdline))
	if err != nil {
		return Endpoint{}, err
	}
	if len(parts) == 0 {
		return Endpoint{}, fmt.Errorf("stdio command is empty")
	}
	return Endpoint{Kind: KindStdio, Command: parts[0], Args: parts[1:]}, nil
}

// urlEndpoint handles http(s) URLs and the http+sse / http+stream hints.
func urlEndpoint(raw string) (Endpoint, bool, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" {
		return Endpoint{}, false, nil
	}
	scheme := strings.ToLower(u.Scheme)
	base, hint, hasHint := strings.Cut(scheme, "+")
	if base != "http" && base != "https" {
		return Endpoint{}, false, nil
	}

	kind := KindStreamable
	if hasHint {
		switch hint {
		case "sse":
			kind = KindSSE
		case "stream", "streamable", "http", "json":
			kind = KindStreamable
		default:
			return Endpoint{}, true, fmt.Errorf("unsupported HTTP transport hint %q", hint)
		}
	}

	normalized := *u
	normalized.Scheme = base
	endpoint, err := normalizeHTTPURL(normalized.String(), false)
	if err != nil {
		return Endpoint{}, true, fmt.Errorf("invalid %s endpoint: %w", kind, err)
	}
	return Endpoint{Kind: kind, URL: endpoint}, true, nil
}

func normalizeHTTPURL(raw string, allowSchemeGuess bool) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("endpoint is empty")
	}
	if allowSchemeGuess && !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("missing host")
	}
	parsed.Scheme = scheme
	return parsed.String(), nil
}

// validateFileExists checks if a file exists and is not a directory.
func validateFileExists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory: %s", path)
	}
	return nil
}

// parseCommandLine parses a command string into argv without shell execution.
func parseCommandLine(input string) ([]string, error) {
	var (
		args     []string
		current  strings.Builder
		inSingle bool
		inDouble bool
		escaped  bool
	)

	flush := func() {
		if current.Len() == 0 {
			return
		}
		args = append(args, current.String())
		current.Reset()
	}

	for _, r := range input {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\' && !inSingle:
			escaped = true
		case r == '\'' && !inDouble:
			inSingle = !inSingle
		case r == '"' && !inSingle:
			inDouble = !inDouble
		case (r == ' ' || r == '\t') && !inSingle && !inDouble:
			flush()
		default:
			current.WriteRune(r)
		}
	}

	if escaped {
		return nil, fmt.Errorf("unterminated escape in command")
	}
	if inSingle || inDouble {
		return nil, fmt.Errorf("unterminated quote in command")
	}
	flush()

	return args, nil
}
