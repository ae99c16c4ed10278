package toolhost

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	configpkg "github.com/minhyannv/mcp-client-go/pkg/config"
)

func TestResolveScripts(t *testing.T) {
	dir := t.TempDir()
	pyScript := filepath.Join(dir, "weather.py")
	jsScript := filepath.Join(dir, "weather.js")
	for _, p := range []string{pyScript, jsScript} {
		if err := os.WriteFile(p, []byte("# server"), 0o644); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}

	ep, err := Resolve(pyScript, nil)
	if err != nil {
		t.Fatalf("Resolve py: %v", err)
	}
	wantPython := "python3"
	if runtime.GOOS == "windows" {
		wantPython = "python"
	}
	if ep.Kind != KindStdio || ep.Command != wantPython || len(ep.Args) != 1 || ep.Args[0] != pyScript {
		t.Fatalf("unexpected py endpoint: %+v", ep)
	}

	ep, err = Resolve(jsScript, nil)
	if err != nil {
		t.Fatalf("Resolve js: %v", err)
	}
	if ep.Command != "node" || ep.Args[0] != jsScript {
		t.Fatalf("unexpected js endpoint: %+v", ep)
	}

	if _, err := Resolve(filepath.Join(dir, "missing.py"), nil); err == nil {
		t.Fatal("expected error for missing script")
	}
	if _, err := Resolve(dir+string(os.PathSeparator)+"pkg.py", nil); err == nil {
		t.Fatal("expected error for missing script in dir")
	}
}

func TestResolveCommands(t *testing.T) {
	tests := []struct {
		name string
		arg  string
		want []string
	}{
		{name: "ExplicitPrefix", arg: "stdio://npx -y @modelcontextprotocol/server-everything", want: []string{"npx", "-y", "@modelcontextprotocol/server-everything"}},
		{name: "UppercasePrefix", arg: "STDIO://uvx weather-server", want: []string{"uvx", "weather-server"}},
		{name: "PlainCommand", arg: `./server --name "my server"`, want: []string{"./server", "--name", "my server"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ep, err := Resolve(tt.arg, nil)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			got := append([]string{ep.Command}, ep.Args...)
			if ep.Kind != KindStdio || strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Fatalf("unexpected endpoint: %+v", ep)
			}
		})
	}
}

func TestResolveURLs(t *testing.T) {
	tests := []struct {
		name string
		arg  string
		kind Kind
		url  string
	}{
		{name: "HTTPDefaultsToStreamable", arg: "http://localhost:8080/mcp", kind: KindStreamable, url: "http://localhost:8080/mcp"},
		{name: "HTTPSUppercase", arg: "HTTPS://Example.com/mcp", kind: KindStreamable, url: "https://Example.com/mcp"},
		{name: "SSEHint", arg: "http+sse://mcp.example/sse", kind: KindSSE, url: "http://mcp.example/sse"},
		{name: "StreamHint", arg: "https+stream://mcp.example/mcp", kind: KindStreamable, url: "https://mcp.example/mcp"},
		{name: "SSEShorthandAddsScheme", arg: "sse://mcp.example/sse", kind: KindSSE, url: "https://mcp.example/sse"},
		{name: "ScriptLikeURL", arg: "http://host/server.py", kind: KindStreamable, url: "http://host/server.py"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ep, err := Resolve(tt.arg, nil)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if ep.Kind != tt.kind || ep.URL != tt.url {
				t.Fatalf("unexpected endpoint: %+v", ep)
			}
		})
	}
}

func TestResolveInvalid(t *testing.T) {
	tests := []struct {
		name    string
		arg     string
		wantErr string
	}{
		{name: "Empty", arg: "  ", wantErr: "endpoint is empty"},
		{name: "HTTPMissingHost", arg: "http://", wantErr: "missing host"},
		{name: "SSEMissingHost", arg: "sse://", wantErr: "endpoint is empty"},
		{name: "UnsupportedHint", arg: "http+foo://mcp.example", wantErr: "unsupported HTTP transport hint"},
		{name: "EmptyStdio", arg: "stdio://", wantErr: "stdio command is empty"},
		{name: "UnterminatedQuote", arg: `server "oops`, wantErr: "unterminated quote"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.arg, nil)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestResolveConfiguredServers(t *testing.T) {
	servers := map[string]configpkg.ServerConfig{
		"weather": {Command: "python3", Args: []string{"weather.py"}, Env: []string{"WEATHER_API_KEY=abc"}},
		"remote":  {URL: "http+sse://mcp.example/sse"},
		"broken":  {URL: "ftp://mcp.example"},
	}

	ep, err := Resolve("weather", servers)
	if err != nil {
		t.Fatalf("Resolve weather: %v", err)
	}
	if ep.Name != "weather" || ep.Command != "python3" || ep.Env[0] != "WEATHER_API_KEY=abc" {
		t.Fatalf("unexpected weather endpoint: %+v", ep)
	}
	if ep.String() != "weather" {
		t.Fatalf("expected name as display string, got %q", ep.String())
	}

	ep, err = Resolve("remote", servers)
	if err != nil {
		t.Fatalf("Resolve remote: %v", err)
	}
	if ep.Kind != KindSSE || ep.URL != "http://mcp.example/sse" {
		t.Fatalf("unexpected remote endpoint: %+v", ep)
	}

	if _, err := Resolve("broken", servers); err == nil {
		t.Fatal("expected error for non-http url")
	}
}

func TestMergeEnvOverridesInherited(t *testing.T) {
	got := mergeEnv([]string{"PATH=/bin", "HOME=/root"}, []string{"HOME=/srv", "TOKEN=x"})
	want := []string{"PATH=/bin", "HOME=/srv", "TOKEN=x"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("mergeEnv = %v, want %v", got, want)
	}
}

func TestSanitizedEnvDropsSecrets(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "secret")
	t.Setenv("PATH", "/usr/bin")
	env := sanitizedEnv()
	for _, kv := range env {
		if strings.HasPrefix(kv, "ANTHROPIC_API_KEY=") {
			t.Fatalf("api key leaked into tool host env: %v", env)
		}
	}
	found := false
	for _, kv := range env {
		if kv == "PATH=/usr/bin" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected PATH to be kept, got %v", env)
	}
}
