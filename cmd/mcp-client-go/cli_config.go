package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/joho/godotenv"
	configpkg "github.com/minhyannv/mcp-client-go/pkg/config"
)

const usageLine = "Usage: mcp-client-go [flags] <path_to_server_script|endpoint|server_name>"

// errUsage means the endpoint argument is missing.
var errUsage = errors.New("missing server argument")

// parseCLIConfig loads .env, flags, environment and the optional config file
// into runtime config. Flags win over everything else.
func parseCLIConfig(args []string, stderr io.Writer) (configpkg.Config, error) {
	_ = godotenv.Load()

	fs := flag.NewFlagSet("mcp-client-go", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		_, _ = fmt.Fprintln(fs.Output(), usageLine)
		fs.PrintDefaults()
	}

	configPath := fs.String("config", "", "Config file (YAML, TOML or JSON) with provider settings and mcp_servers")
	verbose := fs.Bool("verbose", false, "Log model and tool round trips")
	logJSON := fs.Bool("log_json", false, "Write logs as JSON lines")
	directiveFile := fs.String("directive", "", "Markdown file replacing the built-in directive")
	provider := fs.String("provider", "", "LLM provider: anthropic or openai")
	model := fs.String("model", "", "Model name")
	if err := fs.Parse(args); err != nil {
		return configpkg.Config{}, err
	}
	if fs.NArg() == 0 || strings.TrimSpace(fs.Arg(0)) == "" {
		return configpkg.Config{}, errUsage
	}

	overrides := map[string]any{}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "verbose":
			overrides["verbose"] = *verbose
		case "log_json":
			overrides["log_json"] = *logJSON
		case "directive":
			overrides["directive_file"] = strings.TrimSpace(*directiveFile)
		case "provider":
			overrides["provider"] = strings.TrimSpace(*provider)
		case "model":
			overrides["model"] = strings.TrimSpace(*model)
		}
	})

	cfg, err := configpkg.LoadWithOverrides(*configPath, overrides)
	if err != nil {
		return configpkg.Config{}, err
	}
	cfg.Server = fs.Arg(0)
	cfg = configpkg.Normalize(cfg)
	if err := configpkg.Validate(cfg); err != nil {
		return configpkg.Config{}, err
	}
	return cfg, nil
}
