package config

import (
	"strings"
)

const (
	// ProviderAnthropic selects the Anthropic Messages API.
	ProviderAnthropic = "anthropic"
	// ProviderOpenAI selects an OpenAI-compatible chat completions API.
	ProviderOpenAI = "openai"

	// DefaultAnthropicModel is used when no model is configured for Anthropic.
	DefaultAnthropicModel = "claude-3-5-sonnet-20241022"
	// DefaultOpenAIModel is used when no model is configured for OpenAI.
	DefaultOpenAIModel = "gpt-4o-mini"

	// MaxTokens bounds every model reply. It is not user tunable.
	MaxTokens = 1000
)

// ServerConfig describes a named MCP server declared in the config file.
type ServerConfig struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
	// Env entries use the KEY=VALUE form so that key case survives viper.
	Env []string `mapstructure:"env"`
	URL string   `mapstructure:"url"`
}

// Config holds all runtime configuration for the agent.
type Config struct {
	// Server is the endpoint argument: a script path, command, URL or a
	// name from Servers.
	Server  string
	Servers map[string]ServerConfig

	Provider      string
	APIKey        string
	BaseURL       string
	Model         string
	MaxTokens     int
	DirectiveFile string

	Verbose bool
	LogJSON bool
}

// DefaultConfig returns a baseline configuration without side effects.
func DefaultConfig() Config {
	return Config{
		Provider:  ProviderAnthropic,
		MaxTokens: MaxTokens,
		Verbose:   false,
	}
}

// Normalize sanitizes configuration values and applies defaults.
func Normalize(cfg Config) Config {
	cfg.Server = strings.TrimSpace(cfg.Server)
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	cfg.Model = strings.TrimSpace(cfg.Model)
	cfg.DirectiveFile = strings.TrimSpace(cfg.DirectiveFile)

	if cfg.Provider == "" {
		cfg.Provider = ProviderAnthropic
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel(cfg.Provider)
	}
	cfg.MaxTokens = MaxTokens

	normalized := make(map[string]ServerConfig, len(cfg.Servers))
	for name, srv := range cfg.Servers {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		srv.Command = strings.TrimSpace(srv.Command)
		srv.URL = strings.TrimSpace(srv.URL)
		normalized[name] = srv
	}
	cfg.Servers = normalized
	return cfg
}

// Validate reports the first configuration problem that prevents startup.
func Validate(cfg Config) error {
	switch cfg.Provider {
	case ProviderAnthropic, ProviderOpenAI:
	default:
		return &StartupError{Field: "provider", Reason: "unsupported provider " + cfg.Provider}
	}
	if cfg.APIKey == "" {
		return &StartupError{Field: APIKeyEnv(cfg.Provider), Reason: "is not set"}
	}
	if cfg.Server == "" {
		return &StartupError{Field: "server", Reason: "endpoint argument is required"}
	}
	for name, srv := range cfg.Servers {
		if srv.Command == "" && srv.URL == "" {
			return &StartupError{Field: "mcp_servers." + name, Reason: "command or url is required"}
		}
	}
	return nil
}

func defaultModel(provider string) string {
	if provider == ProviderOpenAI {
		return DefaultOpenAIModel
	}
	return DefaultAnthropicModel
}

// APIKeyEnv names the environment variable holding the provider's key.
func APIKeyEnv(provider string) string {
	if provider == ProviderOpenAI {
		return "OPENAI_API_KEY"
	}
	return "ANTHROPIC_API_KEY"
}
