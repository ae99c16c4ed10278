package config

import (
	"strings"

	"github.com/spf13/viper"
)

// fileConfig mirrors the optional config file and the bound environment.
type fileConfig struct {
	Provider      string                  `mapstructure:"provider"`
	Model         string                  `mapstructure:"model"`
	DirectiveFile string                  `mapstructure:"directive_file"`
	Verbose       bool                    `mapstructure:"verbose"`
	LogJSON       bool                    `mapstructure:"log_json"`
	Anthropic     providerConfig          `mapstructure:"anthropic"`
	OpenAI        providerConfig          `mapstructure:"openai"`
	Servers       map[string]ServerConfig `mapstructure:"mcp_servers"`
}

type providerConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// Load reads configuration from the environment and, when path is non-empty,
// from a config file. Environment values win over file values.
func Load(path string) (Config, error) {
	return LoadWithOverrides(path, nil)
}

// LoadWithOverrides is Load with explicit values, keyed like the config
// file, that win over every other source. Command-line flags use it.
func LoadWithOverrides(path string, overrides map[string]any) (Config, error) {
	defaults := DefaultConfig()

	v := viper.New()
	v.SetDefault("provider", defaults.Provider)
	v.SetDefault("verbose", defaults.Verbose)
	v.SetDefault("log_json", false)

	_ = v.BindEnv("provider", "LLM_PROVIDER")
	_ = v.BindEnv("model", "MCP_CLIENT_MODEL")
	_ = v.BindEnv("directive_file", "MCP_CLIENT_DIRECTIVE")
	_ = v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")
	_ = v.BindEnv("anthropic.base_url", "ANTHROPIC_BASE_URL")
	_ = v.BindEnv("openai.api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("openai.base_url", "OPENAI_BASE_URL")

	if path = strings.TrimSpace(path); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, &StartupError{Field: "config", Reason: "cannot read " + path, Err: err}
		}
	}

	for key, value := range overrides {
		v.Set(key, value)
	}

	var raw fileConfig
	if err := v.Unmarshal(&raw); err != nil {
		return Config{}, &StartupError{Field: "config", Reason: "cannot decode " + path, Err: err}
	}

	cfg := defaults
	cfg.Provider = raw.Provider
	cfg.Model = raw.Model
	cfg.DirectiveFile = raw.DirectiveFile
	cfg.Verbose = raw.Verbose
	cfg.LogJSON = raw.LogJSON
	cfg.Servers = raw.Servers

	provider := raw.Anthropic
	if strings.EqualFold(strings.TrimSpace(raw.Provider), ProviderOpenAI) {
		provider = raw.OpenAI
	}
	cfg.APIKey = provider.APIKey
	cfg.BaseURL = provider.BaseURL

	return Normalize(cfg), nil
}
