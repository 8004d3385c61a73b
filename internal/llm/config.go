package llm

import (
	"fmt"
	"os"
	"time"
)

// Config selects and configures a provider. It is embedded in the
// application config file under the "llm" key.
type Config struct {
	// Provider is one of anthropic, openai, gemini, openrouter, mock.
	Provider string `yaml:"provider"`

	Anthropic  ProviderConfig `yaml:"anthropic"`
	OpenAI     ProviderConfig `yaml:"openai"`
	Gemini     ProviderConfig `yaml:"gemini"`
	OpenRouter ProviderConfig `yaml:"openrouter"`

	Retry RetryConfig `yaml:"retry"`

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration `yaml:"timeout"`
}

// ProviderConfig holds the per-provider connection settings. BaseURL is
// only honoured by the OpenAI-compatible providers.
type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// RetryConfig is the client retry policy. MaxAttempts of 1 disables
// retries, so a failed generation surfaces to the caller immediately.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	InitialWait time.Duration `yaml:"initial_wait"`
	MaxWait     time.Duration `yaml:"max_wait"`
	Multiplier  float64       `yaml:"multiplier"`
}

func DefaultConfig() Config {
	return Config{
		Provider:   "anthropic",
		Anthropic:  ProviderConfig{Model: "claude-haiku"},
		OpenAI:     ProviderConfig{Model: "gpt-4o-mini"},
		Gemini:     ProviderConfig{Model: "gemini-flash"},
		OpenRouter: ProviderConfig{Model: "anthropic/claude-3.5-haiku", BaseURL: defaultOpenRouterBaseURL},
		Retry: RetryConfig{
			MaxAttempts: 1,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 60 * time.Second,
	}
}

// ApplyEnv overrides cfg with STUDYBUDDY_* variables.
func (c *Config) ApplyEnv() {
	setString(&c.Provider, "STUDYBUDDY_LLM_PROVIDER")

	setString(&c.Anthropic.APIKey, "STUDYBUDDY_ANTHROPIC_API_KEY")
	setString(&c.Anthropic.Model, "STUDYBUDDY_ANTHROPIC_MODEL")

	setString(&c.OpenAI.APIKey, "STUDYBUDDY_OPENAI_API_KEY")
	setString(&c.OpenAI.Model, "STUDYBUDDY_OPENAI_MODEL")
	setString(&c.OpenAI.BaseURL, "STUDYBUDDY_OPENAI_BASE_URL")

	setString(&c.Gemini.APIKey, "STUDYBUDDY_GEMINI_API_KEY")
	setString(&c.Gemini.Model, "STUDYBUDDY_GEMINI_MODEL")

	setString(&c.OpenRouter.APIKey, "STUDYBUDDY_OPENROUTER_API_KEY")
	setString(&c.OpenRouter.Model, "STUDYBUDDY_OPENROUTER_MODEL")
}

// ConfigFromEnv is DefaultConfig with ApplyEnv applied.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	cfg.ApplyEnv()
	return cfg
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// DiscoverConfig falls back to the vendors' own key variables when no
// provider key is configured, trying Anthropic, OpenAI, Gemini and
// OpenRouter in that order.
func (c *Config) DiscoverConfig() bool {
	if c.Validate() == nil {
		return true
	}
	probes := []struct {
		env      string
		provider string
		dst      *string
	}{
		{"ANTHROPIC_API_KEY", "anthropic", &c.Anthropic.APIKey},
		{"OPENAI_API_KEY", "openai", &c.OpenAI.APIKey},
		{"GEMINI_API_KEY", "gemini", &c.Gemini.APIKey},
		{"OPENROUTER_API_KEY", "openrouter", &c.OpenRouter.APIKey},
	}
	for _, p := range probes {
		if k := os.Getenv(p.env); k != "" {
			c.Provider = p.provider
			*p.dst = k
			return true
		}
	}
	return false
}

// Validate checks the selected provider has a key.
func (c Config) Validate() error {
	var key, env string
	switch c.Provider {
	case "anthropic":
		key, env = c.Anthropic.APIKey, "STUDYBUDDY_ANTHROPIC_API_KEY"
	case "openai":
		key, env = c.OpenAI.APIKey, "STUDYBUDDY_OPENAI_API_KEY"
	case "gemini":
		key, env = c.Gemini.APIKey, "STUDYBUDDY_GEMINI_API_KEY"
	case "openrouter":
		key, env = c.OpenRouter.APIKey, "STUDYBUDDY_OPENROUTER_API_KEY"
	case "mock":
		return nil
	default:
		return fmt.Errorf("unknown LLM provider %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("%s is required for the %s provider", env, c.Provider)
	}
	return nil
}
