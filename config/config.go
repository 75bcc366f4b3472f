package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

type Config struct {
	Port          string
	Provider      string
	LogMode       string
	ActionTimeout time.Duration

	GeminiAPIKey string
	GeminiModel  string

	AnthropicAPIKey string
	AnthropicModel  string

	OpenAIAPIKey string
	OpenAIModel  string
}

// Load reads configuration from the environment, after merging a local .env
// file when one exists. Values already present in the environment win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:            envString("PORT", "8080"),
		Provider:        strings.ToLower(envString("LLM_PROVIDER", ProviderGemini)),
		LogMode:         envString("LOG_MODE", "dev"),
		ActionTimeout:   envDuration("ACTION_TIMEOUT", 90*time.Second),
		GeminiAPIKey:    envString("GEMINI_API_KEY", os.Getenv("API_KEY")),
		GeminiModel:     envString("GEMINI_MODEL", "gemini-2.5-flash"),
		AnthropicAPIKey: envString("ANTHROPIC_API_KEY", ""),
		AnthropicModel:  envString("ANTHROPIC_MODEL", "claude-sonnet-4-20250514"),
		OpenAIAPIKey:    envString("OPENAI_API_KEY", ""),
		OpenAIModel:     envString("OPENAI_MODEL", "gpt-4o-mini"),
	}
}

// APIKey returns the credential for the selected provider.
func (c *Config) APIKey() string {
	switch c.Provider {
	case ProviderAnthropic:
		return c.AnthropicAPIKey
	case ProviderOpenAI:
		return c.OpenAIAPIKey
	default:
		return c.GeminiAPIKey
	}
}

// Model returns the model name for the selected provider.
func (c *Config) Model() string {
	switch c.Provider {
	case ProviderAnthropic:
		return c.AnthropicModel
	case ProviderOpenAI:
		return c.OpenAIModel
	default:
		return c.GeminiModel
	}
}

func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderGemini, ProviderAnthropic, ProviderOpenAI:
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER %q", c.Provider)
	}

	if c.APIKey() == "" {
		return fmt.Errorf("%s environment variable is required", c.keyVariable())
	}

	if c.ActionTimeout <= 0 {
		return fmt.Errorf("ACTION_TIMEOUT must be positive, got %s", c.ActionTimeout)
	}

	return nil
}

func (c *Config) keyVariable() string {
	switch c.Provider {
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	default:
		return "GEMINI_API_KEY"
	}
}

func envString(name, def string) string {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	return v
}

func envDuration(name string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
