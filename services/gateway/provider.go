package gateway

import (
	"context"
	"fmt"

	"rubricgen/config"
)

// NewGenerator builds the generator for the configured provider.
func NewGenerator(ctx context.Context, cfg *config.Config) (Generator, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		return NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	case config.ProviderAnthropic:
		return NewAnthropicGenerator(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	case config.ProviderOpenAI:
		return NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	default:
		return nil, fmt.Errorf("unsupported provider %q", cfg.Provider)
	}
}
