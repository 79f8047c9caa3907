package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Config selects and configures a provider.
type Config struct {
	// Provider is one of "gemini", "openai", "anthropic", "mock" or "" (none).
	Provider string
	Model    string
	APIKey   string
	// BaseURL overrides the OpenAI endpoint for compatible APIs.
	BaseURL string
}

// NewProvider builds the configured provider wrapped with logging. It
// returns (nil, nil) when no provider is configured.
func NewProvider(ctx context.Context, cfg Config, log *zap.Logger) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "":
		return nil, nil
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg)
	case "openai":
		base, err = NewOpenAIProvider(cfg)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg)
	case "mock":
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}
	return WithLogging(base, log), nil
}
