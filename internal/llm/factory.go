package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/DJSaunders1997/GPTeasers/internal/store"
)

// NewProvider creates a Provider from configuration, wrapped with retry
// and request logging. events may be nil.
func NewProvider(ctx context.Context, cfg Config, events store.EventRepo, logger *zap.Logger) (Provider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderDeepSeek:
		base, err = NewDeepSeekProvider(cfg.DeepSeek)
	case ProviderMock:
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	logger.Debug("llm provider ready",
		zap.String("provider", cfg.Provider),
		zap.String("model", base.ModelID()))

	// caller → retry → logging → base
	p := base
	if events != nil {
		p = WithLogging(p, cfg.Provider, events, logger)
	}
	return WithRetry(p, cfg.Retry, logger), nil
}

// NewProviderFromEnv builds a provider from GPTEASERS_* variables, then
// from the providers' standard key variables.
func NewProviderFromEnv(ctx context.Context, events store.EventRepo, logger *zap.Logger) (Provider, error) {
	cfg, ok := DiscoverConfig(ConfigFromEnv())
	if !ok {
		return nil, fmt.Errorf("no LLM API key configured: set GPTEASERS_LLM_PROVIDER and its API key")
	}
	return NewProvider(ctx, cfg, events, logger)
}
