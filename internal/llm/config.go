package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider names.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderDeepSeek   = "deepseek"
	ProviderMock       = "mock"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	DeepSeek   DeepSeekConfig
	Retry      RetryConfig

	// Timeout bounds a single generation including retries. Default: 30s.
	Timeout time.Duration
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string // Optional. Override for compatible APIs.
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string // Optional. Override for proxies.
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

type DeepSeekConfig struct {
	APIKey  string
	Model   string
	BaseURL string // Default: "https://api.deepseek.com/v1"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderOpenAI,
		Anthropic:  AnthropicConfig{Model: "claude-3-sonnet"},
		OpenAI:     OpenAIConfig{Model: "gpt-3.5-turbo"},
		Gemini:     GeminiConfig{Model: "gemini-pro"},
		OpenRouter: OpenRouterConfig{Model: "openai/gpt-4o"},
		DeepSeek:   DeepSeekConfig{Model: "deepseek-chat"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 30 * time.Second,
	}
}

// ConfigFromEnv builds a Config from GPTEASERS_* environment variables,
// falling back to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	setFromEnv(&cfg.Provider, "GPTEASERS_LLM_PROVIDER")

	setFromEnv(&cfg.Anthropic.APIKey, "GPTEASERS_ANTHROPIC_API_KEY")
	setFromEnv(&cfg.Anthropic.Model, "GPTEASERS_ANTHROPIC_MODEL")

	setFromEnv(&cfg.OpenAI.APIKey, "GPTEASERS_OPENAI_API_KEY")
	setFromEnv(&cfg.OpenAI.Model, "GPTEASERS_OPENAI_MODEL")
	setFromEnv(&cfg.OpenAI.BaseURL, "GPTEASERS_OPENAI_BASE_URL")

	setFromEnv(&cfg.Gemini.APIKey, "GPTEASERS_GEMINI_API_KEY")
	setFromEnv(&cfg.Gemini.Model, "GPTEASERS_GEMINI_MODEL")

	setFromEnv(&cfg.OpenRouter.APIKey, "GPTEASERS_OPENROUTER_API_KEY")
	setFromEnv(&cfg.OpenRouter.Model, "GPTEASERS_OPENROUTER_MODEL")

	setFromEnv(&cfg.DeepSeek.APIKey, "GPTEASERS_DEEPSEEK_API_KEY")
	setFromEnv(&cfg.DeepSeek.Model, "GPTEASERS_DEEPSEEK_MODEL")

	return cfg
}

func setFromEnv(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

// DiscoverConfig fills in API keys from the providers' standard variables
// (OPENAI_API_KEY and friends) and picks the first provider that has one
// when cfg's own provider has no key. Returns false if no key was found.
func DiscoverConfig(cfg Config) (Config, bool) {
	standard := []struct {
		provider string
		env      string
		dst      *string
	}{
		{ProviderOpenAI, "OPENAI_API_KEY", &cfg.OpenAI.APIKey},
		{ProviderAnthropic, "ANTHROPIC_API_KEY", &cfg.Anthropic.APIKey},
		{ProviderGemini, "GEMINI_API_KEY", &cfg.Gemini.APIKey},
		{ProviderOpenRouter, "OPENROUTER_API_KEY", &cfg.OpenRouter.APIKey},
		{ProviderDeepSeek, "DEEPSEEK_API_KEY", &cfg.DeepSeek.APIKey},
	}
	for _, s := range standard {
		if *s.dst == "" {
			setFromEnv(s.dst, s.env)
		}
	}

	if cfg.Validate() == nil {
		return cfg, true
	}
	for _, s := range standard {
		if *s.dst != "" {
			cfg.Provider = s.provider
			return cfg, true
		}
	}
	return cfg, false
}

// RouteModel maps a quiz model identifier to a provider and the model ID
// that provider expects. Identifiers may carry a provider prefix
// ("anthropic/claude-3-sonnet-20240229", "gemini/gemini-pro"); bare names
// are routed by their family.
func RouteModel(model string) (provider, id string) {
	model = strings.TrimSpace(model)
	if prefix, rest, ok := strings.Cut(model, "/"); ok {
		switch prefix {
		case ProviderAnthropic, ProviderOpenAI, ProviderGemini, ProviderDeepSeek:
			return prefix, rest
		case ProviderOpenRouter:
			return ProviderOpenRouter, rest
		}
		// Unknown prefixes are vendor/model slugs only OpenRouter serves.
		return ProviderOpenRouter, model
	}

	switch {
	case strings.HasPrefix(model, "claude"):
		return ProviderAnthropic, model
	case strings.HasPrefix(model, "gemini"):
		return ProviderGemini, model
	case strings.HasPrefix(model, "deepseek"):
		return ProviderDeepSeek, model
	case model == ProviderMock:
		return ProviderMock, model
	}
	return ProviderOpenAI, model
}

// ForModel returns a copy of c that serves model. An empty model leaves
// the configuration unchanged.
func (c Config) ForModel(model string) Config {
	if strings.TrimSpace(model) == "" {
		return c
	}
	provider, id := RouteModel(model)
	c.Provider = provider
	switch provider {
	case ProviderAnthropic:
		c.Anthropic.Model = id
	case ProviderOpenAI:
		c.OpenAI.Model = id
	case ProviderGemini:
		c.Gemini.Model = id
	case ProviderOpenRouter:
		c.OpenRouter.Model = id
	case ProviderDeepSeek:
		c.DeepSeek.Model = id
	}
	return c
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	var key, env string
	switch c.Provider {
	case ProviderAnthropic:
		key, env = c.Anthropic.APIKey, "GPTEASERS_ANTHROPIC_API_KEY"
	case ProviderOpenAI:
		key, env = c.OpenAI.APIKey, "GPTEASERS_OPENAI_API_KEY"
	case ProviderGemini:
		key, env = c.Gemini.APIKey, "GPTEASERS_GEMINI_API_KEY"
	case ProviderOpenRouter:
		key, env = c.OpenRouter.APIKey, "GPTEASERS_OPENROUTER_API_KEY"
	case ProviderDeepSeek:
		key, env = c.DeepSeek.APIKey, "GPTEASERS_DEEPSEEK_API_KEY"
	case ProviderMock:
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("%s is required for the %s provider", env, c.Provider)
	}
	return nil
}
