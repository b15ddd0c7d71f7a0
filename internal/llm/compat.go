package llm

import "fmt"

const (
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	defaultDeepSeekBaseURL   = "https://api.deepseek.com/v1"
)

// NewOpenRouterProvider targets OpenRouter. Model IDs are vendor slugs such
// as "meta-llama/llama-3-8b" and pass through unchanged.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}
	return newChatProvider(ProviderOpenRouter, cfg.APIKey, baseURL, cfg.Model, schemaStrict), nil
}

// NewDeepSeekProvider targets DeepSeek. Its API has no json_schema response
// format, so the question schema travels in the system prompt.
func NewDeepSeekProvider(cfg DeepSeekConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("deepseek API key is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultDeepSeekBaseURL
	}
	return newChatProvider(ProviderDeepSeek, cfg.APIKey, baseURL, cfg.Model, schemaInPrompt), nil
}
