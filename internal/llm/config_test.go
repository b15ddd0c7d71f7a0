package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouteModel(t *testing.T) {
	tests := []struct {
		model        string
		wantProvider string
		wantID       string
	}{
		{"gpt-3.5-turbo", ProviderOpenAI, "gpt-3.5-turbo"},
		{"gpt-4-turbo-preview", ProviderOpenAI, "gpt-4-turbo-preview"},
		{"openai/gpt-4o", ProviderOpenAI, "gpt-4o"},
		{"anthropic/claude-3-sonnet-20240229", ProviderAnthropic, "claude-3-sonnet-20240229"},
		{"claude-haiku-4-5", ProviderAnthropic, "claude-haiku-4-5"},
		{"gemini/gemini-pro", ProviderGemini, "gemini-pro"},
		{"deepseek-chat", ProviderDeepSeek, "deepseek-chat"},
		{"openrouter/meta-llama/llama-3-8b", ProviderOpenRouter, "meta-llama/llama-3-8b"},
		{"mistralai/mistral-7b", ProviderOpenRouter, "mistralai/mistral-7b"},
		{"mock", ProviderMock, "mock"},
	}
	for _, tt := range tests {
		p, id := RouteModel(tt.model)
		assert.Equal(t, tt.wantProvider, p, tt.model)
		assert.Equal(t, tt.wantID, id, tt.model)
	}
}

func TestConfig_ForModel(t *testing.T) {
	base := DefaultConfig()
	base.Anthropic.APIKey = "sk-ant"

	cfg := base.ForModel("anthropic/claude-3-sonnet-20240229")
	assert.Equal(t, ProviderAnthropic, cfg.Provider)
	assert.Equal(t, "claude-3-sonnet-20240229", cfg.Anthropic.Model)
	assert.Equal(t, "sk-ant", cfg.Anthropic.APIKey)
	assert.Equal(t, ProviderOpenAI, base.Provider, "original untouched")

	assert.Equal(t, base, base.ForModel("  "))
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("GPTEASERS_LLM_PROVIDER", "deepseek")
	t.Setenv("GPTEASERS_DEEPSEEK_API_KEY", "sk-ds")
	t.Setenv("GPTEASERS_DEEPSEEK_MODEL", "deepseek-reasoner")

	cfg := ConfigFromEnv()
	assert.Equal(t, ProviderDeepSeek, cfg.Provider)
	assert.Equal(t, "sk-ds", cfg.DeepSeek.APIKey)
	assert.Equal(t, "deepseek-reasoner", cfg.DeepSeek.Model)
	assert.NoError(t, cfg.Validate())
}

func TestDiscoverConfig(t *testing.T) {
	for _, k := range []string{"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GEMINI_API_KEY", "OPENROUTER_API_KEY", "DEEPSEEK_API_KEY"} {
		t.Setenv(k, "")
	}

	_, ok := DiscoverConfig(DefaultConfig())
	assert.False(t, ok)

	t.Setenv("GEMINI_API_KEY", "g-key")
	cfg, ok := DiscoverConfig(DefaultConfig())
	require.True(t, ok)
	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.Equal(t, "g-key", cfg.Gemini.APIKey)

	t.Setenv("OPENAI_API_KEY", "o-key")
	cfg, ok = DiscoverConfig(DefaultConfig())
	require.True(t, ok)
	assert.Equal(t, ProviderOpenAI, cfg.Provider, "configured provider wins when it has a key")
}

func TestNewProvider_Mock(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: ProviderMock}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "mock", p.ModelID())
}

func TestNewProvider_MissingKey(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{Provider: ProviderAnthropic}, nil, nil)
	assert.ErrorContains(t, err, "GPTEASERS_ANTHROPIC_API_KEY")
}

func TestNewDeepSeekProvider(t *testing.T) {
	p, err := NewDeepSeekProvider(DeepSeekConfig{APIKey: "sk", Model: "deepseek-chat"})
	require.NoError(t, err)
	assert.Equal(t, "deepseek-chat", p.ModelID())

	_, err = NewDeepSeekProvider(DeepSeekConfig{Model: "deepseek-chat"})
	assert.Error(t, err)
}

func TestLookupCost(t *testing.T) {
	require.NotNil(t, LookupCost("gpt-3.5-turbo"))
	require.NotNil(t, LookupCost("openai/gpt-4o"))
	require.NotNil(t, LookupCost("anthropic/claude-3-sonnet-20240229"))
	assert.Nil(t, LookupCost("no-such-model"))

	c := LookupCost("deepseek-chat")
	require.NotNil(t, c)
	assert.InDelta(t, 0.27+1.1, c.Cost(1_000_000, 1_000_000), 1e-9)
}
