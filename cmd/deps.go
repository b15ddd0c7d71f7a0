package cmd

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/DJSaunders1997/GPTeasers/internal/api"
	"github.com/DJSaunders1997/GPTeasers/internal/config"
	"github.com/DJSaunders1997/GPTeasers/internal/game"
	"github.com/DJSaunders1997/GPTeasers/internal/llm"
	"github.com/DJSaunders1997/GPTeasers/internal/questiongen"
	"github.com/DJSaunders1997/GPTeasers/internal/store"
	"github.com/DJSaunders1997/GPTeasers/internal/stream"
)

func newClient(events store.EventRepo) (*api.Client, error) {
	client, err := api.New(api.Options{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		RateLimit: cfg.API.RateLimit,
		Burst:     cfg.API.Burst,
		Events:    events,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create API client: %w", err)
	}
	return client, nil
}

// questionSource is where quizzes come from together with the model list
// offered for it.
type questionSource struct {
	stream.Source
	Models func(ctx context.Context) []string

	// Local is true when questions are generated by an LLM provider on
	// this machine.
	Local bool
}

// newSource selects the remote quiz API or local generation by the source
// config key.
func newSource(client *api.Client, events store.EventRepo) (questionSource, error) {
	if cfg.Source != config.SourceLocal {
		return questionSource{Source: client, Models: client.ModelsOrDefault}, nil
	}

	base, ok := llm.DiscoverConfig(llm.ConfigFromEnv())
	if !ok {
		return questionSource{}, errors.New("local source needs an LLM API key: set GPTEASERS_LLM_PROVIDER and its API key, or OPENAI_API_KEY")
	}
	factory := func(ctx context.Context, model string) (llm.Provider, error) {
		return llm.NewProvider(ctx, base.ForModel(model), events, logger)
	}
	src := questiongen.NewSource(factory, questiongen.DefaultConfig(), logger)
	logger.Info("using local question generation", zap.String("provider", base.Provider))
	return questionSource{Source: src, Models: src.Models, Local: true}, nil
}

// defaultSettings are the quiz settings from configuration. Local sources
// default to the provider's own model rather than the API's.
func defaultSettings(ctx context.Context, src questionSource) game.Settings {
	s := game.Settings{
		Difficulty: cfg.Quiz.Difficulty,
		Model:      cfg.Quiz.Model,
		Count:      cfg.Quiz.Count,
	}
	if src.Local {
		s.Model = ""
		if models := src.Models(ctx); len(models) > 0 {
			s.Model = models[0]
		}
	}
	return s
}

// userError logs err and returns the notice shown to the user.
func userError(msg string, err error) error {
	logger.Error(msg, zap.Error(err))
	return errors.New(game.UserMessage(err))
}
