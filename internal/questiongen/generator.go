package questiongen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/DJSaunders1997/GPTeasers/internal/llm"
	"github.com/DJSaunders1997/GPTeasers/internal/quiz"
)

// GenerateInput holds all context needed to generate one question.
type GenerateInput struct {
	Topic      string
	Difficulty string

	// Number is the 1-based position of the question; Total the quiz size.
	Number int
	Total  int

	// PriorQuestions holds the text of questions already generated for
	// this quiz.
	PriorQuestions []string
}

// Generator produces quiz questions.
type Generator interface {
	// Generate returns a validated question or an error.
	Generate(ctx context.Context, input GenerateInput) (*quiz.Question, error)
}

// LLMGenerator implements Generator using an LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
	logger   *zap.Logger
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config, logger *zap.Logger) *LLMGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	return &LLMGenerator{provider: provider, config: cfg, logger: logger}
}

// Generate produces a single question, regenerating on retryable
// validation failures up to MaxAttempts times.
func (g *LLMGenerator) Generate(ctx context.Context, input GenerateInput) (*quiz.Question, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeQuestion)

	var lastErr error
	for attempt := 1; attempt <= g.config.MaxAttempts; attempt++ {
		q, err := g.generateOnce(ctx, input)
		if err == nil {
			return q, nil
		}
		lastErr = err

		var verr *ValidationError
		if !errors.As(err, &verr) || !verr.Retryable {
			return nil, err
		}
		g.logger.Info("regenerating rejected question",
			zap.String("validator", verr.Validator),
			zap.String("reason", verr.Message),
			zap.Int("attempt", attempt))
	}
	return nil, lastErr
}

func (g *LLMGenerator) generateOnce(ctx context.Context, input GenerateInput) (*quiz.Question, error) {
	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(input, g.config)},
		},
		Schema:      QuestionSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var q quiz.Question
	if err := json.Unmarshal(resp.Content, &q); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}
	q.ID = input.Number

	for _, v := range g.config.Validators {
		if verr := v.Validate(&q, input); verr != nil {
			return nil, verr
		}
	}
	return &q, nil
}
