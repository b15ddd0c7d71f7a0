package questiongen

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/DJSaunders1997/GPTeasers/internal/llm"
	"github.com/DJSaunders1997/GPTeasers/internal/stream"
)

// ProviderFactory returns a provider serving model. An empty model selects
// the configured default.
type ProviderFactory func(ctx context.Context, model string) (llm.Provider, error)

// Source generates quiz questions locally and serves them as a question
// stream, one LLM call per question.
type Source struct {
	providers ProviderFactory
	config    Config
	logger    *zap.Logger
}

// NewSource creates a Source.
func NewSource(providers ProviderFactory, cfg Config, logger *zap.Logger) *Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{providers: providers, config: cfg, logger: logger}
}

// Subscribe implements stream.Source.
func (s *Source) Subscribe(ctx context.Context, req stream.Request) (stream.Subscription, error) {
	provider, err := s.providers(ctx, req.Model)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	s.logger.Info("generating questions locally",
		zap.String("topic", req.Topic),
		zap.String("model", provider.ModelID()),
		zap.Int("count", req.Count))

	return &subscription{
		ctx:    ctx,
		cancel: cancel,
		gen:    New(provider, s.config, s.logger),
		req:    req,
	}, nil
}

// Models lists the model of the default provider, or nothing when no
// provider is configured.
func (s *Source) Models(ctx context.Context) []string {
	provider, err := s.providers(ctx, "")
	if err != nil {
		s.logger.Warn("no local provider for model list", zap.Error(err))
		return nil
	}
	return []string{provider.ModelID()}
}

type subscription struct {
	ctx    context.Context
	cancel context.CancelFunc
	gen    Generator
	req    stream.Request

	mu    sync.Mutex
	prior []string
}

// Next generates the next question. It returns io.EOF after req.Count
// questions.
func (s *subscription) Next() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ctx.Err(); err != nil {
		return nil, err
	}
	if len(s.prior) >= s.req.Count {
		return nil, io.EOF
	}

	q, err := s.gen.Generate(s.ctx, GenerateInput{
		Topic:          s.req.Topic,
		Difficulty:     s.req.Difficulty,
		Number:         len(s.prior) + 1,
		Total:          s.req.Count,
		PriorQuestions: append([]string(nil), s.prior...),
	})
	if err != nil {
		return nil, err
	}
	s.prior = append(s.prior, q.Text)
	return json.Marshal(q)
}

func (s *subscription) Close() error {
	s.cancel()
	return nil
}

var _ stream.Source = (*Source)(nil)
