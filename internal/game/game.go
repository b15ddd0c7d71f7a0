// Package game runs one quiz: it ties a question source to a session,
// records the result in the history and fetches the topic image.
package game

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DJSaunders1997/GPTeasers/internal/quiz"
	"github.com/DJSaunders1997/GPTeasers/internal/store"
	"github.com/DJSaunders1997/GPTeasers/internal/stream"
)

// DefaultDifficulty is used when Settings.Difficulty is empty.
const DefaultDifficulty = "Medium"

// Difficulties lists the levels the question generator understands.
var Difficulties = []string{"Easy", "Medium", "Hard"}

// ImageFetcher returns an image reference for a prompt.
type ImageFetcher interface {
	FetchImage(ctx context.Context, prompt string) (string, error)
}

// HistoryWriter stores a completed quiz.
type HistoryWriter interface {
	Append(ctx context.Context, entry store.HistoryEntry) error
}

// Deps are the collaborators of a game. Images and History may be nil.
type Deps struct {
	Source  stream.Source
	Images  ImageFetcher
	History HistoryWriter
	Logger  *zap.Logger

	// Now defaults to time.Now.
	Now func() time.Time
}

// Settings describe the quiz the user asked for.
type Settings struct {
	Topic      string
	Difficulty string
	Model      string
	Count      int
}

// Game is a single quiz run.
type Game struct {
	id       string
	settings Settings
	deps     Deps
	session  *quiz.Session
	consumer *stream.Consumer
	logger   *zap.Logger

	saveOnce sync.Once
}

// New validates settings and prepares a run. Nothing is requested until
// Start is called.
func New(deps Deps, settings Settings) (*Game, error) {
	settings.Topic = strings.TrimSpace(settings.Topic)
	if err := quiz.ValidateTopic(settings.Topic); err != nil {
		return nil, err
	}
	if settings.Count <= 0 {
		return nil, &quiz.ValidationError{
			Field:   "count",
			Message: fmt.Sprintf("must be positive, got %d", settings.Count),
		}
	}
	if settings.Difficulty == "" {
		settings.Difficulty = DefaultDifficulty
	}
	if deps.Source == nil {
		return nil, fmt.Errorf("game: question source is required")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	id := uuid.NewString()
	logger := deps.Logger.With(zap.String("run_id", id))
	session := quiz.NewSession(settings.Count)

	return &Game{
		id:       id,
		settings: settings,
		deps:     deps,
		session:  session,
		consumer: stream.NewConsumer(deps.Source, session, logger),
		logger:   logger,
	}, nil
}

// ID returns the run id attached to every request of this game.
func (g *Game) ID() string { return g.id }

// Settings returns the normalized settings.
func (g *Game) Settings() Settings { return g.settings }

// Session returns the underlying quiz session.
func (g *Game) Session() *quiz.Session { return g.session }

// Start streams questions into the session and blocks until the stream
// completes. onQuestion is called after each question is added.
func (g *Game) Start(ctx context.Context, onQuestion func(quiz.Question)) error {
	g.logger.Info("starting quiz",
		zap.String("topic", g.settings.Topic),
		zap.String("difficulty", g.settings.Difficulty),
		zap.String("model", g.settings.Model),
		zap.Int("count", g.settings.Count))

	return g.consumer.Run(store.WithRunID(ctx, g.id), g.request(), onQuestion)
}

// StartAsync is Start on its own goroutine, viewed as channels.
func (g *Game) StartAsync(ctx context.Context) *stream.Stream {
	return stream.Start(store.WithRunID(ctx, g.id), g.consumer, g.request())
}

func (g *Game) request() stream.Request {
	return stream.Request{
		Topic:      g.settings.Topic,
		Difficulty: g.settings.Difficulty,
		Model:      g.settings.Model,
		Count:      g.settings.Count,
	}
}

// Answer scores key against the current question. The boolean is false
// when there is nothing to answer. The finishing answer appends a history
// entry; a failed write is logged and does not affect the result.
func (g *Game) Answer(ctx context.Context, key string) (quiz.AnswerResult, bool) {
	res, ok := g.session.CheckAnswer(key)
	if !ok {
		return res, false
	}
	if res.IsFinished {
		g.saveOnce.Do(func() { g.save(ctx, res) })
	}
	return res, true
}

func (g *Game) save(ctx context.Context, res quiz.AnswerResult) {
	g.logger.Info("quiz finished",
		zap.Int("score", res.Score),
		zap.Int("total", res.TotalQuestions))

	if g.deps.History == nil {
		return
	}
	entry := store.HistoryEntry{
		ID:             g.id,
		Topic:          g.settings.Topic,
		Difficulty:     g.settings.Difficulty,
		Model:          g.settings.Model,
		Score:          res.Score,
		TotalQuestions: res.TotalQuestions,
		FinishedAt:     g.deps.Now().UTC(),
	}
	if err := g.deps.History.Append(ctx, entry); err != nil {
		g.logger.Warn("failed to save quiz history", zap.Error(err))
	}
}

// FetchImage requests an illustration of the quiz topic.
func (g *Game) FetchImage(ctx context.Context) (string, error) {
	if g.deps.Images == nil {
		return "", fmt.Errorf("game: no image fetcher configured")
	}
	return g.deps.Images.FetchImage(store.WithRunID(ctx, g.id), g.settings.Topic)
}

// Close stops the question stream. Safe to call at any time.
func (g *Game) Close() error {
	return g.consumer.Close()
}
