// Package play is the screen that plays one quiz.
package play

import (
	"context"
	"errors"

	tea "charm.land/bubbletea/v2"

	"github.com/DJSaunders1997/GPTeasers/internal/game"
	"github.com/DJSaunders1997/GPTeasers/internal/quiz"
	"github.com/DJSaunders1997/GPTeasers/internal/router"
	"github.com/DJSaunders1997/GPTeasers/internal/screen"
	"github.com/DJSaunders1997/GPTeasers/internal/screens/results"
	"github.com/DJSaunders1997/GPTeasers/internal/stream"
	"github.com/DJSaunders1997/GPTeasers/internal/ui/components"
	"github.com/DJSaunders1997/GPTeasers/internal/ui/layout"
)

// QuizScreen plays a game: it streams questions into the session while the
// user answers the ones already received.
type QuizScreen struct {
	game   *game.Game
	ctx    context.Context
	cancel context.CancelFunc
	stream *stream.Stream

	// WithImage requests the topic image alongside the questions.
	WithImage bool

	choice      components.MultiChoice
	hasQuestion bool
	result      *quiz.AnswerResult

	received   int
	streamDone bool
	streamErr  error

	image    string
	imageErr error
}

var (
	_ screen.Screen          = (*QuizScreen)(nil)
	_ screen.KeyHintProvider = (*QuizScreen)(nil)
	_ screen.Closer          = (*QuizScreen)(nil)
)

// New creates a screen for g. The stream starts on Init.
func New(g *game.Game, withImage bool) *QuizScreen {
	ctx, cancel := context.WithCancel(context.Background())
	return &QuizScreen{game: g, ctx: ctx, cancel: cancel, WithImage: withImage}
}

func (s *QuizScreen) Init() tea.Cmd {
	s.stream = s.game.StartAsync(s.ctx)
	cmds := []tea.Cmd{waitForQuestion(s.stream)}
	if s.WithImage {
		cmds = append(cmds, fetchImage(s.ctx, s.game))
	}
	return tea.Batch(cmds...)
}

// waitForQuestion delivers the next question, or the completion result
// once the question channel is closed.
func waitForQuestion(st *stream.Stream) tea.Cmd {
	return func() tea.Msg {
		if q, ok := <-st.Questions(); ok {
			return questionMsg{Question: q}
		}
		return streamDoneMsg{Err: <-st.Done()}
	}
}

func fetchImage(ctx context.Context, g *game.Game) tea.Cmd {
	return func() tea.Msg {
		ref, err := g.FetchImage(ctx)
		return imageMsg{Ref: ref, Err: err}
	}
}

// Close stops the stream and any image request.
func (s *QuizScreen) Close() {
	s.cancel()
	s.game.Close()
}

func (s *QuizScreen) Title() string {
	return s.game.Settings().Topic
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.result != nil {
		return []layout.KeyHint{{Key: "any key", Description: "Continue"}}
	}
	if !s.hasQuestion {
		return []layout.KeyHint{{Key: "Esc", Description: "Cancel"}}
	}
	return []layout.KeyHint{
		{Key: "A/B/C", Description: "Answer"},
		{Key: "↑↓ Enter", Description: "Select"},
		{Key: "Esc", Description: "Quit quiz"},
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case questionMsg:
		s.received++
		if !s.hasQuestion && s.result == nil {
			s.loadCurrent()
		}
		return s, waitForQuestion(s.stream)

	case streamDoneMsg:
		s.streamDone = true
		if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) {
			s.streamErr = msg.Err
		}
		return s, nil

	case imageMsg:
		s.image, s.imageErr = msg.Ref, msg.Err
		return s, nil

	case components.ChoiceMsg:
		res, ok := s.game.Answer(s.ctx, msg.Key)
		if ok {
			s.choice.Reveal(res.Answer)
			s.result = &res
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if msg.String() == "esc" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	if s.result != nil {
		if s.result.IsFinished {
			return s, s.showResults()
		}
		s.result = nil
		s.loadCurrent()
		return s, nil
	}

	if !s.hasQuestion {
		if s.streamErr != nil {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		return s, nil
	}

	var cmd tea.Cmd
	s.choice, cmd = s.choice.Update(msg)
	return s, cmd
}

func (s *QuizScreen) loadCurrent() {
	q, ok := s.game.Session().CurrentQuestion()
	s.hasQuestion = ok
	if ok {
		s.choice = components.NewMultiChoice(q)
	}
}

func (s *QuizScreen) showResults() tea.Cmd {
	data := results.Data{
		Settings: s.game.Settings(),
		Summary:  s.game.Session().Summary(),
		Image:    s.image,
	}
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: results.New(data)}
	}
}
