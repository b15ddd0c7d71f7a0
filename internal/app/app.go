package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/DJSaunders1997/GPTeasers/internal/game"
	"github.com/DJSaunders1997/GPTeasers/internal/router"
	"github.com/DJSaunders1997/GPTeasers/internal/screen"
	"github.com/DJSaunders1997/GPTeasers/internal/screens/history"
	"github.com/DJSaunders1997/GPTeasers/internal/screens/home"
	"github.com/DJSaunders1997/GPTeasers/internal/screens/play"
	"github.com/DJSaunders1997/GPTeasers/internal/screens/setup"
	"github.com/DJSaunders1997/GPTeasers/internal/stream"
	"github.com/DJSaunders1997/GPTeasers/internal/ui/layout"
)

// HistoryStore is the quiz history as used by the TUI.
type HistoryStore interface {
	history.Store
	game.HistoryWriter
}

// Options holds the dependencies of the TUI.
type Options struct {
	Source  stream.Source
	Images  game.ImageFetcher
	History HistoryStore

	// Models lists selectable models for the setup form.
	Models func(ctx context.Context) []string

	// Defaults pre-fill the setup form.
	Defaults game.Settings

	// WithImage fetches a topic image for every quiz.
	WithImage bool

	// Status is shown on the right of the header.
	Status string

	Logger *zap.Logger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	status string
	width  int
	height int
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(opts Options) AppModel {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	deps := game.Deps{
		Source:  opts.Source,
		Images:  opts.Images,
		History: opts.History,
		Logger:  opts.Logger,
	}

	newQuiz := func() screen.Screen {
		return setup.New(setup.Options{
			Defaults: opts.Defaults,
			Models:   opts.Models,
			Start: func(s game.Settings) (screen.Screen, error) {
				g, err := game.New(deps, s)
				if err != nil {
					return nil, err
				}
				return play.New(g, opts.WithImage && opts.Images != nil), nil
			},
		})
	}

	homeOpts := home.Options{NewQuiz: newQuiz}
	if opts.History != nil {
		homeOpts.History = opts.History
		homeOpts.NewHistory = func() screen.Screen { return history.New(opts.History) }
	}

	return AppModel{
		router: router.New(home.New(homeOpts)),
		status: opts.Status,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			for m.router.Depth() > 1 {
				m.router.Pop()
			}
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.status, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if p, ok := active.(screen.KeyHintProvider); ok {
		if hints := p.KeyHints(); len(hints) > 0 {
			return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
