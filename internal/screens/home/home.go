package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/DJSaunders1997/GPTeasers/internal/router"
	"github.com/DJSaunders1997/GPTeasers/internal/screen"
	"github.com/DJSaunders1997/GPTeasers/internal/store"
	"github.com/DJSaunders1997/GPTeasers/internal/ui/components"
	"github.com/DJSaunders1997/GPTeasers/internal/ui/layout"
	"github.com/DJSaunders1997/GPTeasers/internal/ui/theme"
)

// HistoryLoader reads the quiz history for the stats line.
type HistoryLoader interface {
	Load(ctx context.Context) ([]store.HistoryEntry, error)
}

// Options wire the home menu to the other screens.
type Options struct {
	NewQuiz    func() screen.Screen
	NewHistory func() screen.Screen

	// History is optional; without it no stats are shown.
	History HistoryLoader
}

type statsMsg struct {
	played   int
	correct  int
	answered int
}

// HomeScreen is the main menu.
type HomeScreen struct {
	opts  Options
	menu  components.Menu
	stats *statsMsg
}

var (
	_ screen.Screen  = (*HomeScreen)(nil)
	_ screen.Resumer = (*HomeScreen)(nil)
)

// New creates the home screen.
func New(opts Options) *HomeScreen {
	push := func(factory func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: factory()} }
		}
	}

	items := []components.MenuItem{
		{Label: "NEW QUIZ", Hint: "Pick a topic and difficulty", Action: push(opts.NewQuiz), Disabled: opts.NewQuiz == nil},
		{Label: "HISTORY", Hint: "Scores of past quizzes", Action: push(opts.NewHistory), Disabled: opts.NewHistory == nil},
		{Label: "QUIT", Action: func() tea.Cmd { return tea.Quit }},
	}

	return &HomeScreen{opts: opts, menu: components.NewMenu(items)}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadStats()
}

func (h *HomeScreen) loadStats() tea.Cmd {
	if h.opts.History == nil {
		return nil
	}
	loader := h.opts.History
	return func() tea.Msg {
		entries, _ := loader.Load(context.Background())
		msg := statsMsg{played: len(entries)}
		for _, e := range entries {
			msg.correct += e.Score
			msg.answered += e.TotalQuestions
		}
		return msg
	}
}

// Resume refreshes the totals after a quiz or a history clear.
func (h *HomeScreen) Resume() tea.Cmd {
	return h.loadStats()
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statsMsg:
		h.stats = &msg
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := layout.IsCompactWidth(width) || layout.IsCompactHeight(height+layout.HeaderHeight+layout.FooterHeight)

	var sections []string
	if compact {
		sections = append(sections, "\n"+layout.Centered(lipgloss.NewStyle(), width, RenderBanner(0)))
	} else {
		sections = append(sections, layout.Centered(lipgloss.NewStyle(), width, RenderBanner(width)))
	}
	sections = append(sections, layout.Centered(theme.Subtitle, width, tagline))

	if s := h.statsLine(); s != "" {
		sections = append(sections, layout.Centered(theme.Muted, width, s))
	}

	sections = append(sections, lipgloss.PlaceHorizontal(width, lipgloss.Center, h.menu.View()))
	return strings.Join(sections, "\n\n")
}

func (h *HomeScreen) statsLine() string {
	if h.stats == nil || h.stats.played == 0 {
		return ""
	}
	acc := 0.0
	if h.stats.answered > 0 {
		acc = float64(h.stats.correct) / float64(h.stats.answered) * 100
	}
	return fmt.Sprintf("%d quizzes played   %d/%d correct   %.0f%% accuracy",
		h.stats.played, h.stats.correct, h.stats.answered, acc)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
