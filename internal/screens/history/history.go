package history

import (
	"context"
	"fmt"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/DJSaunders1997/GPTeasers/internal/game"
	"github.com/DJSaunders1997/GPTeasers/internal/router"
	"github.com/DJSaunders1997/GPTeasers/internal/screen"
	"github.com/DJSaunders1997/GPTeasers/internal/store"
	"github.com/DJSaunders1997/GPTeasers/internal/ui/layout"
	"github.com/DJSaunders1997/GPTeasers/internal/ui/theme"
)

// Store is the persisted quiz history.
type Store interface {
	Load(ctx context.Context) ([]store.HistoryEntry, error)
	Clear(ctx context.Context) error
}

type historyLoadedMsg struct {
	Entries []store.HistoryEntry
	Err     error
}

type historyClearedMsg struct {
	Err error
}

// HistoryScreen lists completed quizzes, newest first.
type HistoryScreen struct {
	store      Store
	entries    []store.HistoryEntry
	selected   int
	loaded     bool
	confirming bool
	notice     string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(st Store) *HistoryScreen {
	return &HistoryScreen{store: st}
}

func (s *HistoryScreen) Init() tea.Cmd {
	st := s.store
	return func() tea.Msg {
		entries, err := st.Load(context.Background())
		return historyLoadedMsg{Entries: entries, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	if s.confirming {
		return []layout.KeyHint{
			{Key: "Y", Description: "Clear history"},
			{Key: "N", Description: "Keep"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "C", Description: "Clear"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		// A storage error still comes with an empty list.
		if msg.Err != nil {
			s.notice = game.UserMessage(msg.Err)
		}
		s.entries = slices.Clone(msg.Entries)
		slices.Reverse(s.entries)
		s.selected = 0
		s.loaded = true
		return s, nil

	case historyClearedMsg:
		if msg.Err != nil {
			s.notice = game.UserMessage(msg.Err)
			return s, nil
		}
		s.entries = nil
		s.selected = 0
		s.notice = "History cleared."
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *HistoryScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.confirming {
		s.confirming = false
		if key == "y" || key == "Y" {
			st := s.store
			return s, func() tea.Msg {
				return historyClearedMsg{Err: st.Clear(context.Background())}
			}
		}
		return s, nil
	}

	switch key {
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.entries)-1 {
			s.selected++
		}
	case "c", "C":
		if len(s.entries) > 0 {
			s.confirming = true
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if !s.loaded {
		return layout.Centered(theme.Muted, width, "\n\nLoading history...")
	}

	var b strings.Builder
	b.WriteString("\n")

	if s.notice != "" {
		b.WriteString(layout.Centered(theme.Hint, width, s.notice))
		b.WriteString("\n\n")
	}

	if len(s.entries) == 0 {
		b.WriteString(layout.Centered(theme.Hint, width, "No quizzes yet. Start one from the home screen!"))
		return b.String()
	}

	if s.confirming {
		b.WriteString(layout.Centered(theme.Notice, width, fmt.Sprintf("Clear all %d quiz results? [y/N]", len(s.entries))))
		b.WriteString("\n\n")
	}

	// Keep the selection visible when the list is taller than the screen.
	rows := max(height-6, 1)
	start := 0
	if s.selected >= rows {
		start = s.selected - rows + 1
	}
	end := min(start+rows, len(s.entries))

	for i := start; i < end; i++ {
		line := formatEntry(s.entries[i])
		style := theme.Unselected
		prefix := "  "
		if i == s.selected {
			style = theme.Selected
			prefix = "▸ "
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(prefix+line)))
		b.WriteString("\n")
	}
	return b.String()
}

func formatEntry(e store.HistoryEntry) string {
	date := "unknown date"
	if !e.FinishedAt.IsZero() {
		date = e.FinishedAt.Local().Format("Jan 02 2006 15:04")
	}
	var acc float64
	if e.TotalQuestions > 0 {
		acc = float64(e.Score) / float64(e.TotalQuestions) * 100
	}
	topic := e.Topic
	if len([]rune(topic)) > 28 {
		topic = string([]rune(topic)[:27]) + "…"
	}
	return fmt.Sprintf("%s  %-28s  %-6s  %2d/%-2d  %3.0f%%", date, topic, e.Difficulty, e.Score, e.TotalQuestions, acc)
}
