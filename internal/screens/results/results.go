// Package results shows the outcome of a finished quiz.
package results

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/DJSaunders1997/GPTeasers/internal/game"
	"github.com/DJSaunders1997/GPTeasers/internal/quiz"
	"github.com/DJSaunders1997/GPTeasers/internal/router"
	"github.com/DJSaunders1997/GPTeasers/internal/screen"
	"github.com/DJSaunders1997/GPTeasers/internal/ui/layout"
	"github.com/DJSaunders1997/GPTeasers/internal/ui/theme"
)

// Data is everything the results screen shows.
type Data struct {
	Settings game.Settings
	Summary  quiz.Summary
	Image    string
}

// ResultsScreen displays the final score.
type ResultsScreen struct {
	data Data
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

func New(data Data) *ResultsScreen {
	return &ResultsScreen{data: data}
}

func (s *ResultsScreen) Init() tea.Cmd {
	return nil
}

func (s *ResultsScreen) Title() string {
	return "Results"
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Home"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

// Verdict is a one-line comment on the accuracy.
func Verdict(acc float64) string {
	switch {
	case acc >= 1:
		return "Perfect score!"
	case acc >= 0.8:
		return "Excellent work!"
	case acc >= 0.5:
		return "Not bad at all."
	default:
		return "Better luck next time."
	}
}

func (s *ResultsScreen) View(width, height int) string {
	sum := s.data.Summary
	set := s.data.Settings

	lines := []string{
		"",
		layout.Centered(theme.Title, width, "Quiz complete!"),
		"",
		layout.Centered(theme.Body.Bold(true), width, fmt.Sprintf("You scored %d/%d", sum.Score, sum.Total)),
		layout.Centered(theme.Subtitle, width, fmt.Sprintf("%.0f%% accuracy  ·  %s", sum.Accuracy*100, Verdict(sum.Accuracy))),
		"",
		layout.Centered(theme.Muted, width, fmt.Sprintf("Topic: %s   Difficulty: %s   Model: %s", set.Topic, set.Difficulty, set.Model)),
	}
	if s.data.Image != "" {
		lines = append(lines, "", layout.Centered(theme.Link, width, s.data.Image))
	}
	return strings.Join(lines, "\n")
}
