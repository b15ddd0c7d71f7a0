package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/DJSaunders1997/GPTeasers/internal/quiz"
	"github.com/DJSaunders1997/GPTeasers/internal/ui/theme"
)

// ChoiceMsg is emitted when the user commits to an option.
type ChoiceMsg struct {
	Key string
}

// MultiChoice is an A/B/C option selector. After Reveal it marks the
// correct option and the user's choice.
type MultiChoice struct {
	Question string
	Options  []quiz.Option
	Selected int

	Chosen   string
	Answer   string
	Revealed bool
}

// NewMultiChoice creates a selector for q.
func NewMultiChoice(q quiz.Question) MultiChoice {
	return MultiChoice{
		Question: q.Text,
		Options:  q.Options(),
	}
}

// Init returns nil.
func (m MultiChoice) Init() tea.Cmd {
	return nil
}

// Update handles arrows, Enter and the option letters or numbers.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Chosen != "" {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
		return m, nil
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
		return m, nil
	case "enter":
		return m.choose(m.Selected)
	}

	for i, opt := range m.Options {
		if strings.EqualFold(key, opt.Key) || key == fmt.Sprint(i+1) {
			return m.choose(i)
		}
	}
	return m, nil
}

func (m MultiChoice) choose(i int) (MultiChoice, tea.Cmd) {
	if i < 0 || i >= len(m.Options) {
		return m, nil
	}
	m.Selected = i
	m.Chosen = m.Options[i].Key
	key := m.Chosen
	return m, func() tea.Msg { return ChoiceMsg{Key: key} }
}

// Reveal marks answer as the correct option.
func (m *MultiChoice) Reveal(answer string) {
	m.Answer = answer
	m.Revealed = true
}

// View renders the question and its options.
func (m MultiChoice) View() string {
	questionStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	s := questionStyle.Render(m.Question) + "\n\n"

	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.Revealed {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, opt.Key, opt.Text)

		style := theme.Unselected
		switch {
		case m.Revealed && opt.Key == m.Answer:
			style = theme.Correct
			line += "  ✓"
		case m.Revealed && opt.Key == m.Chosen:
			style = theme.Incorrect
			line += "  ✗"
		case m.Revealed:
			style = theme.Muted
		case i == m.Selected:
			style = theme.Selected
		}
		s += style.Render(line) + "\n"
	}

	return s
}

// IsCorrect reports whether the revealed answer matches the choice.
func (m MultiChoice) IsCorrect() bool {
	return m.Revealed && m.Chosen != "" && m.Chosen == m.Answer
}
