// Package setup is the quiz setup form: topic, difficulty, model and
// question count.
package setup

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/DJSaunders1997/GPTeasers/internal/game"
	"github.com/DJSaunders1997/GPTeasers/internal/quiz"
	"github.com/DJSaunders1997/GPTeasers/internal/router"
	"github.com/DJSaunders1997/GPTeasers/internal/screen"
	"github.com/DJSaunders1997/GPTeasers/internal/ui/components"
	"github.com/DJSaunders1997/GPTeasers/internal/ui/layout"
	"github.com/DJSaunders1997/GPTeasers/internal/ui/theme"
)

// MaxQuestions caps the question count field.
const MaxQuestions = 50

// Options configure the form.
type Options struct {
	Defaults game.Settings

	// Models lists selectable models. It is called once in the
	// background; nil offers only Defaults.Model.
	Models func(ctx context.Context) []string

	// Start builds the quiz screen for the chosen settings.
	Start func(game.Settings) (screen.Screen, error)
}

const (
	fieldTopic = iota
	fieldDifficulty
	fieldModel
	fieldQuestions
	fieldStart
	numFields
)

type modelsMsg struct {
	models []string
}

// selector cycles through a fixed list with left and right.
type selector struct {
	label   string
	options []string
	index   int
}

func (s *selector) move(d int) {
	if len(s.options) == 0 {
		return
	}
	s.index = (s.index + d + len(s.options)) % len(s.options)
}

func (s selector) value() string {
	if len(s.options) == 0 {
		return ""
	}
	return s.options[s.index]
}

func (s selector) view(focused bool) string {
	label := theme.Muted.Render(fmt.Sprintf("%-12s", s.label))
	val := "‹ " + s.value() + " ›"
	if focused {
		return theme.Selected.Render(fmt.Sprintf("%-12s", s.label)) + theme.Selected.Render(val)
	}
	return label + theme.Unselected.Render(val)
}

// SetupScreen collects quiz settings.
type SetupScreen struct {
	opts       Options
	topic      components.TextInput
	count      components.TextInput
	difficulty selector
	model      selector
	start      components.Button
	focus      int
	errMsg     string
}

var _ screen.Screen = (*SetupScreen)(nil)
var _ screen.KeyHintProvider = (*SetupScreen)(nil)

// New creates the form pre-filled with opts.Defaults.
func New(opts Options) *SetupScreen {
	d := opts.Defaults

	topic := components.NewTextInput("Topic", "e.g. Ancient Rome", false, 100)
	topic.SetValue(d.Topic)

	count := components.NewTextInput("Questions", strconv.Itoa(d.Count), true, 2)
	if d.Count > 0 {
		count.SetValue(strconv.Itoa(d.Count))
	}

	difficulty := selector{label: "Difficulty", options: game.Difficulties}
	if i := slices.Index(game.Difficulties, d.Difficulty); i >= 0 {
		difficulty.index = i
	} else {
		difficulty.index = slices.Index(game.Difficulties, game.DefaultDifficulty)
	}

	return &SetupScreen{
		opts:       opts,
		topic:      topic,
		count:      count,
		difficulty: difficulty,
		model:      selector{label: "Model", options: modelList(d.Model, nil)},
		start:      components.NewButton("Start quiz"),
	}
}

// modelList puts current first and drops duplicates and blanks.
func modelList(current string, models []string) []string {
	var out []string
	for _, m := range append([]string{current}, models...) {
		if m = strings.TrimSpace(m); m != "" && !slices.Contains(out, m) {
			out = append(out, m)
		}
	}
	return out
}

func (s *SetupScreen) Init() tea.Cmd {
	cmds := []tea.Cmd{s.topic.Focus()}
	if s.opts.Models != nil {
		load := s.opts.Models
		cmds = append(cmds, func() tea.Msg {
			return modelsMsg{models: load(context.Background())}
		})
	}
	return tea.Batch(cmds...)
}

func (s *SetupScreen) Title() string {
	return "New Quiz"
}

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab/↑↓", Description: "Field"},
		{Key: "←→", Description: "Change"},
		{Key: "Enter", Description: "Start"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case modelsMsg:
		current := s.model.value()
		s.model.options = modelList(current, msg.models)
		s.model.index = 0
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, s.updateInputs(msg)
}

func (s *SetupScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "tab", "down":
		return s, s.setFocus((s.focus + 1) % numFields)
	case "shift+tab", "up":
		return s, s.setFocus((s.focus + numFields - 1) % numFields)
	case "enter":
		return s.submit()
	case "left", "right":
		d := 1
		if msg.String() == "left" {
			d = -1
		}
		switch s.focus {
		case fieldDifficulty:
			s.difficulty.move(d)
			return s, nil
		case fieldModel:
			s.model.move(d)
			return s, nil
		}
	}

	if s.start.Pressed(msg) {
		return s.submit()
	}
	return s, s.updateInputs(msg)
}

func (s *SetupScreen) updateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch s.focus {
	case fieldTopic:
		s.topic, cmd = s.topic.Update(msg)
	case fieldQuestions:
		s.count, cmd = s.count.Update(msg)
	}
	return cmd
}

func (s *SetupScreen) setFocus(f int) tea.Cmd {
	s.focus = f
	s.topic.Blur()
	s.count.Blur()
	s.start.Focused = f == fieldStart
	switch f {
	case fieldTopic:
		return s.topic.Focus()
	case fieldQuestions:
		return s.count.Focus()
	}
	return nil
}

// Settings returns the settings currently entered in the form.
func (s *SetupScreen) Settings() (game.Settings, error) {
	n, err := s.count.IntValue(s.opts.Defaults.Count)
	if err != nil || n <= 0 || n > MaxQuestions {
		return game.Settings{}, &quiz.ValidationError{
			Field:   "count",
			Message: fmt.Sprintf("must be between 1 and %d", MaxQuestions),
		}
	}
	return game.Settings{
		Topic:      s.topic.Value(),
		Difficulty: s.difficulty.value(),
		Model:      s.model.value(),
		Count:      n,
	}, nil
}

func (s *SetupScreen) submit() (screen.Screen, tea.Cmd) {
	settings, err := s.Settings()
	if err == nil {
		err = quiz.ValidateTopic(settings.Topic)
	}
	if err != nil {
		s.errMsg = game.UserMessage(err)
		return s, nil
	}
	if s.opts.Start == nil {
		return s, nil
	}

	next, err := s.opts.Start(settings)
	if err != nil {
		s.errMsg = game.UserMessage(err)
		return s, nil
	}
	s.errMsg = ""
	return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (s *SetupScreen) View(width, height int) string {
	rows := []string{
		s.topic.View(),
		s.difficulty.view(s.focus == fieldDifficulty),
		s.model.view(s.focus == fieldModel),
		s.count.View(),
		"",
		s.start.View(),
	}
	if s.errMsg != "" {
		rows = append(rows, "", theme.Notice.Render(s.errMsg))
	}

	form := theme.Card.Width(min(width-4, 64)).Render(strings.Join(rows, "\n"))
	return "\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center, form)
}
