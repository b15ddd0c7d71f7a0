package home

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/DJSaunders1997/GPTeasers/internal/router"
	"github.com/DJSaunders1997/GPTeasers/internal/screen"
	"github.com/DJSaunders1997/GPTeasers/internal/store"
)

type namedScreen struct{ title string }

func (s *namedScreen) Init() tea.Cmd                           { return nil }
func (s *namedScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *namedScreen) View(int, int) string                    { return s.title }
func (s *namedScreen) Title() string                           { return s.title }

type fixedHistory []store.HistoryEntry

func (h fixedHistory) Load(context.Context) ([]store.HistoryEntry, error) {
	return h, nil
}

func testOptions() Options {
	return Options{
		NewQuiz:    func() screen.Screen { return &namedScreen{title: "New Quiz"} },
		NewHistory: func() screen.Screen { return &namedScreen{title: "History"} },
		History: fixedHistory{
			{Score: 3, TotalQuestions: 4},
			{Score: 1, TotalQuestions: 4},
		},
	}
}

func pushed(t *testing.T, cmd tea.Cmd) string {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	return msg.Screen.Title()
}

func TestHomeScreen_NewQuiz(t *testing.T) {
	h := New(testOptions())
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if got := pushed(t, cmd); got != "New Quiz" {
		t.Errorf("pushed %q, want New Quiz", got)
	}
}

func TestHomeScreen_HistoryShortcut(t *testing.T) {
	h := New(testOptions())
	_, cmd := h.Update(tea.KeyPressMsg{Code: '2', Text: "2"})
	if got := pushed(t, cmd); got != "History" {
		t.Errorf("pushed %q, want History", got)
	}
}

func TestHomeScreen_DisabledItems(t *testing.T) {
	h := New(Options{})
	if h.menu.Selected != 2 {
		t.Errorf("expected QUIT selected when nothing else is wired, got %d", h.menu.Selected)
	}
	_, cmd := h.Update(tea.KeyPressMsg{Code: '1', Text: "1"})
	if cmd != nil {
		t.Error("expected disabled item to do nothing")
	}
}

func TestHomeScreen_Stats(t *testing.T) {
	h := New(testOptions())
	if strings.Contains(h.View(100, 30), "quizzes played") {
		t.Error("expected no stats before loading")
	}

	h.Update(h.Init()())
	if !strings.Contains(h.View(100, 30), "2 quizzes played   4/8 correct   50% accuracy") {
		t.Errorf("unexpected stats line %q", h.statsLine())
	}

	if h.Resume() == nil {
		t.Error("expected Resume to reload stats")
	}
}

func TestHomeScreen_NoHistory(t *testing.T) {
	h := New(Options{NewQuiz: testOptions().NewQuiz})
	if h.Init() != nil {
		t.Error("expected no stats command without a history loader")
	}
	if !strings.Contains(h.View(100, 30), "NEW QUIZ") {
		t.Error("expected menu in view")
	}
}

func TestRenderBanner_Compact(t *testing.T) {
	if !strings.Contains(RenderBanner(40), "G P T e a s e r s") {
		t.Error("expected compact banner on narrow terminals")
	}
}
