package setup

import (
	"context"
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/DJSaunders1997/GPTeasers/internal/game"
	"github.com/DJSaunders1997/GPTeasers/internal/router"
	"github.com/DJSaunders1997/GPTeasers/internal/screen"
)

type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "quiz" }
func (s *stubScreen) Title() string                           { return "Quiz" }

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func typeText(s *SetupScreen, text string) {
	for _, r := range text {
		s.Update(keyPress(r))
	}
}

func defaults() game.Settings {
	return game.Settings{Difficulty: "Medium", Model: "gpt-3.5-turbo", Count: 10}
}

func TestSetup_StartsQuiz(t *testing.T) {
	var got game.Settings
	s := New(Options{
		Defaults: defaults(),
		Start: func(settings game.Settings) (screen.Screen, error) {
			got = settings
			return &stubScreen{}, nil
		},
	})
	s.Init()

	typeText(s, "Rome")
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a command on Enter")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	if msg.Screen.Title() != "Quiz" {
		t.Errorf("unexpected screen %q", msg.Screen.Title())
	}

	want := game.Settings{Topic: "Rome", Difficulty: "Medium", Model: "gpt-3.5-turbo", Count: 10}
	if got != want {
		t.Errorf("settings = %+v, want %+v", got, want)
	}
}

func TestSetup_EmptyTopic(t *testing.T) {
	started := false
	s := New(Options{
		Defaults: defaults(),
		Start: func(game.Settings) (screen.Screen, error) {
			started = true
			return &stubScreen{}, nil
		},
	})
	s.Init()

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd != nil {
		t.Error("expected no navigation for an empty topic")
	}
	if started {
		t.Error("Start must not be called for an empty topic")
	}
	if s.errMsg != "Please enter a valid topic." {
		t.Errorf("errMsg = %q", s.errMsg)
	}
}

func TestSetup_StartError(t *testing.T) {
	s := New(Options{
		Defaults: defaults(),
		Start: func(game.Settings) (screen.Screen, error) {
			return nil, errors.New("no provider")
		},
	})
	s.Init()
	typeText(s, "Rome")
	s.Update(specialKey(tea.KeyEnter))

	if s.errMsg == "" {
		t.Error("expected an error notice")
	}
}

func TestSetup_CyclesDifficultyAndModel(t *testing.T) {
	s := New(Options{Defaults: defaults()})
	s.Init()
	s.Update(modelsMsg{models: []string{"gpt-3.5-turbo", "deepseek-chat", " ", "gemini/gemini-pro"}})

	s.Update(specialKey(tea.KeyTab))
	s.Update(specialKey(tea.KeyRight))
	s.Update(specialKey(tea.KeyTab))
	s.Update(specialKey(tea.KeyLeft))

	got, err := s.Settings()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Difficulty != "Hard" {
		t.Errorf("difficulty = %q, want Hard", got.Difficulty)
	}
	if got.Model != "gemini/gemini-pro" {
		t.Errorf("model = %q, want gemini/gemini-pro", got.Model)
	}
	if len(s.model.options) != 3 {
		t.Errorf("expected 3 distinct models, got %v", s.model.options)
	}
}

func TestSetup_CountField(t *testing.T) {
	s := New(Options{Defaults: defaults()})
	s.Init()

	for range 3 {
		s.Update(specialKey(tea.KeyTab))
	}
	s.Update(specialKey(tea.KeyBackspace))
	s.Update(specialKey(tea.KeyBackspace))
	typeText(s, "x5")

	got, err := s.Settings()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Count != 5 {
		t.Errorf("count = %d, want 5", got.Count)
	}

	typeText(s, "9")
	if _, err := s.Settings(); err == nil {
		t.Error("expected an error above the maximum")
	}
}

func TestSetup_LoadsModels(t *testing.T) {
	s := New(Options{
		Defaults: defaults(),
		Models: func(context.Context) []string {
			return []string{"deepseek-chat"}
		},
	})
	cmd := s.Init()
	if cmd == nil {
		t.Fatal("expected an init command")
	}
	if len(s.model.options) != 1 {
		t.Errorf("expected only the default model before loading, got %v", s.model.options)
	}
}

func TestSetup_Esc(t *testing.T) {
	s := New(Options{Defaults: defaults()})
	_, cmd := s.Update(specialKey(tea.KeyEscape))
	if cmd == nil {
		t.Fatal("expected a command on Esc")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}
