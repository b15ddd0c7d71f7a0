package components

import (
	tea "charm.land/bubbletea/v2"

	"github.com/DJSaunders1997/GPTeasers/internal/ui/theme"
)

// Button is a focusable action, pressed with Enter or Space.
type Button struct {
	Label   string
	Focused bool
}

func NewButton(label string) Button {
	return Button{Label: label}
}

// Pressed reports whether msg presses the focused button.
func (b Button) Pressed(msg tea.Msg) bool {
	if !b.Focused {
		return false
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return false
	}
	switch kmsg.String() {
	case "enter", "space", " ":
		return true
	}
	return false
}

func (b Button) View() string {
	if b.Focused {
		return theme.ButtonActive.Render("▸ " + b.Label)
	}
	return theme.ButtonInactive.Render(b.Label)
}
