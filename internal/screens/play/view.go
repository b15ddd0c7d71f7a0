package play

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/DJSaunders1997/GPTeasers/internal/game"
	"github.com/DJSaunders1997/GPTeasers/internal/ui/components"
	"github.com/DJSaunders1997/GPTeasers/internal/ui/layout"
	"github.com/DJSaunders1997/GPTeasers/internal/ui/theme"
)

func (s *QuizScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(s.renderStatus(width))
	b.WriteString("\n\n")

	switch {
	case s.hasQuestion:
		block := lipgloss.NewStyle().Width(min(width-8, 76)).Render(s.choice.View())
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, block))
		if s.result != nil {
			b.WriteString("\n")
			b.WriteString(s.renderFeedback(width))
		}
	case s.streamErr != nil:
		b.WriteString(layout.Centered(theme.Notice, width, game.UserMessage(s.streamErr)))
		b.WriteString("\n\n")
		b.WriteString(layout.Centered(theme.Hint, width, "Press any key to go back."))
	default:
		b.WriteString(layout.Centered(theme.Muted, width, "\nGenerating questions..."))
	}

	if s.hasQuestion && s.streamErr != nil {
		b.WriteString("\n\n")
		b.WriteString(layout.Centered(theme.Notice, width, game.UserMessage(s.streamErr)))
	}

	return b.String()
}

func (s *QuizScreen) renderStatus(width int) string {
	sum := s.game.Session().Summary()
	settings := s.game.Settings()

	bar := components.QuizProgress{
		Answered: sum.Answered,
		Received: sum.Received,
		Total:    sum.Total,
		Width:    min(width-8, 40),
	}.View()

	info := theme.Muted.Render(fmt.Sprintf("%s · %s   Score %d", settings.Difficulty, settings.Model, sum.Score))
	lines := []string{
		lipgloss.PlaceHorizontal(width, lipgloss.Center, bar),
		layout.Centered(lipgloss.NewStyle(), width, info),
	}

	switch {
	case s.image != "":
		lines = append(lines, layout.Centered(theme.Link, width, "Image: "+s.image))
	case s.imageErr != nil:
		lines = append(lines, layout.Centered(theme.Muted, width, game.UserMessage(s.imageErr)))
	}
	return strings.Join(lines, "\n")
}

func (s *QuizScreen) renderFeedback(width int) string {
	res := s.result
	var lines []string

	if res.Correct {
		lines = append(lines, theme.Correct.Render("Correct!"))
	} else {
		correct := res.Answer
		for _, o := range res.Options {
			if o.Key == res.Answer {
				correct = fmt.Sprintf("%s) %s", o.Key, o.Text)
			}
		}
		lines = append(lines, theme.Incorrect.Render("Not quite."), theme.Muted.Render("Correct answer: "+correct))
	}

	if res.Explanation != "" {
		lines = append(lines, "", theme.Body.Width(min(width-8, 76)).Render(res.Explanation))
	}
	if res.Wikipedia != "" {
		lines = append(lines, "", theme.Muted.Render("Read more: ")+theme.Link.Render(res.Wikipedia))
	}

	next := "Press any key for the next question."
	if res.IsFinished {
		next = fmt.Sprintf("Quiz over! You scored %d/%d. Press any key for your results.", res.Score, res.TotalQuestions)
	} else if s.received <= res.QuestionNumber && !s.streamDone {
		next = "Press any key to continue. The next question is still generating."
	}
	lines = append(lines, "", theme.Hint.Render(next))

	block := lipgloss.NewStyle().Width(min(width-8, 76)).Render(strings.Join(lines, "\n"))
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, block)
}
