package components

import (
	"fmt"
	"strings"

	"github.com/DJSaunders1997/GPTeasers/internal/ui/theme"
)

// QuizProgress draws a bar with three segments: answered questions,
// questions received but not yet answered, and questions still streaming.
type QuizProgress struct {
	Answered int
	Received int
	Total    int
	Width    int
}

// View renders the bar followed by "answered/total".
func (p QuizProgress) View() string {
	label := fmt.Sprintf("  %d/%d", p.Answered, p.Total)
	barWidth := max(p.Width-len(label), 4)
	if p.Total <= 0 {
		return theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth)) + theme.Muted.Render(label)
	}

	answered := cells(p.Answered, p.Total, barWidth)
	received := max(cells(p.Received, p.Total, barWidth)-answered, 0)
	pending := max(barWidth-answered-received, 0)

	return theme.ProgressFilled.Render(strings.Repeat(" ", answered)) +
		theme.ProgressEmpty.Foreground(theme.Secondary).Render(strings.Repeat("░", received)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", pending)) +
		theme.Muted.Render(label)
}

func cells(n, total, width int) int {
	c := n * width / total
	return min(max(c, 0), width)
}
