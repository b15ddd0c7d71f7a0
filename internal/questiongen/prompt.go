package questiongen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You write multiple choice quiz questions.

Rules:
- Write exactly one question about the given topic at the given difficulty.
- Give three options, A, B and C. Exactly one is correct.
- The answer must be factually correct. Do not invent facts.
- The explanation is one or two sentences and mentions why the other options are wrong when useful.
- The wikipedia field is the URL of the most relevant English Wikipedia article.
- Do not repeat or rephrase any question from the "already asked" list.
- Respond with the raw JSON object only.

Example:
{"question_id": 1, "question": "Who was the first emperor of Rome?", "A": "Julius Caesar", "B": "Augustus", "C": "Constantine", "answer": "B", "explanation": "Augustus, originally Octavian, was the first to hold the title of Roman Emperor. Julius Caesar never held it.", "wikipedia": "https://en.wikipedia.org/wiki/Augustus"}`

// buildUserMessage describes the question wanted next.
func buildUserMessage(input GenerateInput, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %s\n", input.Topic)
	fmt.Fprintf(&b, "Difficulty: %s\n", difficultyOrDefault(input.Difficulty))
	fmt.Fprintf(&b, "Question number: %d of %d\n", input.Number, input.Total)

	b.WriteString("\nAlready asked in this quiz:\n")
	b.WriteString(buildDedup(input.PriorQuestions, cfg.MaxPriorQuestions))

	return b.String()
}

func difficultyOrDefault(d string) string {
	if strings.TrimSpace(d) == "" {
		return "Medium"
	}
	return d
}

// buildDedup lists the most recent max prior questions, or "None".
func buildDedup(prior []string, max int) string {
	if len(prior) == 0 {
		return "None"
	}
	if max > 0 && len(prior) > max {
		prior = prior[len(prior)-max:]
	}

	lines := make([]string, len(prior))
	for i, q := range prior {
		lines[i] = fmt.Sprintf("%d. %s", i+1, q)
	}
	return strings.Join(lines, "\n")
}
