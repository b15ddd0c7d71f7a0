package questiongen

import (
	"net/url"
	"strings"

	"github.com/DJSaunders1997/GPTeasers/internal/quiz"
)

const (
	maxQuestionLen    = 500
	maxOptionLen      = 200
	maxExplanationLen = 1000
)

// StructuralValidator checks that every field is present, within length
// limits, and that the answer names one of the options.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *quiz.Question, _ GenerateInput) *ValidationError {
	fail := func(msg string) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: msg, Retryable: true}
	}

	switch {
	case strings.TrimSpace(q.Text) == "":
		return fail("question is empty")
	case len(q.Text) > maxQuestionLen:
		return fail("question exceeds 500 characters")
	case strings.TrimSpace(q.Explanation) == "":
		return fail("explanation is empty")
	case len(q.Explanation) > maxExplanationLen:
		return fail("explanation exceeds 1000 characters")
	}

	seen := make(map[string]string, 3)
	for _, opt := range q.Options() {
		text := strings.TrimSpace(opt.Text)
		if text == "" {
			return fail("option " + opt.Key + " is empty")
		}
		if len(text) > maxOptionLen {
			return fail("option " + opt.Key + " exceeds 200 characters")
		}
		norm := strings.ToLower(text)
		if other, dup := seen[norm]; dup {
			return fail("options " + other + " and " + opt.Key + " are identical")
		}
		seen[norm] = opt.Key
	}

	if q.OptionText(q.Answer) == "" || quiz.NormalizeKey(q.Answer) != q.Answer {
		return fail(`answer must be "A", "B" or "C"`)
	}

	if q.Wikipedia != "" {
		u, err := url.Parse(q.Wikipedia)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fail("wikipedia is not an http(s) URL")
		}
	}
	return nil
}

// DuplicateValidator rejects a question already asked in the same quiz.
type DuplicateValidator struct{}

func (v *DuplicateValidator) Name() string { return "duplicate" }

func (v *DuplicateValidator) Validate(q *quiz.Question, input GenerateInput) *ValidationError {
	text := normalizeText(q.Text)
	for _, prior := range input.PriorQuestions {
		if normalizeText(prior) == text {
			return &ValidationError{
				Validator: v.Name(),
				Message:   "question was already asked",
				Retryable: true,
			}
		}
	}
	return nil
}

func normalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
