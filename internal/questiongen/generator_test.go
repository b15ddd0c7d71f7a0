package questiongen

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DJSaunders1997/GPTeasers/internal/llm"
	"github.com/DJSaunders1997/GPTeasers/internal/quiz"
)

func questionJSON(text, answer string) json.RawMessage {
	q := quiz.Question{
		ID:          1,
		Text:        text,
		A:           "Mercury",
		B:           "Jupiter",
		C:           "Mars",
		Answer:      answer,
		Explanation: "Jupiter is more than twice as massive as all the other planets combined.",
		Wikipedia:   "https://en.wikipedia.org/wiki/Jupiter",
	}
	b, _ := json.Marshal(q)
	return b
}

func testInput() GenerateInput {
	return GenerateInput{Topic: "Planets", Difficulty: "Easy", Number: 2, Total: 5}
}

func TestGenerate_Valid(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: questionJSON("Which is the largest planet?", "B")})
	gen := New(mock, DefaultConfig(), nil)

	q, err := gen.Generate(context.Background(), testInput())
	require.NoError(t, err)

	assert.Equal(t, "Which is the largest planet?", q.Text)
	assert.Equal(t, "B", q.Answer)
	assert.Equal(t, 2, q.ID, "id follows the requested position")

	reqs := mock.Requests()
	require.Len(t, reqs, 1)
	req := reqs[0]
	assert.Equal(t, QuestionSchema, req.Schema)
	assert.Equal(t, systemPrompt, req.System)
	require.Len(t, req.Messages, 1)
	assert.Contains(t, req.Messages[0].Content, "Topic: Planets")
	assert.Contains(t, req.Messages[0].Content, "Difficulty: Easy")
	assert.Contains(t, req.Messages[0].Content, "Question number: 2 of 5")
}

func TestGenerate_RegeneratesDuplicate(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: questionJSON("Which is the LARGEST planet?", "B")},
		llm.MockResponse{Content: questionJSON("Which planet has the Great Red Spot?", "B")},
	)
	gen := New(mock, DefaultConfig(), nil)

	input := testInput()
	input.PriorQuestions = []string{"Which is the largest planet?"}

	q, err := gen.Generate(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "Which planet has the Great Red Spot?", q.Text)
	assert.Equal(t, 2, mock.CallCount())
}

func TestGenerate_GivesUpAfterMaxAttempts(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: questionJSON("", "B")},
		llm.MockResponse{Content: questionJSON("", "B")},
		llm.MockResponse{Content: questionJSON("", "B")},
	)
	gen := New(mock, DefaultConfig(), nil)

	_, err := gen.Generate(context.Background(), testInput())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "structural", verr.Validator)
	assert.Equal(t, 3, mock.CallCount())
}

func TestGenerate_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.Error{Kind: llm.KindAuth, Err: errors.New("invalid x-api-key")}})
	gen := New(mock, DefaultConfig(), nil)

	_, err := gen.Generate(context.Background(), testInput())
	require.Error(t, err)
	kind, ok := llm.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, llm.KindAuth, kind)
	assert.Equal(t, 1, mock.CallCount(), "provider errors are not regenerated here")
}

func TestGenerate_UnparseableContent(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`not json`)})
	gen := New(mock, DefaultConfig(), nil)

	_, err := gen.Generate(context.Background(), testInput())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "parse"))
}

func TestStructuralValidator(t *testing.T) {
	base := quiz.Question{
		Text: "Which is the largest planet?", A: "Mercury", B: "Jupiter", C: "Mars",
		Answer: "B", Explanation: "Jupiter.", Wikipedia: "https://en.wikipedia.org/wiki/Jupiter",
	}

	tests := []struct {
		name   string
		mutate func(q *quiz.Question)
		ok     bool
	}{
		{"valid", func(q *quiz.Question) {}, true},
		{"no wikipedia", func(q *quiz.Question) { q.Wikipedia = "" }, true},
		{"empty question", func(q *quiz.Question) { q.Text = "  " }, false},
		{"long question", func(q *quiz.Question) { q.Text = strings.Repeat("x", 501) }, false},
		{"empty option", func(q *quiz.Question) { q.C = "" }, false},
		{"long option", func(q *quiz.Question) { q.A = strings.Repeat("x", 201) }, false},
		{"duplicate options", func(q *quiz.Question) { q.C = "jupiter" }, false},
		{"answer D", func(q *quiz.Question) { q.Answer = "D" }, false},
		{"lower-case answer", func(q *quiz.Question) { q.Answer = "b" }, false},
		{"empty explanation", func(q *quiz.Question) { q.Explanation = "" }, false},
		{"relative wikipedia", func(q *quiz.Question) { q.Wikipedia = "/wiki/Jupiter" }, false},
	}

	v := &StructuralValidator{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := base
			tt.mutate(&q)
			err := v.Validate(&q, GenerateInput{})
			if tt.ok {
				assert.Nil(t, err)
			} else {
				require.NotNil(t, err)
				assert.True(t, err.Retryable)
			}
		})
	}
}

func TestBuildDedup(t *testing.T) {
	assert.Equal(t, "None", buildDedup(nil, 5))
	assert.Equal(t, "1. b\n2. c", buildDedup([]string{"a", "b", "c"}, 2))
	assert.Equal(t, "1. a\n2. b", buildDedup([]string{"a", "b"}, 0))
}

func TestBuildUserMessage_DefaultDifficulty(t *testing.T) {
	msg := buildUserMessage(GenerateInput{Topic: "Rome", Number: 1, Total: 3}, DefaultConfig())
	assert.Contains(t, msg, "Difficulty: Medium")
	assert.Contains(t, msg, "None")
}
