package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// questionSchema has the shape of the quiz question events.
func questionSchema() *Schema {
	str := map[string]any{"type": "string"}
	return &Schema{
		Name:        "test-quiz-question",
		Description: "A three-option trivia question",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"question_id": map[string]any{"type": "integer", "minimum": 1},
				"question":    str,
				"A":           str,
				"B":           str,
				"C":           str,
				"answer":      map[string]any{"type": "string", "enum": []any{"A", "B", "C"}},
				"explanation": str,
				"wikipedia":   str,
			},
			"required":             []any{"question_id", "question", "A", "B", "C", "answer", "explanation", "wikipedia"},
			"additionalProperties": false,
		},
	}
}

const owlQuestion = `{"question_id":1,"question":"Which owl is the largest?","A":"Barn owl","B":"Blakiston's fish owl","C":"Elf owl","answer":"B","explanation":"It can weigh over 4 kg.","wikipedia":"https://en.wikipedia.org/wiki/Blakiston%27s_fish_owl"}`

func TestCheckQuestion(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		fields []string
	}{
		{"lowercase answer", `{"question_id":1,"question":"Q","A":"a","B":"b","C":"c","answer":"b","explanation":"e","wikipedia":"w"}`, []string{"/answer"}},
		{"fourth option", `{"question_id":1,"question":"Q","A":"a","B":"b","C":"c","D":"d","answer":"A","explanation":"e","wikipedia":"w"}`, []string{"/"}},
		{"id as string", `{"question_id":"one","question":"Q","A":"a","B":"b","C":"c","answer":"A","explanation":"e","wikipedia":"w"}`, []string{"/question_id"}},
		{"zero id", `{"question_id":0,"question":"Q","A":"a","B":"b","C":"c","answer":"A","explanation":"e","wikipedia":"w"}`, []string{"/question_id"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkQuestion(ProviderOpenAI, questionSchema(), json.RawMessage(tt.raw))
			var e *Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, KindMalformed, e.Kind)
			assert.Equal(t, ProviderOpenAI, e.Provider)
			assert.Equal(t, tt.fields, e.Fields)
			assert.JSONEq(t, tt.raw, string(e.Content))
		})
	}
}

func TestCheckQuestion_Accepts(t *testing.T) {
	assert.NoError(t, checkQuestion(ProviderOpenAI, questionSchema(), json.RawMessage(owlQuestion)))
	assert.NoError(t, checkQuestion(ProviderOpenAI, nil, json.RawMessage(`not even json`)))
	assert.NoError(t, checkQuestion(ProviderMock, questionSchema(), placeholderQuestion(3)))
}

func TestCheckQuestion_NotJSON(t *testing.T) {
	for _, raw := range []string{``, `{"question_id":1`, `{} trailing`} {
		err := checkQuestion(ProviderGemini, questionSchema(), json.RawMessage(raw))
		kind, ok := KindOf(err)
		require.True(t, ok, "input %q", raw)
		assert.Equal(t, KindMalformed, kind)
		assert.ErrorContains(t, err, "not JSON")
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`  {"a":1}  `, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```\n", `{"a":1}`},
		{"```", ``},
		{`plain text`, `plain text`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, string(extractJSON(tt.in)), "input %q", tt.in)
	}
}
