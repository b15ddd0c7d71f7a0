package questiongen

import "github.com/DJSaunders1997/GPTeasers/internal/llm"

// QuestionSchema is the JSON schema each generated question must satisfy.
// Field names match the quiz API's question events.
var QuestionSchema = &llm.Schema{
	Name:        "quiz-question",
	Description: "A single three-option multiple choice trivia question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question_id": map[string]any{
				"type":        "integer",
				"minimum":     1,
				"description": "1-based position of the question in the quiz",
			},
			"question": map[string]any{
				"type":        "string",
				"description": "The question text",
			},
			"A": map[string]any{"type": "string", "description": "Option A"},
			"B": map[string]any{"type": "string", "description": "Option B"},
			"C": map[string]any{"type": "string", "description": "Option C"},
			"answer": map[string]any{
				"type":        "string",
				"enum":        []any{"A", "B", "C"},
				"description": "Key of the single correct option",
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "One or two sentences on why the answer is correct",
			},
			"wikipedia": map[string]any{
				"type":        "string",
				"description": "URL of the English Wikipedia article for further reading",
			},
		},
		"required":             []any{"question_id", "question", "A", "B", "C", "answer", "explanation", "wikipedia"},
		"additionalProperties": false,
	},
}
