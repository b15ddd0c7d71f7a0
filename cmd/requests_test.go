package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/DJSaunders1997/GPTeasers/internal/store"
)

func TestPrintUsage(t *testing.T) {
	byPurpose := []store.UsageSummary{
		{Purpose: "", Calls: 4, Failures: 1},
		{Purpose: "question-gen", Calls: 2, InputTokens: 1000, OutputTokens: 500},
	}
	byModel := []store.UsageSummary{
		{Model: "", Calls: 4},
		{Model: "gpt-4o", Calls: 1, InputTokens: 600, OutputTokens: 300},
		{Model: "made-up-model", Calls: 1, InputTokens: 400, OutputTokens: 200},
	}

	var out strings.Builder
	printUsage(&out, byPurpose, byModel)
	text := out.String()

	assert.Contains(t, text, "(none)")
	assert.Contains(t, text, "question-gen")
	assert.Contains(t, text, "Estimated LLM Cost")
	assert.Contains(t, text, "TOTAL (partial)")
	assert.Contains(t, text, "Pricing unavailable for: made-up-model")
}

func TestPrintUsage_Empty(t *testing.T) {
	var out strings.Builder
	printUsage(&out, nil, nil)
	assert.Equal(t, "No requests recorded yet.\n", out.String())
}

func TestPrintRequest(t *testing.T) {
	var out strings.Builder
	printRequest(&out, &store.RequestEvent{
		ID:        7,
		Timestamp: time.Now(),
		RequestEventData: store.RequestEventData{
			Kind:         store.KindAPI,
			Endpoint:     "/GenerateImage",
			RunID:        "run-1",
			Status:       500,
			ErrorMessage: "boom",
			ResponseBody: `{"error":"boom"}`,
		},
	})
	text := out.String()
	assert.Contains(t, text, "Endpoint:  /GenerateImage")
	assert.Contains(t, text, "Run:       run-1")
	assert.Contains(t, text, "(not captured)")
	assert.Contains(t, text, `{"error":"boom"}`)
	assert.NotContains(t, text, "Model:")
}

func TestTruncateAndFormatCost(t *testing.T) {
	assert.Equal(t, "abc", truncate("abcdef", 3))
	assert.Equal(t, "ab", truncate("ab", 3))
	assert.Equal(t, "né", truncate("néon", 2))

	assert.Equal(t, "$0.0050", formatCost(0.005))
	assert.Equal(t, "$1.25", formatCost(1.25))
}
