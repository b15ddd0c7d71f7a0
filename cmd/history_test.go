package cmd

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/DJSaunders1997/GPTeasers/internal/store"
)

func historyFixture() []store.HistoryEntry {
	at := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	return []store.HistoryEntry{
		{ID: "a", Topic: "Rivers", Difficulty: "Easy", Model: "gpt-3.5-turbo", Score: 8, TotalQuestions: 10, FinishedAt: at},
		{ID: "b", Topic: "Opera", Difficulty: "Hard", Model: "deepseek-chat", Score: 2, TotalQuestions: 5, FinishedAt: at.Add(time.Hour)},
	}
}

func TestPrintHistory(t *testing.T) {
	var out strings.Builder
	printHistory(&out, historyFixture(), 0)

	text := out.String()
	assert.Less(t, strings.Index(text, "Opera"), strings.Index(text, "Rivers"), "newest first")
	assert.Contains(t, text, " 80%")

	out.Reset()
	printHistory(&out, historyFixture(), 1)
	assert.NotContains(t, out.String(), "Rivers")

	out.Reset()
	printHistory(&out, nil, 0)
	assert.Equal(t, "No quizzes played yet.\n", out.String())
}

func TestExportHistory_JSON(t *testing.T) {
	var out strings.Builder
	require.NoError(t, exportHistory(&out, historyFixture(), "json"))

	var got []store.HistoryEntry
	require.NoError(t, json.Unmarshal([]byte(out.String()), &got))
	assert.Equal(t, historyFixture(), got)
	assert.Contains(t, out.String(), `"totalQuestions": 10`)
}

func TestExportHistory_YAML(t *testing.T) {
	var out strings.Builder
	require.NoError(t, exportHistory(&out, historyFixture(), "YAML"))

	var got []store.HistoryEntry
	require.NoError(t, yaml.Unmarshal([]byte(out.String()), &got))
	assert.Equal(t, historyFixture(), got)
	assert.Contains(t, out.String(), "topic: Opera")
}

func TestExportHistory_EmptyAndUnknown(t *testing.T) {
	var out strings.Builder
	require.NoError(t, exportHistory(&out, nil, "json"))
	assert.Equal(t, "[]\n", out.String())

	assert.Error(t, exportHistory(&out, nil, "csv"))
}

func TestConfirmed(t *testing.T) {
	for in, want := range map[string]bool{
		"y\n":    true,
		"YES\n":  true,
		"y":      true,
		"n\n":    false,
		"\n":     false,
		"":       false,
		"nope\n": false,
	} {
		assert.Equal(t, want, confirmed(strings.NewReader(in)), "input %q", in)
	}
}
