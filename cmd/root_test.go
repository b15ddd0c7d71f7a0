package cmd

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DJSaunders1997/GPTeasers/internal/api"
)

func TestPlay_UnopenableDatabaseStillPlays(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, api.PathGenerateQuiz, r.URL.Path)
		hits.Add(1)
		w.Header().Set("Content-Type", "text/event-stream")
		for i := 1; i <= 2; i++ {
			fmt.Fprintf(w, `data: {"question_id": %d, "question": "Owl fact %d?", "A": "yes", "B": "no", "C": "maybe", "answer": "A", "explanation": "", "wikipedia": ""}`+"\n\n", i, i)
			w.(http.Flusher).Flush()
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("not a directory"), 0o644))

	var out, errOut bytes.Buffer
	rootCmd.SetArgs([]string{
		"play",
		"--db", filepath.Join(blocker, "sub", "gpteasers.db"),
		"--api-url", srv.URL,
		"--count", "2",
		"--log-file", filepath.Join(dir, "logs", "gpteasers.log"),
		"Owls",
	})
	rootCmd.SetIn(strings.NewReader("a\nb\n"))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	require.NoError(t, Execute(context.Background()))

	assert.Equal(t, int32(1), hits.Load())
	assert.Contains(t, out.String(), "Question 1/2: Owl fact 1?")
	assert.Contains(t, out.String(), "Final score: 1/2 (50%)")
	assert.Contains(t, errOut.String(), "history unavailable")
}
