package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/DJSaunders1997/GPTeasers/internal/store"
)

// recordingTransport records every API round trip as a request event.
type recordingTransport struct {
	inner  http.RoundTripper
	events store.EventRepo
	logger *zap.Logger
}

func (t *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	inner := t.inner
	if inner == nil {
		inner = http.DefaultTransport
	}

	start := time.Now()
	resp, err := inner.RoundTrip(req)

	data := store.RequestEventData{
		Kind:        store.KindAPI,
		Endpoint:    req.URL.Path,
		Model:       req.URL.Query().Get("model"),
		Purpose:     purposeFor(req.URL.Path),
		RunID:       store.RunIDFrom(req.Context()),
		LatencyMs:   time.Since(start).Milliseconds(),
		RequestBody: req.URL.RawQuery,
	}
	if resp != nil {
		data.Status = resp.StatusCode
		data.Success = resp.StatusCode >= 200 && resp.StatusCode < 300
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	// Recording must never fail the request.
	if logErr := t.events.AppendRequest(context.WithoutCancel(req.Context()), data); logErr != nil {
		t.logger.Warn("failed to record request event", zap.Error(logErr))
	}

	return resp, err
}

func purposeFor(path string) string {
	switch {
	case strings.HasSuffix(path, PathGenerateQuiz):
		return "quiz-stream"
	case strings.HasSuffix(path, PathGenerateImage):
		return "image"
	case strings.HasSuffix(path, PathSupportedModels):
		return "models"
	}
	return "other"
}

var _ http.RoundTripper = (*recordingTransport)(nil)
