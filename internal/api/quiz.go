package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/DJSaunders1997/GPTeasers/internal/stream"
)

// Subscribe opens the server-sent question stream for req. It implements
// stream.Source.
func (c *Client) Subscribe(ctx context.Context, req stream.Request) (stream.Subscription, error) {
	q := url.Values{}
	q.Set("topic", req.Topic)
	q.Set("difficulty", req.Difficulty)
	q.Set("n_questions", strconv.Itoa(req.Count))
	if strings.TrimSpace(req.Model) != "" {
		q.Set("model", req.Model)
	}

	// The stream outlives the caller's request setup; Close cancels it.
	ctx, cancel := context.WithCancel(ctx)

	c.logger.Info("opening question stream",
		zap.String("topic", req.Topic),
		zap.String("difficulty", req.Difficulty),
		zap.String("model", req.Model),
		zap.Int("count", req.Count))

	resp, err := c.do(ctx, PathGenerateQuiz, q, "text/event-stream")
	if err != nil {
		cancel()
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		resp.Body.Close()
		cancel()
		return nil, parseRequestError(PathGenerateQuiz, resp.StatusCode, raw)
	}

	return &sseSubscription{
		body:   resp.Body,
		reader: newSSEReader(resp.Body),
		cancel: cancel,
	}, nil
}

type sseSubscription struct {
	body   io.ReadCloser
	reader *sseReader
	cancel context.CancelFunc

	closeOnce sync.Once
	closeErr  error
}

// Next returns the data of the next message event. Keep-alive events
// without data and the "[DONE]" sentinel are skipped.
func (s *sseSubscription) Next() ([]byte, error) {
	for {
		event, data, err := s.reader.next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, &NetworkError{Endpoint: PathGenerateQuiz, Err: err}
		}

		data = strings.TrimSpace(data)
		if data == "" || data == "[DONE]" {
			continue
		}
		if event == "error" {
			return nil, fmt.Errorf("server error event: %s", data)
		}
		return []byte(data), nil
	}
}

func (s *sseSubscription) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		s.closeErr = s.body.Close()
	})
	return s.closeErr
}

var _ stream.Source = (*Client)(nil)
