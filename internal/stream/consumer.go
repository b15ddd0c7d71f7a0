package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/DJSaunders1997/GPTeasers/internal/quiz"
)

// Consumer feeds one question stream into a session. It owns its
// subscription; a consumer is used for a single Run.
type Consumer struct {
	source  Source
	session *quiz.Session
	logger  *zap.Logger

	mu     sync.Mutex
	sub    Subscription
	closed bool
}

// NewConsumer creates a consumer that appends to session.
func NewConsumer(source Source, session *quiz.Session, logger *zap.Logger) *Consumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Consumer{source: source, session: session, logger: logger}
}

// Run opens a subscription and appends every received question to the
// session, calling onQuestion after each append. It returns nil once
// req.Count questions have arrived and a *StreamError on any failure.
// The subscription is closed before Run returns.
func (c *Consumer) Run(ctx context.Context, req Request, onQuestion func(quiz.Question)) error {
	if req.Count <= 0 {
		return &StreamError{Err: fmt.Errorf("invalid question count %d", req.Count)}
	}

	sub, err := c.source.Subscribe(ctx, req)
	if err != nil {
		return c.fail(0, err)
	}
	if !c.attach(sub) {
		sub.Close()
		return c.fail(0, context.Canceled)
	}

	// Close from another goroutine unblocks Next.
	stop := context.AfterFunc(ctx, func() { c.Close() })
	defer stop()

	received := 0
	for received < req.Count {
		payload, err := sub.Next()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				err = ctxErr
			} else if c.isClosed() {
				err = context.Canceled
			} else if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return c.fail(received, err)
		}

		var q quiz.Question
		if err := json.Unmarshal(payload, &q); err != nil {
			return c.fail(received, fmt.Errorf("decode question: %w", err))
		}

		c.session.AddQuestion(q)
		received++
		c.logger.Debug("question received",
			zap.Int("received", received),
			zap.Int("target", req.Count))
		if onQuestion != nil {
			onQuestion(q)
		}
	}

	c.Close()
	c.logger.Info("question stream complete", zap.Int("questions", received))
	return nil
}

// Close closes the subscription. It is safe to call more than once and
// from any goroutine.
func (c *Consumer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if c.sub == nil {
		return nil
	}
	return c.sub.Close()
}

func (c *Consumer) attach(sub Subscription) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	c.sub = sub
	return true
}

func (c *Consumer) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Consumer) fail(received int, err error) error {
	c.Close()
	c.logger.Warn("question stream failed",
		zap.Int("received", received),
		zap.Error(err))
	return &StreamError{Received: received, Err: err}
}

// Stream is a running consumer viewed as channels.
type Stream struct {
	consumer  *Consumer
	questions chan quiz.Question
	done      chan error
}

// Start runs the consumer in its own goroutine. Questions are delivered on
// Questions in arrival order; Done yields the single completion result
// after the last question has been delivered.
func Start(ctx context.Context, c *Consumer, req Request) *Stream {
	s := &Stream{
		consumer:  c,
		questions: make(chan quiz.Question, max(req.Count, 1)),
		done:      make(chan error, 1),
	}
	go func() {
		err := c.Run(ctx, req, func(q quiz.Question) {
			s.questions <- q
		})
		close(s.questions)
		s.done <- err
		close(s.done)
	}()
	return s
}

// Questions returns the channel of received questions. It is closed when
// the stream completes.
func (s *Stream) Questions() <-chan quiz.Question { return s.questions }

// Done yields exactly one value: nil on success or a *StreamError.
func (s *Stream) Done() <-chan error { return s.done }

// Close cancels the stream.
func (s *Stream) Close() error { return s.consumer.Close() }
