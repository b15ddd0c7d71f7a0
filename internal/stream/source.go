// Package stream consumes a server-sent question stream into a quiz session.
package stream

import (
	"context"
	"fmt"
)

// Request selects what a question stream should produce.
type Request struct {
	Topic      string
	Difficulty string
	Model      string

	// Count is the number of questions expected before the stream closes.
	Count int
}

// Source opens question subscriptions. The remote API client and the local
// LLM generator both implement it.
type Source interface {
	Subscribe(ctx context.Context, req Request) (Subscription, error)
}

// Subscription is an open question stream. Next blocks until the next
// event payload is available. It returns io.EOF once the producer ends the
// stream. Close releases the underlying connection and unblocks Next.
type Subscription interface {
	Next() ([]byte, error)
	Close() error
}

// StreamError reports a failed question stream: the connection could not
// be opened, dropped before all questions arrived, or delivered a payload
// that is not a question.
type StreamError struct {
	Received int
	Err      error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("question stream failed after %d question(s): %v", e.Received, e.Err)
}

func (e *StreamError) Unwrap() error { return e.Err }
