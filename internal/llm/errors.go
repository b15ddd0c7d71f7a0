package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Kind classifies why a provider call produced no usable question.
type Kind int

const (
	// KindUnavailable covers network failures, timeouts and 5xx responses.
	KindUnavailable Kind = iota

	// KindRateLimited is a 429. RetryAfter holds the provider's hint.
	KindRateLimited

	// KindAuth is a missing, revoked or under-scoped API key.
	KindAuth

	// KindRejected is any other 4xx, usually a model name the provider
	// does not serve.
	KindRejected

	// KindMalformed means the output is not a question matching the schema.
	KindMalformed

	// KindTruncated means generation stopped at MaxTokens mid-question.
	KindTruncated
)

func (k Kind) String() string {
	switch k {
	case KindUnavailable:
		return "unavailable"
	case KindRateLimited:
		return "rate_limited"
	case KindAuth:
		return "auth"
	case KindRejected:
		return "rejected"
	case KindMalformed:
		return "malformed"
	case KindTruncated:
		return "truncated"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is the failure every Provider in this package returns.
type Error struct {
	Kind     Kind
	Provider string

	// Status is the HTTP status, or 0 when no response arrived.
	Status int

	RetryAfter time.Duration

	// Content is the raw model output for KindMalformed and KindTruncated.
	Content json.RawMessage

	// Fields are JSON pointers of the question fields that failed
	// schema validation.
	Fields []string

	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Provider != "" {
		b.WriteString(e.Provider)
		b.WriteString(": ")
	}

	switch e.Kind {
	case KindRateLimited:
		b.WriteString("rate limited")
		if e.RetryAfter > 0 {
			fmt.Fprintf(&b, " (retry after %s)", e.RetryAfter)
		}
	case KindAuth:
		b.WriteString("API key rejected")
	case KindRejected:
		b.WriteString("request rejected")
	case KindMalformed:
		b.WriteString("malformed question")
		if len(e.Fields) > 0 {
			fmt.Fprintf(&b, " (fields %s)", strings.Join(e.Fields, ", "))
		}
	case KindTruncated:
		b.WriteString("question cut off at the token limit")
	default:
		b.WriteString("provider unavailable")
	}

	if e.Status != 0 {
		fmt.Fprintf(&b, ": HTTP %d", e.Status)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether sending the same request again may succeed.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindUnavailable, KindRateLimited, KindMalformed:
		return true
	}
	return false
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// statusError classifies a failed HTTP exchange with a provider.
func statusError(provider string, status int, retryAfter time.Duration, err error) *Error {
	e := &Error{Provider: provider, Status: status, RetryAfter: retryAfter, Err: err}
	switch {
	case status == http.StatusTooManyRequests:
		e.Kind = KindRateLimited
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		e.Kind = KindAuth
	case status >= 400 && status < 500 && status != http.StatusRequestTimeout:
		e.Kind = KindRejected
	default:
		e.Kind = KindUnavailable
	}
	return e
}

// retryAfter reads a Retry-After header given in seconds. HTTP dates are
// ignored.
func retryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}
	secs, err := strconv.Atoi(strings.TrimSpace(resp.Header.Get("Retry-After")))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
