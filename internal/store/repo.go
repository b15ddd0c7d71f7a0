package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // id > After
	Before  int64     // id < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Kind    string    // exact match on kind when set
	Purpose string    // exact match on purpose when set
}

// Request kinds.
const (
	KindAPI = "api" // quiz API call (stream, image, models)
	KindLLM = "llm" // direct LLM provider call
)

// RequestEventData captures a single outbound request.
type RequestEventData struct {
	Kind         string
	Endpoint     string // API path or LLM provider
	Model        string
	Purpose      string
	RunID        string
	Status       int
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// RequestEvent is a stored outbound request.
type RequestEvent struct {
	ID        int64
	Timestamp time.Time
	RequestEventData
}

// UsageSummary aggregates request events by one dimension.
type UsageSummary struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
	Failures     int
}

// EventRepo provides append and query access to request events.
type EventRepo interface {
	// AppendRequest records an outbound call.
	AppendRequest(ctx context.Context, data RequestEventData) error

	// QueryRequests returns events newest first.
	QueryRequests(ctx context.Context, opts QueryOpts) ([]RequestEvent, error)

	// GetRequest returns the event with id, or nil if none exists.
	GetRequest(ctx context.Context, id int64) (*RequestEvent, error)

	// UsageByPurpose aggregates calls and tokens per purpose.
	UsageByPurpose(ctx context.Context) ([]UsageSummary, error)

	// UsageByModel aggregates calls and tokens per model.
	UsageByModel(ctx context.Context) ([]UsageSummary, error)
}
