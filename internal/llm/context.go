package llm

import "context"

// Purposes recorded with each request.
const (
	PurposeQuestion = "question-gen"
	PurposeUnknown  = "unknown"
)

type purposeKey struct{}

// WithPurpose labels the requests made with ctx in the request log.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or PurposeUnknown.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return PurposeUnknown
}
