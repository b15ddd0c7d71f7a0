package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// RetryProvider resends a question request while the failure is one a
// later attempt can fix. Auth, rejected and truncated requests fail at
// once; a malformed question is resent once, since the generator runs
// its own regeneration loop on top.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
	logger *zap.Logger

	// jitter returns a value in [-1, 1).
	jitter func() float64
}

// WithRetry wraps p. logger may be nil.
func WithRetry(p Provider, cfg RetryConfig, logger *zap.Logger) Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetryProvider{
		inner:  p,
		config: cfg,
		logger: logger,
		jitter: func() float64 { return 2*rand.Float64() - 1 },
	}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	attempts := max(r.config.MaxAttempts, 1)
	malformed := 0

	var err error
	for attempt := 1; ; attempt++ {
		var resp *Response
		resp, err = r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		if attempt == attempts || !r.retryable(err, &malformed) {
			return nil, err
		}

		wait, ok := r.wait(attempt, err)
		if !ok {
			// The provider asked for a pause longer than a quiz player
			// should sit through.
			return nil, err
		}
		r.logger.Info("retrying question request",
			zap.String("model", r.inner.ModelID()),
			zap.String("purpose", PurposeFrom(ctx)),
			zap.Int("attempt", attempt+1),
			zap.Duration("wait", wait),
			zap.Error(err))

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

func (r *RetryProvider) retryable(err error, malformed *int) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var e *Error
	if !errors.As(err, &e) {
		// Failures from outside this package are treated as transport
		// errors.
		return true
	}
	if e.Kind == KindMalformed {
		*malformed++
		return *malformed == 1
	}
	return e.Retryable()
}

// wait is the pause after the given failed attempt (1-based). It reports
// false when a rate limit asks for more than MaxWait.
func (r *RetryProvider) wait(attempt int, err error) (time.Duration, bool) {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindRateLimited && e.RetryAfter > 0 {
		if r.config.MaxWait > 0 && e.RetryAfter > r.config.MaxWait {
			return 0, false
		}
		return e.RetryAfter, true
	}

	mult := r.config.Multiplier
	if mult < 1 {
		mult = 1
	}
	d := float64(r.config.InitialWait) * math.Pow(mult, float64(attempt-1))
	if r.config.MaxWait > 0 {
		d = math.Min(d, float64(r.config.MaxWait))
	}
	d += d * 0.2 * r.jitter()
	return time.Duration(math.Max(d, 0)), true
}
