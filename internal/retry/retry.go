package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/amishk599/jobintake/internal/ai"
	"github.com/amishk599/jobintake/internal/model"
)

// policy holds the backoff settings shared by the retry decorators.
type policy struct {
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger
}

func newPolicy(maxRetries int, baseDelay time.Duration, logger *slog.Logger) policy {
	if logger == nil {
		logger = slog.Default()
	}
	return policy{maxRetries: maxRetries, baseDelay: baseDelay, logger: logger}
}

// RetryProvider is a decorator that retries transient failures with exponential
// backoff and jitter before delegating to the wrapped LLMProvider.
type RetryProvider struct {
	inner ai.LLMProvider
	policy
}

// NewRetryProvider wraps an LLMProvider with retry logic.
// maxRetries is the number of additional attempts after the first failure.
// baseDelay is the delay before the first retry, doubled on each subsequent retry.
func NewRetryProvider(inner ai.LLMProvider, maxRetries int, baseDelay time.Duration, logger *slog.Logger) *RetryProvider {
	return &RetryProvider{inner: inner, policy: newPolicy(maxRetries, baseDelay, logger)}
}

// Complete calls the wrapped provider, retrying on transient errors.
func (p *RetryProvider) Complete(ctx context.Context, req ai.CompletionRequest) (string, error) {
	return do(ctx, p.policy, "complete "+req.SchemaName, func() (string, error) {
		return p.inner.Complete(ctx, req)
	})
}

// RetryFetcher is a decorator that retries transient failures of a
// MessageSource, such as a lead feed answering 429 or 5xx.
type RetryFetcher struct {
	inner model.MessageSource
	policy
}

// NewRetryFetcher wraps a MessageSource with retry logic.
func NewRetryFetcher(inner model.MessageSource, maxRetries int, baseDelay time.Duration, logger *slog.Logger) *RetryFetcher {
	return &RetryFetcher{inner: inner, policy: newPolicy(maxRetries, baseDelay, logger)}
}

// FetchMessages fetches from the wrapped source, retrying on transient errors.
func (f *RetryFetcher) FetchMessages(ctx context.Context) ([]model.Message, error) {
	return do(ctx, f.policy, "fetch messages", func() ([]model.Message, error) {
		return f.inner.FetchMessages(ctx)
	})
}

// do runs fn once, then up to p.maxRetries more times while it fails with a
// retryable error.
func do[T any](ctx context.Context, p policy, op string, fn func() (T, error)) (T, error) {
	var zero T
	out, err := fn()
	if err == nil {
		return out, nil
	}

	if !isRetryable(err) {
		return zero, err
	}

	lastErr := err
	for attempt := 1; attempt <= p.maxRetries; attempt++ {
		delay := p.backoffDelay(attempt, lastErr)

		p.logger.Warn("retrying after transient error",
			"op", op,
			"attempt", attempt,
			"max_retries", p.maxRetries,
			"delay", delay,
			"error", lastErr,
		)

		select {
		case <-ctx.Done():
			return zero, fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}

		out, err = fn()
		if err == nil {
			return out, nil
		}

		if !isRetryable(err) {
			return zero, err
		}
		lastErr = err
	}

	return zero, lastErr
}

// backoffDelay computes the delay for a given attempt with ±30% jitter.
// If the error includes a Retry-After duration (HTTP 429), that takes precedence.
func (p policy) backoffDelay(attempt int, err error) time.Duration {
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) && httpErr.RetryAfter > 0 {
		return httpErr.RetryAfter
	}

	// Exponential: baseDelay * 2^(attempt-1)
	delay := p.baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}

	jitter := float64(delay) * 0.3
	return time.Duration(float64(delay) + (rand.Float64()*2-1)*jitter)
}

// Budget returns how long a retried call may take when each attempt runs for
// up to attempt: every attempt plus the longest jittered backoff between
// them. Retry-After overrides are not counted.
func Budget(attempt time.Duration, maxRetries int, baseDelay time.Duration) time.Duration {
	if maxRetries < 0 {
		maxRetries = 0
	}
	total := attempt * time.Duration(maxRetries+1)
	delay := baseDelay
	for i := 0; i < maxRetries; i++ {
		total += delay + delay*3/10
		delay *= 2
	}
	return total
}

// isRetryable returns true if the error represents a transient failure worth retrying.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, model.ErrNoCredentials) || errors.Is(err, model.ErrMalformedOutput) {
		return false
	}

	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) {
		// 429 and 5xx are transient; any other status is final.
		return httpErr.StatusCode == 429 || httpErr.StatusCode >= 500
	}

	// Network, DNS and similar failures.
	return true
}
