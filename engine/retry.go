package engine

import (
	"context"
	"time"
)

// RetryPolicy bounds how many times an operation is re-run and how long to
// wait between runs. The delay is fixed; no backoff growth, no jitter.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
	Retryable   func(error) bool
}

// Run invokes op until it succeeds, fails non-retryably, or attempts are
// exhausted. Returns the number of attempts made and the final error.
func (p RetryPolicy) Run(ctx context.Context, op func(attempt int) error) (int, error) {
	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		err := op(attempt)
		if err == nil {
			return attempt, nil
		}
		lastErr = err
		if p.Retryable == nil || !p.Retryable(err) {
			return attempt, err
		}
		if attempt == p.MaxAttempts {
			return attempt, lastErr
		}
		select {
		case <-ctx.Done():
			return attempt, lastErr
		case <-time.After(p.Delay):
		}
	}
	return p.MaxAttempts, lastErr
}
