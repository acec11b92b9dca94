package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("transient")

func transientOnly(err error) bool {
	return errors.Is(err, errTransient)
}

func TestRetryPolicySucceedsFirstTry(t *testing.T) {
	t.Parallel()

	p := RetryPolicy{MaxAttempts: 3, Delay: time.Millisecond, Retryable: transientOnly}
	attempts, err := p.Run(context.Background(), func(attempt int) error {
		return nil
	})
	require.Nil(t, err)
	require.Equal(t, 1, attempts)
}

func TestRetryPolicyRetriesTransientErrors(t *testing.T) {
	t.Parallel()

	calls := 0
	p := RetryPolicy{MaxAttempts: 3, Delay: time.Millisecond, Retryable: transientOnly}
	attempts, err := p.Run(context.Background(), func(attempt int) error {
		calls++
		require.Equal(t, calls, attempt)
		if calls < 3 {
			return errTransient
		}
		return nil
	})
	require.Nil(t, err)
	require.Equal(t, 3, attempts)
}

func TestRetryPolicyExhaustionSurfacesLastError(t *testing.T) {
	t.Parallel()

	final := errors.New("transient: last one")
	calls := 0
	p := RetryPolicy{MaxAttempts: 3, Delay: time.Millisecond, Retryable: func(error) bool { return true }}
	_, err := p.Run(context.Background(), func(attempt int) error {
		calls++
		if calls == 3 {
			return final
		}
		return errTransient
	})
	require.Equal(t, final, err)
	require.Equal(t, 3, calls)
}

func TestRetryPolicyStopsOnNonRetryable(t *testing.T) {
	t.Parallel()

	structural := errors.New("structural")
	calls := 0
	p := RetryPolicy{MaxAttempts: 3, Delay: time.Millisecond, Retryable: transientOnly}
	attempts, err := p.Run(context.Background(), func(attempt int) error {
		calls++
		return structural
	})
	require.Equal(t, structural, err)
	require.Equal(t, 1, attempts)
	require.Equal(t, 1, calls)
}

func TestRetryPolicyRespectsContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	p := RetryPolicy{MaxAttempts: 5, Delay: time.Minute, Retryable: transientOnly}

	start := time.Now()
	attempts, err := p.Run(ctx, func(attempt int) error {
		cancel()
		return errTransient
	})
	require.Equal(t, errTransient, err)
	require.Equal(t, 1, attempts)
	require.Less(t, time.Since(start), time.Second)
}
