package scan

import (
	"context"
	"time"
)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the backoff delays for archive query retries: 1s, 2s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second}
}

// WithRetry calls op until it succeeds, shouldRetry rejects its error, or
// the delays are exhausted, waiting delays[i] before retry i+1.
// A nil shouldRetry retries every error. The logger, if provided, is called
// for each retry attempt.
func WithRetry[T any](
	ctx context.Context,
	delays []time.Duration,
	op func(ctx context.Context) (T, error),
	shouldRetry func(error) bool,
	logger LogFunc,
) (T, error) {
	var zero T
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		v, err := op(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if attempt >= maxAttempts-1 {
			break
		}
		if shouldRetry != nil && !shouldRetry(err) {
			break
		}
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		if logger != nil {
			logger("retry (attempt %d): %v", attempt+2, err)
		}

		if err := sleep(ctx, delays[attempt]); err != nil {
			return zero, err
		}
	}

	return zero, lastErr
}
