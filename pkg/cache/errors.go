package cache

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for caching operations.
var (
	// ErrNetwork is returned for backend connection failures and timeouts.
	ErrNetwork = errors.New("network error")

	// ErrClosed is returned when a backend is used after Close.
	ErrClosed = errors.New("cache closed")
)

// RetryableError wraps an error to indicate it should trigger a retry.
type RetryableError struct{ Err error }

// Retryable wraps an error as a RetryableError.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// Error returns the error message of the wrapped error.
func (e *RetryableError) Error() string { return e.Err.Error() }

// Unwrap returns the wrapped error.
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable checks if an error is wrapped with RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// retryDelay is the first backoff interval used by RetryWithBackoff.
var retryDelay = 100 * time.Millisecond

// Retry executes fn up to attempts times, doubling delay after each failed
// attempt. Only errors wrapped with Retryable trigger another attempt; other
// errors are returned immediately. Returns the last error if all attempts
// fail, or ctx.Err() if ctx is done while waiting.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !IsRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}

// RetryWithBackoff is [Retry] with the cache backends' defaults: 3 attempts
// starting at 100ms.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, 3, retryDelay, fn)
}
