// Package httputil provides the retry layer shared by HTTP fetches.
package httputil

import (
	"context"
	"errors"
	"time"
)

// Defaults for [RetryWithBackoff].
const (
	defaultAttempts = 3
	defaultDelay    = time.Second
)

// RetryableError marks an error as transient. [Retry] re-attempts an
// operation only when its error unwraps to this type; everything else
// fails fast. Fetches wrap network failures, timeouts, and 5xx
// responses with it.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry runs fn up to attempts times, doubling delay after each failed
// attempt. Non-retryable errors and the final attempt's error are
// returned as-is; a context that ends during a backoff wait returns
// ctx.Err().
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		var retryable *RetryableError
		if !errors.As(err, &retryable) || attempt == attempts {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
}

// RetryWithBackoff runs fn with the defaults: three attempts starting
// from a one second delay.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, defaultAttempts, defaultDelay, fn)
}
