package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNetwork marks a remote backend failure caused by the connection rather
// than the request: timeouts, refused or dropped connections.
var ErrNetwork = errors.New("network error")

// Retry schedule for remote backends. A cache is an optimization, so the
// total wait stays well under a second before the caller falls back to a
// fresh build.
var (
	retryAttempts = 3
	retryDelay    = 100 * time.Millisecond
)

// RetryableError marks a backend error worth another attempt.
type RetryableError struct{ Err error }

// Retryable marks err as transient. nil stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err was marked by [Retryable] anywhere in its
// chain.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// RetryWithBackoff calls fn until it succeeds, returns an error that is not
// retryable, or the attempts run out. The delay doubles after each failure.
// Cancelling ctx stops the wait and returns ctx.Err().
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := retryDelay
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
		if attempt == retryAttempts {
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
