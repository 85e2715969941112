// Package resilience provides the retry policy shared by all provider
// resolvers and the per-client rate limiter used by the delivery listener.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	defaultMaxAttempts = 3
	defaultRetryDelay  = time.Second
)

// RetryConfig configures the fixed-delay retry loop.
type RetryConfig struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: defaultMaxAttempts,
		Delay:       defaultRetryDelay,
	}
}

// PermanentError marks an error as not retryable. Retry stops immediately
// when fn returns an error wrapping a PermanentError.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	return e.Err.Error()
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

// Permanent wraps err so that Retry will not attempt it again.
func Permanent(err error) error {
	if err == nil {
		return nil
	}

	return &PermanentError{Err: err}
}

// Retry executes fn up to cfg.MaxAttempts times with a fixed delay between
// attempts. The wait honors ctx cancellation. The last error is returned
// after exhaustion.
func Retry[T any](ctx context.Context, cfg RetryConfig, fn func() (T, error)) (T, error) {
	var zero T

	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}

	if cfg.Delay <= 0 {
		cfg.Delay = defaultRetryDelay
	}

	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return zero, fmt.Errorf("retry interrupted: %w", ctx.Err())
			case <-time.After(cfg.Delay):
			}
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}

		lastErr = err

		var perm *PermanentError
		if errors.As(err, &perm) {
			return zero, perm.Err
		}
	}

	return zero, lastErr
}
