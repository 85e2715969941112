package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func fastConfig(attempts int) RetryConfig {
	return RetryConfig{MaxAttempts: attempts, Delay: time.Millisecond}
}

func TestRetrySucceedsOnThirdAttempt(t *testing.T) {
	calls := 0

	result, err := Retry(context.Background(), fastConfig(3), func() (string, error) {
		calls++
		if calls < 3 {
			return "", errBoom
		}

		return "ok", nil
	})

	require.NoError(t, err)
	require.Equal(t, "ok", result)
	require.Equal(t, 3, calls)
}

func TestRetryExhaustsAttempts(t *testing.T) {
	calls := 0

	_, err := Retry(context.Background(), fastConfig(3), func() (string, error) {
		calls++
		return "", errBoom
	})

	require.ErrorIs(t, err, errBoom)
	require.Equal(t, 3, calls)
}

func TestRetryStopsAfterSuccess(t *testing.T) {
	calls := 0

	result, err := Retry(context.Background(), fastConfig(5), func() (int, error) {
		calls++
		return 42, nil
	})

	require.NoError(t, err)
	require.Equal(t, 42, result)
	require.Equal(t, 1, calls)
}

func TestRetryPermanentErrorShortCircuits(t *testing.T) {
	calls := 0

	_, err := Retry(context.Background(), fastConfig(3), func() (string, error) {
		calls++
		return "", Permanent(errBoom)
	})

	require.ErrorIs(t, err, errBoom)
	require.Equal(t, 1, calls)
}

func TestRetryHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0

	_, err := Retry(ctx, RetryConfig{MaxAttempts: 3, Delay: time.Minute}, func() (string, error) {
		calls++

		cancel()

		return "", errBoom
	})

	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, calls)
}

func TestKeyLimiter(t *testing.T) {
	l := NewKeyLimiter(2, time.Hour)

	require.True(t, l.Allow("1.2.3.4"))
	require.True(t, l.Allow("1.2.3.4"))
	require.False(t, l.Allow("1.2.3.4"))

	// Independent budget per key.
	require.True(t, l.Allow("5.6.7.8"))
}
