package shell_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/lending/core"
	"github.com/AntonStoeckl/library-lending-engine/lending/shell"
	"github.com/AntonStoeckl/library-lending-engine/testutil/observability/testdoubles"
)

func Test_RetryWithExponentialBackoff_Success_NoRetries(t *testing.T) {
	callCount := 0

	meta, err := shell.RetryWithExponentialBackoff(context.Background(), func(context.Context) error {
		callCount++
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, 1, meta.Attempts)
	assert.Equal(t, time.Duration(0), meta.TotalDelay)
	assert.Equal(t, "none", meta.LastErrorType)
}

func Test_RetryWithExponentialBackoff_RetriesConcurrencyConflicts(t *testing.T) {
	// arrange
	callCount := 0
	fn := func(context.Context) error {
		callCount++
		if callCount < 3 {
			return errors.Join(core.ErrConcurrentModification, eventstore.ErrConcurrencyConflict)
		}

		return nil
	}

	// act
	meta, err := shell.RetryWithExponentialBackoff(context.Background(), fn, shell.WithBaseDelay(time.Millisecond))

	// assert
	assert.NoError(t, err)
	assert.Equal(t, 3, callCount)
	assert.Equal(t, 3, meta.Attempts)
	assert.Greater(t, meta.TotalDelay, time.Duration(0))
	assert.False(t, meta.RetriesExhausted)
}

func Test_RetryWithExponentialBackoff_RejectionsFailFast(t *testing.T) {
	callCount := 0

	meta, err := shell.RetryWithExponentialBackoff(context.Background(), func(context.Context) error {
		callCount++
		return core.ErrBookNotAvailable
	})

	assert.ErrorIs(t, err, core.ErrBookNotAvailable)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, "other", meta.LastErrorType)
}

func Test_RetryWithExponentialBackoff_NoRetryReturnsConflictAtOnce(t *testing.T) {
	callCount := 0

	meta, err := shell.RetryWithExponentialBackoff(context.Background(), func(context.Context) error {
		callCount++
		return eventstore.ErrConcurrencyConflict
	}, shell.NoRetry())

	assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, "concurrency_conflict", meta.LastErrorType)
	assert.True(t, meta.RetriesExhausted)
}

func Test_RetryWithExponentialBackoff_ExhaustionIsCounted(t *testing.T) {
	// arrange
	metrics := testdoubles.NewMetricsCollectorSpy()

	// act
	meta, err := shell.RetryWithExponentialBackoff(context.Background(), func(context.Context) error {
		return eventstore.ErrConcurrencyConflict
	},
		shell.WithMaxAttempts(3),
		shell.WithBaseDelay(0),
		shell.WithJitterFactor(0),
		shell.WithMetrics(metrics, "Checkout"),
	)

	// assert
	assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
	assert.Equal(t, 3, meta.Attempts)
	assert.True(t, meta.RetriesExhausted)
	assert.Equal(t, 2, metrics.Count(shell.CommandHandlerRetriesMetric, map[string]string{"command_type": "Checkout"}))
	assert.Equal(t, 1, metrics.Count(shell.CommandHandlerMaxRetriesReachedMetric, map[string]string{"final_error_type": "concurrency_conflict"}))
}

func Test_RetryWithExponentialBackoff_HonoursCancellation(t *testing.T) {
	// arrange
	ctx, cancel := context.WithCancel(context.Background())
	callCount := 0

	// act
	meta, err := shell.RetryWithExponentialBackoff(ctx, func(context.Context) error {
		callCount++
		cancel()

		return eventstore.ErrConcurrencyConflict
	}, shell.WithBaseDelay(time.Hour))

	// assert
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, "context_canceled", meta.LastErrorType)
}

func Test_RetryOptions_RejectInvalidValues(t *testing.T) {
	fn := func(context.Context) error { return nil }

	tests := []struct {
		name     string
		option   shell.RetryOption
		expected error
	}{
		{"max_attempts", shell.WithMaxAttempts(0), shell.ErrInvalidMaxAttempts},
		{"base_delay", shell.WithBaseDelay(-time.Second), shell.ErrNegativeBaseDelay},
		{"jitter", shell.WithJitterFactor(1.5), shell.ErrInvalidJitterFactor},
		{"metrics_collector", shell.WithMetrics(nil, "Checkout"), shell.ErrNilMetricsCollector},
		{"command_type", shell.WithMetrics(testdoubles.NewMetricsCollectorSpy(), ""), shell.ErrEmptyCommandType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := shell.RetryWithExponentialBackoff(context.Background(), fn, tt.option)

			assert.ErrorIs(t, err, tt.expected)
		})
	}
}
