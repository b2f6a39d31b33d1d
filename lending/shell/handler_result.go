package shell

import (
	"time"

	"github.com/AntonStoeckl/library-lending-engine/lending/core"
)

// HandlerResult represents the outcome of a command handler execution.
// It carries the business outcome, the events that were appended, and retry metadata.
type HandlerResult struct {
	// Idempotent means the requested state already held and nothing was appended.
	Idempotent bool

	// Events are the domain events appended by the successful attempt, in append order.
	Events core.DomainEvents

	// RetryAttempts is the total number of attempts made (1 for no retries).
	RetryAttempts int

	// TotalRetryDelay is the cumulative time spent in backoff, excluding execution time.
	TotalRetryDelay time.Duration

	// LastErrorType is one of "none", "concurrency_conflict", "context_canceled",
	// "context_deadline_exceeded", "other".
	LastErrorType string

	// RetriesExhausted is true when the last attempt still failed with a retryable error.
	RetriesExhausted bool
}

// NewSuccessResult creates a HandlerResult for an operation that appended events.
func NewSuccessResult(retryMetrics RetryMetrics, events core.DomainEvents) HandlerResult {
	result := resultFrom(retryMetrics)
	result.Events = events

	return result
}

// NewIdempotentResult creates a HandlerResult for idempotent operations.
func NewIdempotentResult(retryMetrics RetryMetrics) HandlerResult {
	result := resultFrom(retryMetrics)
	result.Idempotent = true

	return result
}

// NewErrorResult creates a HandlerResult for failed operations.
func NewErrorResult(retryMetrics RetryMetrics) HandlerResult {
	return resultFrom(retryMetrics)
}

func resultFrom(retryMetrics RetryMetrics) HandlerResult {
	return HandlerResult{
		RetryAttempts:    retryMetrics.Attempts,
		TotalRetryDelay:  retryMetrics.TotalDelay,
		LastErrorType:    retryMetrics.LastErrorType,
		RetriesExhausted: retryMetrics.RetriesExhausted,
	}
}

// FirstEventOf returns the first appended event of type E.
func FirstEventOf[E core.DomainEvent](result HandlerResult) (E, bool) {
	for _, event := range result.Events {
		if e, ok := event.(E); ok {
			return e, true
		}
	}

	var zero E

	return zero, false
}
