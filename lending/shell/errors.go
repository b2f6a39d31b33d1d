package shell

import (
	"context"
	"errors"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/lending/core"
)

// StoreError classifies an error from the event store or from event mapping.
// A lost consistency check becomes ConcurrentModification, everything else StorageFailure.
// The original error stays matchable with errors.Is.
func StoreError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, core.ErrConcurrentModification) || errors.Is(err, core.ErrStorageFailure) {
		return err
	}

	if errors.Is(err, eventstore.ErrConcurrencyConflict) {
		return errors.Join(core.ErrConcurrentModification, err)
	}

	return errors.Join(core.ErrStorageFailure, err)
}

// IsCancellationError checks if an error is due to context cancellation.
func IsCancellationError(err error) bool {
	return errors.Is(err, context.Canceled)
}

// IsTimeoutError checks if an error is due to context deadline exceeded.
func IsTimeoutError(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

// IsConcurrencyConflictError checks if an error is due to optimistic concurrency control failure.
func IsConcurrencyConflictError(err error) bool {
	return errors.Is(err, eventstore.ErrConcurrencyConflict) || errors.Is(err, core.ErrConcurrentModification)
}

// IsRejection reports whether err is a business rule rejection rather than a technical failure.
func IsRejection(err error) bool {
	return core.IsClientError(err)
}
