package core

import (
	"errors"
	"fmt"
)

// Error kinds. Every error the engine returns matches exactly one of them with errors.Is.
var (
	ErrValidation             = errors.New("validation error")
	ErrResourceNotFound       = errors.New("resource not found")
	ErrInvalidOperation       = errors.New("invalid operation")
	ErrPolicyViolation        = errors.New("policy violation")
	ErrConcurrentModification = errors.New("concurrent modification")
	ErrStorageFailure         = errors.New("storage failure")
)

// Reasons wrap their kind.
var (
	ErrInvalidISBN     = fmt.Errorf("%w: invalid isbn", ErrValidation)
	ErrInvalidPatronID = fmt.Errorf("%w: invalid patron id", ErrValidation)
	ErrEmptyTitle      = fmt.Errorf("%w: empty title", ErrValidation)

	ErrBookNotFound        = fmt.Errorf("%w: book", ErrResourceNotFound)
	ErrPatronNotFound      = fmt.Errorf("%w: patron", ErrResourceNotFound)
	ErrReservationNotFound = fmt.Errorf("%w: reservation", ErrResourceNotFound)

	ErrBookNotAvailable       = fmt.Errorf("%w: book not available", ErrInvalidOperation)
	ErrBookCurrentlyAvailable = fmt.Errorf("%w: book currently available", ErrInvalidOperation)
	ErrNotPatronsTurn         = fmt.Errorf("%w: not patron's turn", ErrInvalidOperation)
	ErrNotCurrentlyBorrowed   = fmt.Errorf("%w: not currently borrowed", ErrInvalidOperation)

	ErrCheckoutLimitExceeded = fmt.Errorf("%w: checkout limit exceeded", ErrPolicyViolation)
	ErrDuplicateReservation  = fmt.Errorf("%w: duplicate reservation", ErrPolicyViolation)
)

// IsRetryable is true only for a lost optimistic concurrency check.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrentModification)
}

// IsClientError is true for errors caused by the request rather than by the system.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrResourceNotFound) ||
		errors.Is(err, ErrInvalidOperation) ||
		errors.Is(err, ErrPolicyViolation)
}
