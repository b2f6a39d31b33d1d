package core

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidLoanDuration  = errors.New("loan duration must be at least one day")
	ErrInvalidMaxBooks      = errors.New("max books per patron must be at least one")
	ErrNegativeBorrowingFee = errors.New("borrowing fee per day must not be negative")
	ErrNegativeLateFee      = errors.New("late fee per day must not be negative")
)

const (
	defaultLoanDurationInDays = 14
	defaultMaxBooksPerPatron  = 5
	defaultBorrowingFeePerDay = "2.00"
	defaultLateFeePerDay      = "1.00"
)

// LoanPolicy holds the constants of lending. It is a value, callers work on a snapshot.
type LoanPolicy struct {
	LoanDurationInDays int
	MaxBooksPerPatron  int
	BorrowingFeePerDay decimal.Decimal
	LateFeePerDay      decimal.Decimal
}

// DefaultLoanPolicy is 14 days, 5 books, 2.00 per day held and 1.00 per day late.
func DefaultLoanPolicy() LoanPolicy {
	return LoanPolicy{
		LoanDurationInDays: defaultLoanDurationInDays,
		MaxBooksPerPatron:  defaultMaxBooksPerPatron,
		BorrowingFeePerDay: decimal.RequireFromString(defaultBorrowingFeePerDay),
		LateFeePerDay:      decimal.RequireFromString(defaultLateFeePerDay),
	}
}

// Validate returns all violated constraints joined.
func (p LoanPolicy) Validate() error {
	var errs []error

	if p.LoanDurationInDays < 1 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidLoanDuration, p.LoanDurationInDays))
	}

	if p.MaxBooksPerPatron < 1 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidMaxBooks, p.MaxBooksPerPatron))
	}

	if p.BorrowingFeePerDay.IsNegative() {
		errs = append(errs, fmt.Errorf("%w: %s", ErrNegativeBorrowingFee, p.BorrowingFeePerDay))
	}

	if p.LateFeePerDay.IsNegative() {
		errs = append(errs, fmt.Errorf("%w: %s", ErrNegativeLateFee, p.LateFeePerDay))
	}

	return errors.Join(errs...)
}

// PolicyProvider hands out the policy in force. Every call returns an independent snapshot.
type PolicyProvider interface {
	Current() LoanPolicy
}

// StaticPolicy always returns the same policy.
type StaticPolicy LoanPolicy

func (p StaticPolicy) Current() LoanPolicy {
	return LoanPolicy(p)
}
