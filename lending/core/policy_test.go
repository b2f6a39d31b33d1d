package core_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-lending-engine/lending/core"
)

func Test_DefaultLoanPolicy(t *testing.T) {
	policy := core.DefaultLoanPolicy()

	assert.NoError(t, policy.Validate())
	assert.Equal(t, 14, policy.LoanDurationInDays)
	assert.Equal(t, 5, policy.MaxBooksPerPatron)
	assert.Equal(t, "2.00", policy.BorrowingFeePerDay.StringFixed(2))
	assert.Equal(t, "1.00", policy.LateFeePerDay.StringFixed(2))
}

func Test_LoanPolicy_Validate_ReportsEveryViolation(t *testing.T) {
	policy := core.LoanPolicy{
		LoanDurationInDays: 0,
		MaxBooksPerPatron:  -1,
		BorrowingFeePerDay: decimal.NewFromInt(-2),
		LateFeePerDay:      decimal.NewFromInt(-1),
	}

	err := policy.Validate()

	assert.ErrorIs(t, err, core.ErrInvalidLoanDuration)
	assert.ErrorIs(t, err, core.ErrInvalidMaxBooks)
	assert.ErrorIs(t, err, core.ErrNegativeBorrowingFee)
	assert.ErrorIs(t, err, core.ErrNegativeLateFee)
}

func Test_StaticPolicy_ReturnsIndependentSnapshots(t *testing.T) {
	provider := core.StaticPolicy(core.DefaultLoanPolicy())

	snapshot := provider.Current()
	snapshot.MaxBooksPerPatron = 1

	assert.Equal(t, 5, provider.Current().MaxBooksPerPatron)
}
