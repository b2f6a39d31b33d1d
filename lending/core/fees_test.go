package core_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-lending-engine/lending/core"
)

func Test_ComputeFees(t *testing.T) {
	policy := core.DefaultLoanPolicy()
	checkoutDate := time.Date(2025, 3, 1, 15, 45, 0, 0, time.UTC)
	dueDate := checkoutDate.AddDate(0, 0, policy.LoanDurationInDays)

	tests := []struct {
		name             string
		returnDate       time.Time
		expectedDaysHeld int
		expectedLateDays int
		expectedTotal    string
	}{
		{
			name:             "returned_on_day_20_pays_borrowing_and_late_fee",
			returnDate:       checkoutDate.AddDate(0, 0, 20),
			expectedDaysHeld: 20,
			expectedLateDays: 6,
			expectedTotal:    "46",
		},
		{
			name:             "returned_on_day_5_pays_borrowing_fee_only",
			returnDate:       checkoutDate.AddDate(0, 0, 5),
			expectedDaysHeld: 5,
			expectedLateDays: 0,
			expectedTotal:    "10",
		},
		{
			name:             "returned_on_due_day_is_not_late",
			returnDate:       time.Date(2025, 3, 15, 23, 59, 0, 0, time.UTC),
			expectedDaysHeld: 14,
			expectedLateDays: 0,
			expectedTotal:    "28",
		},
		{
			name:             "time_of_day_does_not_matter",
			returnDate:       time.Date(2025, 3, 2, 0, 0, 1, 0, time.UTC),
			expectedDaysHeld: 1,
			expectedLateDays: 0,
			expectedTotal:    "2",
		},
		{
			name:             "same_day_return_is_free",
			returnDate:       checkoutDate.Add(time.Hour),
			expectedDaysHeld: 0,
			expectedLateDays: 0,
			expectedTotal:    "0",
		},
		{
			name:             "return_before_checkout_is_clamped",
			returnDate:       checkoutDate.AddDate(0, 0, -3),
			expectedDaysHeld: 0,
			expectedLateDays: 0,
			expectedTotal:    "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// act
			fees := core.ComputeFees(checkoutDate, dueDate, tt.returnDate, policy)

			// assert
			assert.Equal(t, tt.expectedDaysHeld, fees.DaysHeld)
			assert.Equal(t, tt.expectedLateDays, fees.LateDays)
			assert.True(t, decimal.RequireFromString(tt.expectedTotal).Equal(fees.TotalFee), "total fee was %s", fees.TotalFee)
			assert.True(t, fees.BorrowingFee.Add(fees.LateFee).Equal(fees.TotalFee))
		})
	}
}

func Test_ComputeFees_IsDeterministic(t *testing.T) {
	policy := core.DefaultLoanPolicy()
	checkoutDate := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	dueDate := checkoutDate.AddDate(0, 0, 14)
	returnDate := checkoutDate.AddDate(0, 0, 20)

	first := core.ComputeFees(checkoutDate, dueDate, returnDate, policy)
	second := core.ComputeFees(checkoutDate, dueDate, returnDate, policy)

	assert.True(t, first.TotalFee.Equal(second.TotalFee))
	assert.Equal(t, "46.00", first.TotalFee.StringFixed(2))
}

func Test_CivilDay_UsesUTCCalendarDays(t *testing.T) {
	berlin := time.FixedZone("CET", 60*60)

	lateEvening := time.Date(2025, 3, 1, 23, 30, 0, 0, time.UTC)
	nextMorningLocal := time.Date(2025, 3, 2, 0, 30, 0, 0, berlin) // still 1 March in UTC

	assert.Equal(t, core.CivilDay(lateEvening), core.CivilDay(nextMorningLocal))
	assert.Equal(t, int64(0), core.CivilDay(time.Unix(0, 0)))
	assert.Equal(t, int64(-1), core.CivilDay(time.Unix(-1, 0)))
}
