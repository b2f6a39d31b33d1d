package returnbook_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-engine/lending/core"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/command/returnbook"
)

const isbn = "080442957X"

var checkoutDay = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func givenCheckedOut(t *testing.T, patron uuid.UUID) core.DomainEvents {
	t.Helper()

	return core.DomainEvents{
		core.BuildBookRegisteredForLending(isbn, "Title", checkoutDay),
		core.BuildPatronRegisteredForLending(patron, "patron", checkoutDay),
		core.BuildBookCheckedOut(uuid.New(), isbn, patron, 14, checkoutDay),
	}
}

func Test_Decide_ComputesFees(t *testing.T) {
	tests := []struct {
		name          string
		daysAfter     int
		expectedTotal string
		expectedLate  int
	}{
		{name: "returned_on_day_5", daysAfter: 5, expectedTotal: "10.00", expectedLate: 0},
		{name: "returned_on_due_day", daysAfter: 14, expectedTotal: "28.00", expectedLate: 0},
		{name: "returned_on_day_20", daysAfter: 20, expectedTotal: "46.00", expectedLate: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// arrange
			patron := uuid.New()
			returnedAt := checkoutDay.AddDate(0, 0, tt.daysAfter).Add(5 * time.Hour)

			// act
			result := returnbook.Decide(givenCheckedOut(t, patron), returnbook.BuildCommand(isbn, patron, returnedAt), core.DefaultLoanPolicy())

			// assert
			require.NoError(t, result.HasError())
			require.Len(t, result.Events, 1)
			returned, ok := result.Events[0].(core.BookReturned)
			require.True(t, ok)
			assert.Equal(t, tt.expectedTotal, returned.TotalFee.StringFixed(2))
			assert.Equal(t, tt.expectedLate, returned.LateDays)
			assert.Equal(t, tt.daysAfter, returned.DaysHeld)
		})
	}
}

func Test_Decide_SecondReturnIsRefused(t *testing.T) {
	// arrange
	patron := uuid.New()
	history := givenCheckedOut(t, patron)
	first := returnbook.Decide(history, returnbook.BuildCommand(isbn, patron, checkoutDay.AddDate(0, 0, 3)), core.DefaultLoanPolicy())
	require.NoError(t, first.HasError())

	// act
	second := returnbook.Decide(append(history, first.Events...), returnbook.BuildCommand(isbn, patron, checkoutDay.AddDate(0, 0, 4)), core.DefaultLoanPolicy())

	// assert
	assert.ErrorIs(t, second.HasError(), core.ErrNotCurrentlyBorrowed)
	assert.Empty(t, second.Events)
}

func Test_Decide_Errors(t *testing.T) {
	holder, other := uuid.New(), uuid.New()

	tests := []struct {
		name     string
		history  core.DomainEvents
		expected error
	}{
		{name: "book_not_registered", history: core.DomainEvents{}, expected: core.ErrBookNotFound},
		{name: "held_by_someone_else", history: givenCheckedOut(t, holder), expected: core.ErrNotCurrentlyBorrowed},
		{name: "not_checked_out", history: givenCheckedOut(t, holder)[:2], expected: core.ErrNotCurrentlyBorrowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := returnbook.Decide(tt.history, returnbook.BuildCommand(isbn, other, checkoutDay.AddDate(0, 0, 1)), core.DefaultLoanPolicy())

			assert.ErrorIs(t, result.HasError(), tt.expected)
		})
	}
}
