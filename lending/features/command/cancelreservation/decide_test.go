package cancelreservation_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-engine/lending/core"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/command/cancelreservation"
)

const isbn = "9780321125217"

var fakeClock = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func givenWaitlist(t *testing.T, patrons ...uuid.UUID) core.DomainEvents {
	t.Helper()

	holder := uuid.New()
	history := core.DomainEvents{
		core.BuildBookRegisteredForLending(isbn, "Domain-Driven Design", fakeClock),
		core.BuildBookCheckedOut(uuid.New(), isbn, holder, 14, fakeClock),
	}

	for i, patron := range patrons {
		history = append(history, core.BuildPatronJoinedWaitlist(isbn, patron, i+1, fakeClock.Add(time.Duration(i+1)*time.Minute)))
	}

	return history
}

func Test_Decide_CancelsOwnEntryKeepingItsPosition(t *testing.T) {
	// arrange
	first, second := uuid.New(), uuid.New()
	history := givenWaitlist(t, first, second)

	// act
	result := cancelreservation.Decide(history, cancelreservation.BuildCommand(isbn, second, fakeClock.Add(time.Hour)))

	// assert
	require.NoError(t, result.HasError())
	require.Len(t, result.Events, 1)
	cancelled, ok := result.Events[0].(core.ReservationCancelled)
	require.True(t, ok)
	assert.Equal(t, second.String(), cancelled.PatronID)
	assert.Equal(t, 2, cancelled.QueuePosition)

	remaining := core.ProjectBookLending(append(history, cancelled), isbn).Waitlist
	assert.Equal(t, 1, remaining.Length())
	assert.True(t, remaining.IsHead(first.String()))
}

func Test_Decide_Errors(t *testing.T) {
	waiting, other := uuid.New(), uuid.New()

	tests := []struct {
		name     string
		history  core.DomainEvents
		expected error
	}{
		{name: "book_not_registered", history: core.DomainEvents{}, expected: core.ErrBookNotFound},
		{name: "patron_not_waiting", history: givenWaitlist(t, waiting), expected: core.ErrReservationNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := cancelreservation.Decide(tt.history, cancelreservation.BuildCommand(isbn, other, fakeClock))

			assert.ErrorIs(t, result.HasError(), tt.expected)
			assert.ErrorIs(t, result.HasError(), core.ErrResourceNotFound)
			assert.Empty(t, result.Events)
		})
	}
}
