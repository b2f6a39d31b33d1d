package shell_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/lending/core"
	"github.com/AntonStoeckl/library-lending-engine/lending/shell"
)

func Test_StorableEventFrom_ThenDomainEventFrom_KeepsEveryLendingEvent(t *testing.T) {
	// arrange
	now := time.Date(2025, 3, 1, 9, 30, 0, 123456000, time.UTC)
	isbn := "9781098100131"
	patron := uuid.New()
	checkedOut := core.BuildBookCheckedOut(uuid.New(), isbn, patron, 14, now)
	joined := core.BuildPatronJoinedWaitlist(isbn, patron, 3, now)
	fees := core.ComputeFees(checkedOut.CheckoutDate, checkedOut.DueDate, now.AddDate(0, 0, 20), core.DefaultLoanPolicy())

	events := core.DomainEvents{
		core.BuildBookRegisteredForLending(isbn, "Learning Go", now),
		core.BuildPatronRegisteredForLending(patron, "Ada", now),
		joined,
		core.BuildReservationCancelled(joined.Entry(), now),
		core.BuildWaitlistHeadReleased(joined.Entry(), now),
		core.BuildReservationFulfilled(joined.Entry(), checkedOut.CheckoutID, now),
		checkedOut,
		core.BuildBookReturned(checkedOut.Record(), fees, now.AddDate(0, 0, 20)),
	}

	for _, event := range events {
		t.Run(event.EventType(), func(t *testing.T) {
			// act
			storable, err := shell.StorableEventFrom(event, shell.BuildEventMetadata(uuid.New(), uuid.New(), uuid.New()))
			require.NoError(t, err)

			mapped, err := shell.DomainEventFrom(storable)

			// assert
			require.NoError(t, err)
			assert.Equal(t, event.EventType(), storable.EventType)
			assert.True(t, event.HasOccurredAt().Equal(mapped.HasOccurredAt()))
			assert.Equal(t, event.EventType(), mapped.EventType())
		})
	}
}

func Test_StorableEventFrom_WritesFeesAsDecimalStrings(t *testing.T) {
	// arrange
	record := core.BuildBookCheckedOut(uuid.New(), "9781098100131", uuid.New(), 14, time.Now()).Record()
	fees := core.Fees{DaysHeld: 20, LateDays: 6, BorrowingFee: decimal.RequireFromString("40.00"), LateFee: decimal.RequireFromString("6.00"), TotalFee: decimal.RequireFromString("46.00")}

	// act
	storable, err := shell.StorableEventFrom(core.BuildBookReturned(record, fees, time.Now()), shell.EventMetadata{})
	require.NoError(t, err)
	mapped, mapErr := shell.DomainEventFrom(storable)

	// assert
	require.NoError(t, mapErr)
	assert.Contains(t, string(storable.PayloadJSON), `"TotalFee":"46"`)

	returned, ok := mapped.(core.BookReturned)
	require.True(t, ok)
	assert.True(t, returned.TotalFee.Equal(fees.TotalFee))
	assert.Equal(t, record.CheckoutID, returned.CheckoutID)
	assert.True(t, record.CheckoutDate.Equal(returned.CheckoutDate))
	assert.True(t, record.DueDate.Equal(returned.DueDate))
}

func Test_StorableEventsFrom_ChainsCausation(t *testing.T) {
	// arrange
	checkedOut := core.BuildBookCheckedOut(uuid.New(), "9781098100131", uuid.New(), 14, time.Now())
	joined := core.BuildPatronJoinedWaitlist(checkedOut.BookID, uuid.MustParse(checkedOut.PatronID), 1, time.Now())
	fulfilled := core.BuildReservationFulfilled(joined.Entry(), checkedOut.CheckoutID, time.Now())

	// act
	storables, err := shell.StorableEventsFrom(core.DomainEvents{checkedOut, fulfilled}, uuid.New)

	// assert
	require.NoError(t, err)
	require.Len(t, storables, 2)

	first, err := shell.EventMetadataFrom(storables[0])
	require.NoError(t, err)
	second, err := shell.EventMetadataFrom(storables[1])
	require.NoError(t, err)

	assert.Equal(t, first.CorrelationID, second.CorrelationID)
	assert.Equal(t, first.CorrelationID, first.CausationID)
	assert.Equal(t, first.MessageID, second.CausationID)
	assert.NotEqual(t, first.MessageID, second.MessageID)
}

func Test_DomainEventFrom_UnknownEventType(t *testing.T) {
	storable, err := eventstore.BuildStorableEventWithEmptyMetadata("BookBurned", time.Now(), []byte(`{}`))
	require.NoError(t, err)

	_, mapErr := shell.DomainEventFrom(storable)

	assert.ErrorIs(t, mapErr, shell.ErrMappingToDomainEventUnknownEventType)
}

func Test_StoreError_Classification(t *testing.T) {
	conflict := shell.StoreError(eventstore.ErrConcurrencyConflict)
	storage := shell.StoreError(assert.AnError)

	assert.ErrorIs(t, conflict, core.ErrConcurrentModification)
	assert.ErrorIs(t, conflict, eventstore.ErrConcurrencyConflict)
	assert.True(t, core.IsRetryable(conflict))

	assert.ErrorIs(t, storage, core.ErrStorageFailure)
	assert.ErrorIs(t, storage, assert.AnError)
	assert.False(t, core.IsRetryable(storage))

	assert.Nil(t, shell.StoreError(nil))
	assert.Equal(t, storage, shell.StoreError(storage))
}

func Test_StatusOf(t *testing.T) {
	assert.Equal(t, shell.StatusSuccess, shell.StatusOf(nil))
	assert.Equal(t, shell.StatusRejected, shell.StatusOf(core.ErrNotPatronsTurn))
	assert.Equal(t, shell.StatusConcurrencyConflict, shell.StatusOf(shell.StoreError(eventstore.ErrConcurrencyConflict)))
	assert.Equal(t, shell.StatusError, shell.StatusOf(shell.StoreError(assert.AnError)))
}
