package overduecheckouts_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/eventstore/memengine"
	"github.com/AntonStoeckl/library-lending-engine/lending/core"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/query/overduecheckouts"
	"github.com/AntonStoeckl/library-lending-engine/lending/shell"
	"github.com/AntonStoeckl/library-lending-engine/testutil/fixtures"
)

var fakeClock = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func Test_Project_ReturnsOpenRecordsDueBeforeToday(t *testing.T) {
	// arrange
	bookA, bookB, bookC := fixtures.ISBN(1), fixtures.ISBN(2), fixtures.ISBN(3)
	patron := uuid.New()

	dueDay14 := core.BuildBookCheckedOut(uuid.New(), bookA, patron, 14, fakeClock)
	dueDay10 := core.BuildBookCheckedOut(uuid.New(), bookB, patron, 10, fakeClock)
	dueToday := core.BuildBookCheckedOut(uuid.New(), bookC, patron, 20, fakeClock)
	returnedLate := core.BuildBookCheckedOut(uuid.New(), bookC, patron, 1, fakeClock.Add(-48*time.Hour))

	history := core.DomainEvents{
		core.BuildBookRegisteredForLending(bookA, "Title A", fakeClock),
		core.BuildBookRegisteredForLending(bookB, "Title B", fakeClock),
		returnedLate,
		core.BuildBookReturned(returnedLate.Record(), core.Fees{}, fakeClock.Add(-time.Hour)),
		dueDay14,
		dueDay10,
		dueToday,
	}

	now := fakeClock.AddDate(0, 0, 20).Add(-8 * time.Hour)

	// act
	result := overduecheckouts.Project(history, overduecheckouts.BuildQuery(now), 7)

	// assert
	require.Equal(t, 2, result.Count)
	assert.Equal(t, dueDay10.CheckoutID, result.Records[0].CheckoutID)
	assert.Equal(t, dueDay14.CheckoutID, result.Records[1].CheckoutID)
	assert.Equal(t, []core.Book{
		{ISBN: bookB, Title: "Title B"},
		{ISBN: bookA, Title: "Title A"},
	}, result.Books)
}

func Test_Project_TiesOnDueDateOrderByCheckoutID(t *testing.T) {
	low := uuid.MustParse("00000000-0000-7000-8000-000000000001")
	high := uuid.MustParse("00000000-0000-7000-8000-000000000002")
	history := core.DomainEvents{
		core.BuildBookCheckedOut(high, fixtures.ISBN(1), uuid.New(), 1, fakeClock),
		core.BuildBookCheckedOut(low, fixtures.ISBN(1), uuid.New(), 1, fakeClock),
	}

	result := overduecheckouts.Project(history, overduecheckouts.BuildQuery(fakeClock.AddDate(0, 0, 5)), 2)

	require.Len(t, result.Records, 2)
	assert.Equal(t, low.String(), result.Records[0].CheckoutID)
	assert.Len(t, result.Books, 1, "books are distinct")
}

func Test_QueryHandler_Handle_NothingOverdue(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := memengine.NewEventStore()
	storable, err := shell.StorableEventsFrom(core.DomainEvents{
		core.BuildBookCheckedOut(uuid.New(), fixtures.ISBN(1), uuid.New(), 14, fakeClock),
	}, shell.NewMessageID)
	require.NoError(t, err)
	require.NoError(t, es.Append(ctx, eventstore.BuildEventFilter().MatchingAnyEvent(), 0, storable...))

	// act
	result, err := overduecheckouts.NewQueryHandler(es).Handle(ctx, overduecheckouts.BuildQuery(fakeClock.AddDate(0, 0, 14)))

	// assert
	require.NoError(t, err)
	assert.Equal(t, 0, result.Count)
	assert.Empty(t, result.Books)
	assert.Equal(t, uint(1), result.GetSequenceNumber())
}
