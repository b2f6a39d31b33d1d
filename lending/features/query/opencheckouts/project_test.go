package opencheckouts_test

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
	"github.com/AntonStoeckl/library-lending-engine/lending/features/query/opencheckouts"
	"github.com/AntonStoeckl/library-lending-engine/lending/shell"
	"github.com/AntonStoeckl/library-lending-engine/testutil/fixtures"
)

var fakeClock = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func givenStore(t *testing.T, history core.DomainEvents) memengine.EventStore {
	t.Helper()

	es := memengine.NewEventStore()
	storable, err := shell.StorableEventsFrom(history, shell.NewMessageID)
	require.NoError(t, err)
	require.NoError(t, es.Append(context.Background(), eventstore.BuildEventFilter().MatchingAnyEvent(), 0, storable...))

	return es
}

func Test_QueryHandler_Handle_ForPatron(t *testing.T) {
	// arrange
	patron, other := uuid.New(), uuid.New()
	older := core.BuildBookCheckedOut(uuid.New(), fixtures.ISBN(1), patron, 14, fakeClock)
	returned := core.BuildBookCheckedOut(uuid.New(), fixtures.ISBN(2), patron, 14, fakeClock.Add(time.Hour))
	newer := core.BuildBookCheckedOut(uuid.New(), fixtures.ISBN(3), patron, 14, fakeClock.Add(2*time.Hour))

	es := givenStore(t, core.DomainEvents{
		newer,
		older,
		returned,
		core.BuildBookCheckedOut(uuid.New(), fixtures.ISBN(4), other, 14, fakeClock),
		core.BuildBookReturned(returned.Record(), core.Fees{}, fakeClock.Add(3*time.Hour)),
	})

	// act
	result, err := opencheckouts.NewQueryHandler(es).Handle(context.Background(), opencheckouts.ForPatron(patron))

	// assert
	require.NoError(t, err)
	require.Equal(t, 2, result.Count)
	assert.Equal(t, older.CheckoutID, result.Records[0].CheckoutID)
	assert.Equal(t, newer.CheckoutID, result.Records[1].CheckoutID)
	assert.False(t, result.Records[0].IsReturned)
	assert.True(t, result.Records[0].TotalFee.IsZero())
}

func Test_QueryHandler_Handle_ForBook(t *testing.T) {
	// arrange
	isbn := fixtures.ISBN(7)
	first := core.BuildBookCheckedOut(uuid.New(), isbn, uuid.New(), 14, fakeClock)
	second := core.BuildBookCheckedOut(uuid.New(), isbn, uuid.New(), 14, fakeClock.Add(48*time.Hour))

	es := givenStore(t, core.DomainEvents{
		first,
		core.BuildBookReturned(first.Record(), core.Fees{}, fakeClock.Add(24*time.Hour)),
		second,
	})

	// act
	result, err := opencheckouts.NewQueryHandler(es).Handle(context.Background(), opencheckouts.ForBook(isbn))

	// assert
	require.NoError(t, err)
	record, ok := result.First()
	require.True(t, ok)
	assert.Equal(t, second.CheckoutID, record.CheckoutID)
	assert.Equal(t, 1, result.Count)
}

func Test_Query_QueryType(t *testing.T) {
	assert.Equal(t, "OpenCheckoutsForPatron", opencheckouts.ForPatron(uuid.New()).QueryType())
	assert.Equal(t, "OpenCheckoutForBook", opencheckouts.ForBook(fixtures.ISBN(1)).QueryType())
}
