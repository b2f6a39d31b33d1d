package sqliteengine_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/eventstore/sqliteengine"
)

func givenEventStore(t *testing.T) sqliteengine.EventStore {
	t.Helper()

	db, err := sqliteengine.Open(filepath.Join(t.TempDir(), "lending.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	es, err := sqliteengine.NewEventStore(db)
	require.NoError(t, err)
	require.NoError(t, es.CreateSchema(context.Background()))

	return es
}

func givenEvent(t *testing.T, eventType, bookID, patronID string) eventstore.StorableEvent {
	t.Helper()

	payload := fmt.Sprintf(`{"BookID":%q,"PatronID":%q}`, bookID, patronID)
	event, err := eventstore.BuildStorableEventWithEmptyMetadata(eventType, time.Date(2025, 3, 1, 9, 30, 0, 123000000, time.UTC), []byte(payload))
	require.NoError(t, err)

	return event
}

func bookFilter(bookID string) eventstore.Filter {
	return eventstore.BuildEventFilter().Matching().AnyPredicateOf(eventstore.P("BookID", bookID)).Finalize()
}

func Test_SQLite_AppendThenQuery(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := givenEventStore(t)
	event := givenEvent(t, "BookCheckedOut", "b1", "p1")

	// act
	appendErr := es.Append(ctx, bookFilter("b1"), 0, event)
	events, maxSeq, queryErr := es.Query(ctx, bookFilter("b1"))

	// assert
	require.NoError(t, appendErr)
	require.NoError(t, queryErr)
	require.Len(t, events, 1)
	assert.Equal(t, "BookCheckedOut", events[0].EventType)
	assert.True(t, event.OccurredAt.Equal(events[0].OccurredAt))
	assert.JSONEq(t, string(event.PayloadJSON), string(events[0].PayloadJSON))
	assert.JSONEq(t, `{}`, string(events[0].MetadataJSON))
	assert.Equal(t, eventstore.MaxSequenceNumberUint(1), maxSeq)
}

func Test_SQLite_QueryAppliesFilter(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := givenEventStore(t)
	require.NoError(t, es.Append(ctx, bookFilter("b1"), 0,
		givenEvent(t, "BookCheckedOut", "b1", "p1"),
		givenEvent(t, "BookReturned", "b1", "p1"),
	))
	require.NoError(t, es.Append(ctx, bookFilter("b2"), 0, givenEvent(t, "BookCheckedOut", "b2", "p2")))

	tests := []struct {
		name          string
		filter        eventstore.Filter
		expectedTypes []string
		expectedMax   eventstore.MaxSequenceNumberUint
	}{
		{
			name:          "by_book",
			filter:        bookFilter("b1"),
			expectedTypes: []string{"BookCheckedOut", "BookReturned"},
			expectedMax:   2,
		},
		{
			name:          "by_type",
			filter:        eventstore.BuildEventFilter().Matching().AnyEventTypeOf("BookCheckedOut").Finalize(),
			expectedTypes: []string{"BookCheckedOut", "BookCheckedOut"},
			expectedMax:   3,
		},
		{
			name: "all_predicates",
			filter: eventstore.BuildEventFilter().Matching().
				AllPredicatesOf(eventstore.P("BookID", "b2"), eventstore.P("PatronID", "p1")).Finalize(),
			expectedTypes: []string{},
			expectedMax:   0,
		},
		{
			name:          "any_event",
			filter:        eventstore.BuildEventFilter().MatchingAnyEvent(),
			expectedTypes: []string{"BookCheckedOut", "BookReturned", "BookCheckedOut"},
			expectedMax:   3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// act
			events, maxSeq, err := es.Query(ctx, tt.filter)

			// assert
			require.NoError(t, err)
			types := make([]string, 0, len(events))
			for _, event := range events {
				types = append(types, event.EventType)
			}
			assert.Equal(t, tt.expectedTypes, types)
			assert.Equal(t, tt.expectedMax, maxSeq)
		})
	}
}

func Test_SQLite_StaleExpectedSequenceConflicts(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := givenEventStore(t)
	require.NoError(t, es.Append(ctx, bookFilter("b1"), 0, givenEvent(t, "BookCheckedOut", "b1", "p1")))

	// act
	err := es.Append(ctx, bookFilter("b1"), 0, givenEvent(t, "BookCheckedOut", "b1", "p2"))

	// assert
	assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)

	events, _, queryErr := es.Query(ctx, bookFilter("b1"))
	require.NoError(t, queryErr)
	assert.Len(t, events, 1)
}

func Test_SQLite_AppendForOtherBookDoesNotConflict(t *testing.T) {
	ctx := context.Background()
	es := givenEventStore(t)
	require.NoError(t, es.Append(ctx, bookFilter("b1"), 0, givenEvent(t, "BookCheckedOut", "b1", "p1")))

	err := es.Append(ctx, bookFilter("b2"), 0, givenEvent(t, "BookCheckedOut", "b2", "p1"))

	assert.NoError(t, err)
}

func Test_SQLite_ConcurrentAppendsForSameBook_OneWins(t *testing.T) {
	// arrange
	const writers = 6
	ctx := context.Background()
	es := givenEventStore(t)
	events := make([]eventstore.StorableEvent, writers)
	for i := range events {
		events[i] = givenEvent(t, "BookCheckedOut", "b1", fmt.Sprintf("p%d", i))
	}

	errs := make([]error, writers)
	wg := sync.WaitGroup{}

	// act
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = es.Append(ctx, bookFilter("b1"), 0, events[i])
		}()
	}
	wg.Wait()

	// assert
	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
	}
	assert.Equal(t, 1, successes)
}

func Test_SQLite_NoEventsToAppend(t *testing.T) {
	es := givenEventStore(t)

	err := es.Append(context.Background(), bookFilter("b1"), 0)

	assert.ErrorIs(t, err, eventstore.ErrNoEventsToAppend)
}
