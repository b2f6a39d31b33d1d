package reservebook_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-engine/eventstore/memengine"
	"github.com/AntonStoeckl/library-lending-engine/lending/core"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/command/reservebook"
	"github.com/AntonStoeckl/library-lending-engine/lending/shell"
)

func givenStoreWith(t *testing.T, history core.DomainEvents) memengine.EventStore {
	t.Helper()

	es := memengine.NewEventStore()
	storable, err := shell.StorableEventsFrom(history, shell.NewMessageID)
	require.NoError(t, err)
	require.NoError(t, es.Append(context.Background(), reservebook.BuildEventFilter(isbn, uuid.New()), 0, storable...))

	return es
}

func Test_CommandHandler_Handle_ReturnsAppendedEntry(t *testing.T) {
	// arrange
	holder, patron := uuid.New(), uuid.New()
	es := givenStoreWith(t, givenCheckedOutTo(t, givenRegisteredBookAndPatrons(t, holder, patron), holder))
	handler := reservebook.NewCommandHandler(es)

	// act
	result, err := handler.Handle(context.Background(), reservebook.BuildCommand(isbn, patron, fakeClock.Add(2*time.Hour)))

	// assert
	require.NoError(t, err)
	joined, ok := shell.FirstEventOf[core.PatronJoinedWaitlist](result)
	require.True(t, ok)
	assert.Equal(t, 1, joined.Entry().QueuePosition)
}

func Test_CommandHandler_Handle_ConcurrentReservationsNeverShareAPosition(t *testing.T) {
	// arrange
	const patrons = 5
	holder := uuid.New()
	waiting := make([]uuid.UUID, patrons)
	for i := range waiting {
		waiting[i] = uuid.New()
	}

	es := givenStoreWith(t, givenCheckedOutTo(t, givenRegisteredBookAndPatrons(t, append(waiting, holder)...), holder))
	handler := reservebook.NewCommandHandler(es)

	errs := make([]error, patrons)
	wg := sync.WaitGroup{}

	// act
	for i := range patrons {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = handler.Handle(context.Background(), reservebook.BuildCommand(isbn, waiting[i], fakeClock.Add(2*time.Hour)))
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
		assert.ErrorIs(t, err, core.ErrConcurrentModification)
	}
	assert.GreaterOrEqual(t, successes, 1)

	stored, _, err := es.Query(context.Background(), reservebook.BuildEventFilter(isbn, holder))
	require.NoError(t, err)
	history, err := shell.DomainEventsFrom(stored)
	require.NoError(t, err)

	positions := map[int]bool{}
	for _, event := range history {
		if joined, ok := event.(core.PatronJoinedWaitlist); ok {
			assert.False(t, positions[joined.QueuePosition], "position %d assigned twice", joined.QueuePosition)
			positions[joined.QueuePosition] = true
		}
	}
	assert.Len(t, positions, successes)
}

func Test_CommandHandler_Handle_RetryOptionResolvesConflicts(t *testing.T) {
	// arrange
	const patrons = 4
	holder := uuid.New()
	waiting := make([]uuid.UUID, patrons)
	for i := range waiting {
		waiting[i] = uuid.New()
	}

	es := givenStoreWith(t, givenCheckedOutTo(t, givenRegisteredBookAndPatrons(t, append(waiting, holder)...), holder))
	handler := reservebook.NewCommandHandler(es, reservebook.WithRetryOptions(shell.WithMaxAttempts(50), shell.WithBaseDelay(time.Millisecond)))

	errs := make([]error, patrons)
	wg := sync.WaitGroup{}

	// act
	for i := range patrons {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = handler.Handle(context.Background(), reservebook.BuildCommand(isbn, waiting[i], fakeClock.Add(2*time.Hour)))
		}()
	}
	wg.Wait()

	// assert
	for _, err := range errs {
		assert.NoError(t, err)
	}
}
