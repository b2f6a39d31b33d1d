package checkoutbook_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/eventstore/memengine"
	"github.com/AntonStoeckl/library-lending-engine/lending/core"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/command/checkoutbook"
	"github.com/AntonStoeckl/library-lending-engine/lending/shell"
	"github.com/AntonStoeckl/library-lending-engine/testutil/fixtures"
)

func givenStoreWith(t *testing.T, history core.DomainEvents) memengine.EventStore {
	t.Helper()

	es := memengine.NewEventStore()
	storable, err := shell.StorableEventsFrom(history, shell.NewMessageID)
	require.NoError(t, err)
	require.NoError(t, es.Append(context.Background(), eventstore.BuildEventFilter().MatchingAnyEvent(), 0, storable...))

	return es
}

func Test_CommandHandler_Handle_ConcurrentCheckoutOfSameBook_ExactlyOneWins(t *testing.T) {
	// arrange
	const patrons = 6
	ids := make([]uuid.UUID, patrons)
	for i := range ids {
		ids[i] = uuid.New()
	}

	es := givenStoreWith(t, givenRegistered(t, ids...))
	handler := checkoutbook.NewCommandHandler(es, core.StaticPolicy(core.DefaultLoanPolicy()))

	errs := make([]error, patrons)
	wg := sync.WaitGroup{}

	// act
	for i := range patrons {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = handler.Handle(context.Background(), checkoutbook.BuildCommand(uuid.New(), isbn, ids[i], fakeClock))
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
		assert.True(t,
			errorsMatchAny(err, core.ErrBookNotAvailable, core.ErrConcurrentModification),
			"unexpected error: %v", err)
	}
	assert.Equal(t, 1, successes)

	stored, _, err := es.Query(context.Background(), eventstore.BuildEventFilter().Matching().AnyEventTypeOf(core.BookCheckedOutEventType).Finalize())
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func Test_CommandHandler_Handle_LimitHoldsAcrossConcurrentCheckoutsOfDifferentBooks(t *testing.T) {
	// arrange
	patron := uuid.New()
	policy := core.DefaultLoanPolicy()
	policy.MaxBooksPerPatron = 1

	history := core.DomainEvents{core.BuildPatronRegisteredForLending(patron, "patron", fakeClock)}
	books := []string{fixtures.ISBN(1), fixtures.ISBN(2), fixtures.ISBN(3)}
	for _, book := range books {
		history = append(history, core.BuildBookRegisteredForLending(book, book, fakeClock))
	}

	es := givenStoreWith(t, history)
	handler := checkoutbook.NewCommandHandler(es, core.StaticPolicy(policy))

	errs := make([]error, len(books))
	wg := sync.WaitGroup{}

	// act
	for i, book := range books {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = handler.Handle(context.Background(), checkoutbook.BuildCommand(uuid.New(), book, patron, fakeClock))
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
		assert.True(t,
			errorsMatchAny(err, core.ErrCheckoutLimitExceeded, core.ErrConcurrentModification),
			"unexpected error: %v", err)
	}
	assert.Equal(t, 1, successes)
}

func Test_CommandHandler_Handle_ReadsPolicyOncePerCommand(t *testing.T) {
	// arrange
	patron := uuid.New()
	es := givenStoreWith(t, givenRegistered(t, patron))
	policy := &countingPolicy{policy: core.DefaultLoanPolicy()}
	handler := checkoutbook.NewCommandHandler(es, policy)

	// act
	result, err := handler.Handle(context.Background(), checkoutbook.BuildCommand(uuid.New(), isbn, patron, fakeClock))

	// assert
	require.NoError(t, err)
	assert.Equal(t, 1, policy.calls)
	checkedOut, ok := shell.FirstEventOf[core.BookCheckedOut](result)
	require.True(t, ok)
	assert.Equal(t, fakeClock.AddDate(0, 0, 14), checkedOut.DueDate)
}

type countingPolicy struct {
	policy core.LoanPolicy
	calls  int
}

func (p *countingPolicy) Current() core.LoanPolicy {
	p.calls++
	return p.policy
}

func errorsMatchAny(err error, targets ...error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
