package postgresengine_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-engine/lending"
	"github.com/AntonStoeckl/library-lending-engine/lending/core"
	"github.com/AntonStoeckl/library-lending-engine/testutil/fixtures"
)

func Test_Postgres_Engine_ConcurrentCheckoutOfSameBook_ExactlyOneWins(t *testing.T) {
	for name, es := range givenEventStores(t) {
		t.Run(name, func(t *testing.T) {
			// arrange
			const contenders = 4
			ctx := context.Background()
			engine, err := lending.NewEngine(es)
			require.NoError(t, err)

			isbn, err := engine.RegisterBook(ctx, fixtures.ISBN(1), "Learning Go")
			require.NoError(t, err)

			patrons := make([]uuid.UUID, contenders)
			for i := range patrons {
				patrons[i] = uuid.New()
				require.NoError(t, engine.RegisterPatron(ctx, patrons[i], "patron"))
			}

			errs := make([]error, contenders)
			start := make(chan struct{})
			wg := sync.WaitGroup{}

			// act
			for i := range contenders {
				wg.Add(1)
				go func() {
					defer wg.Done()
					<-start
					_, errs[i] = engine.Checkout(ctx, isbn, patrons[i])
				}()
			}
			close(start)
			wg.Wait()

			// assert
			successes := 0
			for _, err := range errs {
				if err == nil {
					successes++
					continue
				}
				assert.True(t,
					errors.Is(err, core.ErrBookNotAvailable) || errors.Is(err, core.ErrConcurrentModification),
					"unexpected error: %v", err)
			}
			assert.Equal(t, 1, successes)

			book, bookErr := engine.GetBook(ctx, isbn)
			require.NoError(t, bookErr)
			assert.False(t, book.IsAvailable)

			_, open, openErr := engine.GetOpenCheckoutForBook(ctx, isbn)
			require.NoError(t, openErr)
			assert.True(t, open)
		})
	}
}
