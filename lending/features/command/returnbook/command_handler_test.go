package returnbook_test

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
	"github.com/AntonStoeckl/library-lending-engine/lending/features/command/returnbook"
	"github.com/AntonStoeckl/library-lending-engine/lending/shell"
)

func Test_CommandHandler_Handle_ReturnThenSecondReturn(t *testing.T) {
	// arrange
	ctx := context.Background()
	patron := uuid.New()
	es := memengine.NewEventStore()
	storable, err := shell.StorableEventsFrom(givenCheckedOut(t, patron), shell.NewMessageID)
	require.NoError(t, err)
	require.NoError(t, es.Append(ctx, eventstore.BuildEventFilter().MatchingAnyEvent(), 0, storable...))

	handler := returnbook.NewCommandHandler(es, core.StaticPolicy(core.DefaultLoanPolicy()))
	command := returnbook.BuildCommand(isbn, patron, checkoutDay.AddDate(0, 0, 20).Add(time.Hour))

	// act
	result, firstErr := handler.Handle(ctx, command)
	_, secondErr := handler.Handle(ctx, command)

	// assert
	require.NoError(t, firstErr)
	returned, ok := shell.FirstEventOf[core.BookReturned](result)
	require.True(t, ok)
	assert.Equal(t, "46.00", returned.TotalFee.StringFixed(2))

	assert.ErrorIs(t, secondErr, core.ErrNotCurrentlyBorrowed)
	assert.Equal(t, 4, es.Len())
}
