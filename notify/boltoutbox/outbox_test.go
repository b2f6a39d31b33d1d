package boltoutbox_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-engine/lending/core"
	"github.com/AntonStoeckl/library-lending-engine/notify"
	"github.com/AntonStoeckl/library-lending-engine/notify/boltoutbox"
)

var fakeClock = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func givenOutbox(t *testing.T) (*boltoutbox.Outbox, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "outbox.db")
	outbox, err := boltoutbox.Open(path, boltoutbox.WithClock(func() time.Time { return fakeClock }))
	require.NoError(t, err)
	t.Cleanup(func() { _ = outbox.Close() })

	return outbox, path
}

func Test_Outbox_PendingListsTriggeredNotificationsInOrder(t *testing.T) {
	// arrange
	ctx := context.Background()
	outbox, _ := givenOutbox(t)
	record := core.CheckoutRecord{
		CheckoutID: "0195a0b4-0000-7000-8000-000000000001",
		BookID:     "9781098100131",
		PatronID:   "0195a0b4-0000-7000-8000-0000000000aa",
		DueDate:    fakeClock.AddDate(0, 0, 14),
		TotalFee:   decimal.RequireFromString("46.00"),
	}

	// act
	require.NoError(t, outbox.OnReservationCreated(ctx, core.ReservationEntry{BookID: record.BookID, PatronID: record.PatronID, QueuePosition: 2}))
	require.NoError(t, outbox.OnReturnCreated(ctx, record))
	require.NoError(t, outbox.OnQueueAdvanced(ctx, record.BookID))
	pending, err := outbox.Pending()

	// assert
	require.NoError(t, err)
	require.Len(t, pending, 3)
	assert.Equal(t, []notify.Kind{notify.KindReservationCreated, notify.KindReturnCreated, notify.KindQueueAdvanced},
		[]notify.Kind{pending[0].Kind, pending[1].Kind, pending[2].Kind})
	assert.Equal(t, 2, pending[0].QueuePosition)
	assert.Equal(t, "46.00", pending[1].TotalFee.StringFixed(2))
	assert.True(t, record.DueDate.Equal(pending[1].DueDate))
	assert.True(t, fakeClock.Equal(pending[2].CreatedAt))
	assert.NotEmpty(t, pending[2].ID)
}

func Test_Outbox_MarkDelivered(t *testing.T) {
	// arrange
	ctx := context.Background()
	outbox, _ := givenOutbox(t)
	require.NoError(t, outbox.OnQueueAdvanced(ctx, "9781098100131"))
	require.NoError(t, outbox.OnQueueAdvanced(ctx, "9780134685991"))
	pending, err := outbox.Pending()
	require.NoError(t, err)
	require.Len(t, pending, 2)

	// act
	firstErr := outbox.MarkDelivered(pending[0].ID)
	againErr := outbox.MarkDelivered(pending[0].ID)
	unknownErr := outbox.MarkDelivered("unknown")

	// assert
	require.NoError(t, firstErr)
	require.NoError(t, againErr)
	assert.ErrorIs(t, unknownErr, boltoutbox.ErrNotificationNotFound)

	remaining, err := outbox.Pending()
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, pending[1].ID, remaining[0].ID)
}

func Test_Outbox_SurvivesReopen(t *testing.T) {
	// arrange
	outbox, path := givenOutbox(t)
	require.NoError(t, outbox.OnOverdueDetected(context.Background(), core.CheckoutRecord{CheckoutID: "c1", BookID: "9781098100131"}))
	require.NoError(t, outbox.Close())

	// act
	reopened, err := boltoutbox.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })
	pending, pendingErr := reopened.Pending()

	// assert
	require.NoError(t, pendingErr)
	require.Len(t, pending, 1)
	assert.Equal(t, notify.KindOverdueDetected, pending[0].Kind)
	assert.Equal(t, "c1", pending[0].CheckoutID)
}

func Test_Outbox_ReadsBackEveryFieldAsWritten(t *testing.T) {
	// arrange
	ctx := context.Background()
	outbox, path := givenOutbox(t)
	record := core.CheckoutRecord{
		CheckoutID:   "0195a0b4-0000-7000-8000-000000000002",
		BookID:       "9781098100131",
		PatronID:     "0195a0b4-0000-7000-8000-0000000000bb",
		CheckoutDate: fakeClock,
		DueDate:      fakeClock.AddDate(0, 0, 14),
		TotalFee:     decimal.RequireFromString("12.50"),
	}
	require.NoError(t, outbox.OnCheckoutCreated(ctx, record))
	written, err := outbox.Pending()
	require.NoError(t, err)
	require.NoError(t, outbox.MarkDelivered(written[0].ID))
	require.NoError(t, outbox.OnReturnCreated(ctx, record))
	require.NoError(t, outbox.Close())

	// act
	reopened, err := boltoutbox.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })
	pending, pendingErr := reopened.Pending()

	// assert
	require.NoError(t, pendingErr)
	require.Len(t, pending, 1)
	assert.Equal(t, notify.KindReturnCreated, pending[0].Kind)
	assert.Equal(t, record.BookID, pending[0].BookID)
	assert.Equal(t, record.PatronID, pending[0].PatronID)
	assert.Equal(t, record.CheckoutID, pending[0].CheckoutID)
	assert.True(t, record.DueDate.Equal(pending[0].DueDate))
	assert.True(t, record.TotalFee.Equal(pending[0].TotalFee))
	assert.True(t, fakeClock.Equal(pending[0].CreatedAt))
	assert.False(t, pending[0].IsDelivered())
}
