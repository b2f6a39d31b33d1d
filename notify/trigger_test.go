package notify_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-engine/lending/core"
	"github.com/AntonStoeckl/library-lending-engine/notify"
	"github.com/AntonStoeckl/library-lending-engine/testutil/observability/testdoubles"
)

var errDeliveryDown = errors.New("delivery down")

type recordingTrigger struct {
	notify.Nop
	kinds []notify.Kind
	err   error
}

func (r *recordingTrigger) OnQueueAdvanced(_ context.Context, _ core.ISBNString) error {
	r.kinds = append(r.kinds, notify.KindQueueAdvanced)
	return r.err
}

func (r *recordingTrigger) OnReturnCreated(_ context.Context, _ core.CheckoutRecord) error {
	r.kinds = append(r.kinds, notify.KindReturnCreated)
	return r.err
}

func Test_Fanout_CallsAllTriggersAndJoinsErrors(t *testing.T) {
	// arrange
	failing := &recordingTrigger{err: errDeliveryDown}
	healthy := &recordingTrigger{}
	fanout := notify.Fanout{failing, healthy}

	// act
	err := fanout.OnQueueAdvanced(context.Background(), "9781098100131")

	// assert
	assert.ErrorIs(t, err, errDeliveryDown)
	assert.Equal(t, []notify.Kind{notify.KindQueueAdvanced}, failing.kinds)
	assert.Equal(t, []notify.Kind{notify.KindQueueAdvanced}, healthy.kinds)
}

func Test_Fanout_NoErrorWhenAllSucceed(t *testing.T) {
	healthy := &recordingTrigger{}

	err := notify.Fanout{healthy, notify.Nop{}}.OnReturnCreated(context.Background(), core.CheckoutRecord{})

	assert.NoError(t, err)
	assert.Equal(t, []notify.Kind{notify.KindReturnCreated}, healthy.kinds)
}

func Test_LogTrigger_WritesOneInfoRecordPerNotification(t *testing.T) {
	// arrange
	spy := testdoubles.NewLogHandlerSpy()
	trigger := notify.NewLogTrigger(slog.New(spy))
	record := core.CheckoutRecord{
		CheckoutID: "c1",
		BookID:     "9781098100131",
		PatronID:   "p1",
		DueDate:    time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC),
		TotalFee:   decimal.NewFromInt(46),
	}

	// act
	require.NoError(t, trigger.OnReturnCreated(context.Background(), record))
	require.NoError(t, trigger.OnReservationCreated(context.Background(), core.ReservationEntry{BookID: "9781098100131", PatronID: "p2", QueuePosition: 3}))

	// assert
	records := spy.Records(slog.LevelInfo)
	require.Len(t, records, 2)

	kind, ok := testdoubles.AttrOf(records[0], "kind")
	require.True(t, ok)
	assert.Equal(t, notify.KindReturnCreated, kind.String())

	fee, ok := testdoubles.AttrOf(records[0], "total_fee")
	require.True(t, ok)
	assert.Equal(t, "46.00", fee.String())

	position, ok := testdoubles.AttrOf(records[1], "queue_position")
	require.True(t, ok)
	assert.Equal(t, int64(3), position.Int64())
}
