package notify

import (
	"context"
	"log/slog"

	"github.com/AntonStoeckl/library-lending-engine/lending/core"
)

const (
	logMsgNotificationTriggered = "notification triggered"

	logAttrKind          = "kind"
	logAttrBookID        = "book_id"
	logAttrPatronID      = "patron_id"
	logAttrCheckoutID    = "checkout_id"
	logAttrQueuePosition = "queue_position"
	logAttrDueDate       = "due_date"
	logAttrTotalFee      = "total_fee"
)

// LogTrigger writes one info record per notification.
type LogTrigger struct {
	logger *slog.Logger
}

func NewLogTrigger(logger *slog.Logger) LogTrigger {
	return LogTrigger{logger: logger}
}

func (t LogTrigger) OnReservationCreated(ctx context.Context, entry core.ReservationEntry) error {
	t.log(ctx, KindReservationCreated,
		slog.String(logAttrBookID, entry.BookID),
		slog.String(logAttrPatronID, entry.PatronID),
		slog.Int(logAttrQueuePosition, entry.QueuePosition),
	)

	return nil
}

func (t LogTrigger) OnCheckoutCreated(ctx context.Context, record core.CheckoutRecord) error {
	t.log(ctx, KindCheckoutCreated, checkoutAttrs(record)...)

	return nil
}

func (t LogTrigger) OnReturnCreated(ctx context.Context, record core.CheckoutRecord) error {
	t.log(ctx, KindReturnCreated, append(checkoutAttrs(record), slog.String(logAttrTotalFee, record.TotalFee.StringFixed(2)))...)

	return nil
}

func (t LogTrigger) OnQueueAdvanced(ctx context.Context, bookID core.ISBNString) error {
	t.log(ctx, KindQueueAdvanced, slog.String(logAttrBookID, bookID))

	return nil
}

func (t LogTrigger) OnOverdueDetected(ctx context.Context, record core.CheckoutRecord) error {
	t.log(ctx, KindOverdueDetected, checkoutAttrs(record)...)

	return nil
}

func (t LogTrigger) log(ctx context.Context, kind Kind, attrs ...slog.Attr) {
	t.logger.LogAttrs(ctx, slog.LevelInfo, logMsgNotificationTriggered, append([]slog.Attr{slog.String(logAttrKind, kind)}, attrs...)...)
}

func checkoutAttrs(record core.CheckoutRecord) []slog.Attr {
	return []slog.Attr{
		slog.String(logAttrCheckoutID, record.CheckoutID),
		slog.String(logAttrBookID, record.BookID),
		slog.String(logAttrPatronID, record.PatronID),
		slog.Time(logAttrDueDate, record.DueDate),
	}
}

var _ Trigger = LogTrigger{}
