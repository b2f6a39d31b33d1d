package notify

import (
	"context"
	"errors"

	"github.com/AntonStoeckl/library-lending-engine/lending/core"
)

// Kind identifies what a notification is about.
type Kind = string

const (
	KindReservationCreated Kind = "ReservationCreated"
	KindCheckoutCreated    Kind = "CheckoutCreated"
	KindReturnCreated      Kind = "ReturnCreated"
	KindQueueAdvanced      Kind = "QueueAdvanced"
	KindOverdueDetected    Kind = "OverdueDetected"
)

// Trigger is notified after each committed transition.
// OnReservationCreated covers both "added to queue" and "reservation confirmed".
// OnQueueAdvanced means the book may be available for the head of its waitlist now.
type Trigger interface {
	OnReservationCreated(ctx context.Context, entry core.ReservationEntry) error
	OnCheckoutCreated(ctx context.Context, record core.CheckoutRecord) error
	OnReturnCreated(ctx context.Context, record core.CheckoutRecord) error
	OnQueueAdvanced(ctx context.Context, bookID core.ISBNString) error
	OnOverdueDetected(ctx context.Context, record core.CheckoutRecord) error
}

// Nop ignores all notifications.
type Nop struct{}

func (Nop) OnReservationCreated(context.Context, core.ReservationEntry) error { return nil }
func (Nop) OnCheckoutCreated(context.Context, core.CheckoutRecord) error      { return nil }
func (Nop) OnReturnCreated(context.Context, core.CheckoutRecord) error        { return nil }
func (Nop) OnQueueAdvanced(context.Context, core.ISBNString) error            { return nil }
func (Nop) OnOverdueDetected(context.Context, core.CheckoutRecord) error      { return nil }

// Fanout calls every trigger, also when an earlier one failed, and joins their errors.
type Fanout []Trigger

func (f Fanout) OnReservationCreated(ctx context.Context, entry core.ReservationEntry) error {
	return f.each(func(t Trigger) error { return t.OnReservationCreated(ctx, entry) })
}

func (f Fanout) OnCheckoutCreated(ctx context.Context, record core.CheckoutRecord) error {
	return f.each(func(t Trigger) error { return t.OnCheckoutCreated(ctx, record) })
}

func (f Fanout) OnReturnCreated(ctx context.Context, record core.CheckoutRecord) error {
	return f.each(func(t Trigger) error { return t.OnReturnCreated(ctx, record) })
}

func (f Fanout) OnQueueAdvanced(ctx context.Context, bookID core.ISBNString) error {
	return f.each(func(t Trigger) error { return t.OnQueueAdvanced(ctx, bookID) })
}

func (f Fanout) OnOverdueDetected(ctx context.Context, record core.CheckoutRecord) error {
	return f.each(func(t Trigger) error { return t.OnOverdueDetected(ctx, record) })
}

func (f Fanout) each(call func(Trigger) error) error {
	errs := make([]error, 0)

	for _, trigger := range f {
		if err := call(trigger); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

var (
	_ Trigger = Nop{}
	_ Trigger = Fanout{}
)
