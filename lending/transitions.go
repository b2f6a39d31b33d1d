package lending

import (
	"context"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-engine/lending/core"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/command/cancelreservation"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/command/checkoutbook"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/command/registerbook"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/command/registerpatron"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/command/releasewaitlisthead"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/command/reservebook"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/command/returnbook"
	"github.com/AntonStoeckl/library-lending-engine/lending/shell"
	"github.com/AntonStoeckl/library-lending-engine/notify"
)

// RegisterBook adds a book to the lending catalog. Registering it again is a no-op.
// It returns the normalized ISBN.
func (e *Engine) RegisterBook(ctx context.Context, rawISBN string, title string) (core.ISBNString, error) {
	isbn, err := core.NormalizeISBN(rawISBN)
	if err != nil {
		return "", err
	}

	if _, err = e.registerBook.Handle(ctx, registerbook.BuildCommand(isbn, title, e.now())); err != nil {
		return "", err
	}

	return isbn, nil
}

// RegisterPatron allows patronID to borrow and reserve. Registering it again is a no-op.
func (e *Engine) RegisterPatron(ctx context.Context, patronID uuid.UUID, name string) error {
	if patronID == uuid.Nil {
		return core.ErrInvalidPatronID
	}

	_, err := e.registerPatron.Handle(ctx, registerpatron.BuildCommand(patronID, name, e.now()))

	return err
}

// Reserve puts patronID at the end of the book's waitlist.
// A book can only be reserved while it is checked out.
func (e *Engine) Reserve(ctx context.Context, rawISBN string, patronID uuid.UUID) (core.ReservationEntry, error) {
	isbn, err := validate(rawISBN, patronID)
	if err != nil {
		return core.ReservationEntry{}, err
	}

	result, err := e.reserveBook.Handle(ctx, reservebook.BuildCommand(isbn, patronID, e.now()))
	if err != nil {
		return core.ReservationEntry{}, err
	}

	joined, _ := shell.FirstEventOf[core.PatronJoinedWaitlist](result)
	entry := joined.Entry()

	e.notify(ctx, triggerReservationCreated, func(trigger notify.Trigger) error {
		return trigger.OnReservationCreated(ctx, entry)
	})

	return entry, nil
}

// CancelReservation removes patronID's own entry from the book's waitlist.
func (e *Engine) CancelReservation(ctx context.Context, rawISBN string, patronID uuid.UUID) (core.ReservationEntry, error) {
	isbn, err := validate(rawISBN, patronID)
	if err != nil {
		return core.ReservationEntry{}, err
	}

	result, err := e.cancelReservation.Handle(ctx, cancelreservation.BuildCommand(isbn, patronID, e.now()))
	if err != nil {
		return core.ReservationEntry{}, err
	}

	cancelled, _ := shell.FirstEventOf[core.ReservationCancelled](result)

	return cancelled.Entry(), nil
}

// ReleaseWaitlistHead removes the head of the book's waitlist without a checkout.
// It reports false when the waitlist is empty.
func (e *Engine) ReleaseWaitlistHead(ctx context.Context, rawISBN string) (core.ReservationEntry, bool, error) {
	isbn, err := core.NormalizeISBN(rawISBN)
	if err != nil {
		return core.ReservationEntry{}, false, err
	}

	result, err := e.releaseWaitlistHead.Handle(ctx, releasewaitlisthead.BuildCommand(isbn, e.now()))
	if err != nil {
		return core.ReservationEntry{}, false, err
	}

	released, ok := shell.FirstEventOf[core.WaitlistHeadReleased](result)
	if !ok {
		return core.ReservationEntry{}, false, nil
	}

	e.notify(ctx, triggerQueueAdvanced, func(trigger notify.Trigger) error {
		return trigger.OnQueueAdvanced(ctx, isbn)
	})

	return released.Entry(), true, nil
}

// Checkout lends the book to patronID. When patronID heads the waitlist its entry is
// consumed in the same append.
func (e *Engine) Checkout(ctx context.Context, rawISBN string, patronID uuid.UUID) (core.CheckoutRecord, error) {
	isbn, err := validate(rawISBN, patronID)
	if err != nil {
		return core.CheckoutRecord{}, err
	}

	command := checkoutbook.BuildCommand(shell.NewMessageID(), isbn, patronID, e.now())

	result, err := e.checkoutBook.Handle(ctx, command)
	if err != nil {
		return core.CheckoutRecord{}, err
	}

	checkedOut, _ := shell.FirstEventOf[core.BookCheckedOut](result)
	record := checkedOut.Record()

	e.notify(ctx, triggerCheckoutCreated, func(trigger notify.Trigger) error {
		return trigger.OnCheckoutCreated(ctx, record)
	})

	if _, fulfilled := shell.FirstEventOf[core.ReservationFulfilled](result); fulfilled {
		e.notify(ctx, triggerQueueAdvanced, func(trigger notify.Trigger) error {
			return trigger.OnQueueAdvanced(ctx, isbn)
		})
	}

	return record, nil
}

// Return closes patronID's open checkout of the book and fixes its fees.
// The waitlist head is notified, the book is not lent to it automatically.
func (e *Engine) Return(ctx context.Context, rawISBN string, patronID uuid.UUID) (core.CheckoutRecord, error) {
	isbn, err := validate(rawISBN, patronID)
	if err != nil {
		return core.CheckoutRecord{}, err
	}

	result, err := e.returnBook.Handle(ctx, returnbook.BuildCommand(isbn, patronID, e.now()))
	if err != nil {
		return core.CheckoutRecord{}, err
	}

	returned, _ := shell.FirstEventOf[core.BookReturned](result)
	record := returned.Record()

	e.notify(ctx, triggerReturnCreated, func(trigger notify.Trigger) error {
		return trigger.OnReturnCreated(ctx, record)
	})

	e.notify(ctx, triggerQueueAdvanced, func(trigger notify.Trigger) error {
		return trigger.OnQueueAdvanced(ctx, isbn)
	})

	return record, nil
}

func validate(rawISBN string, patronID uuid.UUID) (core.ISBNString, error) {
	isbn, err := core.NormalizeISBN(rawISBN)
	if err != nil {
		return "", err
	}

	if patronID == uuid.Nil {
		return "", core.ErrInvalidPatronID
	}

	return isbn, nil
}
