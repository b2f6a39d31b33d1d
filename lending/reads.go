package lending

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-engine/lending/core"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/query/bookavailability"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/query/opencheckouts"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/query/overduecheckouts"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/query/waitlist"
	"github.com/AntonStoeckl/library-lending-engine/notify"
)

// GetBook returns the lending view of a registered book.
func (e *Engine) GetBook(ctx context.Context, rawISBN string) (core.Book, error) {
	isbn, err := core.NormalizeISBN(rawISBN)
	if err != nil {
		return core.Book{}, err
	}

	availability, err := e.bookAvailability.Handle(ctx, bookavailability.BuildQuery(isbn))
	if err != nil {
		return core.Book{}, err
	}

	if !availability.Registered {
		return core.Book{}, core.ErrBookNotFound
	}

	return availability.Book, nil
}

// PeekWaitlistHead returns the entry with the lowest queue position.
// An unknown book has an empty waitlist.
func (e *Engine) PeekWaitlistHead(ctx context.Context, rawISBN string) (core.ReservationEntry, bool, error) {
	queue, err := e.queryWaitlist(ctx, rawISBN)
	if err != nil {
		return core.ReservationEntry{}, false, err
	}

	head, ok := queue.Head()

	return head, ok, nil
}

func (e *Engine) WaitlistLength(ctx context.Context, rawISBN string) (int, error) {
	queue, err := e.queryWaitlist(ctx, rawISBN)
	if err != nil {
		return 0, err
	}

	return queue.Length(), nil
}

// GetWaitlist returns all entries of the book's waitlist, lowest position first.
func (e *Engine) GetWaitlist(ctx context.Context, rawISBN string) ([]core.ReservationEntry, error) {
	queue, err := e.queryWaitlist(ctx, rawISBN)
	if err != nil {
		return nil, err
	}

	return queue.Entries, nil
}

func (e *Engine) queryWaitlist(ctx context.Context, rawISBN string) (waitlist.Waitlist, error) {
	isbn, err := core.NormalizeISBN(rawISBN)
	if err != nil {
		return waitlist.Waitlist{}, err
	}

	return e.waitlist.Handle(ctx, waitlist.BuildQuery(isbn))
}

// GetOpenCheckoutsForPatron returns the patron's open checkouts, oldest first.
func (e *Engine) GetOpenCheckoutsForPatron(ctx context.Context, patronID uuid.UUID) ([]core.CheckoutRecord, error) {
	if patronID == uuid.Nil {
		return nil, core.ErrInvalidPatronID
	}

	open, err := e.openCheckouts.Handle(ctx, opencheckouts.ForPatron(patronID))
	if err != nil {
		return nil, err
	}

	return open.Records, nil
}

// GetOpenCheckoutForBook returns the book's open checkout, if it is lent out.
func (e *Engine) GetOpenCheckoutForBook(ctx context.Context, rawISBN string) (core.CheckoutRecord, bool, error) {
	isbn, err := core.NormalizeISBN(rawISBN)
	if err != nil {
		return core.CheckoutRecord{}, false, err
	}

	open, err := e.openCheckouts.Handle(ctx, opencheckouts.ForBook(isbn))
	if err != nil {
		return core.CheckoutRecord{}, false, err
	}

	record, ok := open.First()

	return record, ok, nil
}

// GetOverdueCheckouts returns the open checkouts whose due day lies before now's day,
// ordered by due date, then checkout id.
func (e *Engine) GetOverdueCheckouts(ctx context.Context, now time.Time) ([]core.CheckoutRecord, error) {
	overdue, err := e.overdueCheckouts.Handle(ctx, overduecheckouts.BuildQuery(now))
	if err != nil {
		return nil, err
	}

	return overdue.Records, nil
}

// GetOverdueBooks returns the distinct books of GetOverdueCheckouts.
func (e *Engine) GetOverdueBooks(ctx context.Context, now time.Time) ([]core.Book, error) {
	overdue, err := e.overdueCheckouts.Handle(ctx, overduecheckouts.BuildQuery(now))
	if err != nil {
		return nil, err
	}

	return overdue.Books, nil
}

// NotifyOverdue triggers OnOverdueDetected for every overdue checkout and returns how many
// there were. Trigger failures are logged, not returned.
func (e *Engine) NotifyOverdue(ctx context.Context, now time.Time) (int, error) {
	records, err := e.GetOverdueCheckouts(ctx, now)
	if err != nil {
		return 0, err
	}

	for _, record := range records {
		e.notify(ctx, triggerOverdueDetected, func(trigger notify.Trigger) error {
			return trigger.OnOverdueDetected(ctx, record)
		})
	}

	return len(records), nil
}
