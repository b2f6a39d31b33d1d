package core

import (
	"time"

	"github.com/google/uuid"
)

// BookCheckedOutEventType is the event type identifier.
const BookCheckedOutEventType = "BookCheckedOut"

// BookCheckedOut opens a checkout. From now on the book is not available.
type BookCheckedOut struct {
	CheckoutID   CheckoutIDString
	BookID       ISBNString
	PatronID     PatronIDString
	CheckoutDate time.Time
	DueDate      time.Time
	OccurredAt   OccurredAtTS
}

// BuildBookCheckedOut creates a new BookCheckedOut event. The due date is
// loanDurationInDays calendar days after the checkout.
func BuildBookCheckedOut(
	checkoutID uuid.UUID,
	isbn ISBNString,
	patronID uuid.UUID,
	loanDurationInDays int,
	occurredAt time.Time,
) BookCheckedOut {

	checkoutDate := ToOccurredAt(occurredAt)

	return BookCheckedOut{
		CheckoutID:   checkoutID.String(),
		BookID:       isbn,
		PatronID:     patronID.String(),
		CheckoutDate: checkoutDate,
		DueDate:      checkoutDate.AddDate(0, 0, loanDurationInDays),
		OccurredAt:   checkoutDate,
	}
}

func (e BookCheckedOut) EventType() EventTypeString {
	return BookCheckedOutEventType
}

func (e BookCheckedOut) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// Record returns the open CheckoutRecord this event created.
func (e BookCheckedOut) Record() CheckoutRecord {
	return CheckoutRecord{
		CheckoutID:   e.CheckoutID,
		BookID:       e.BookID,
		PatronID:     e.PatronID,
		CheckoutDate: e.CheckoutDate,
		DueDate:      e.DueDate,
	}
}
