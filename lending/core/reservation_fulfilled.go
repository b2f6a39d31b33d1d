package core

import (
	"time"
)

// ReservationFulfilledEventType is the event type identifier.
const ReservationFulfilledEventType = "ReservationFulfilled"

// ReservationFulfilled dequeues the head entry because its patron checked the book out.
// It is always appended together with the BookCheckedOut event it references.
type ReservationFulfilled struct {
	BookID        ISBNString
	PatronID      PatronIDString
	QueuePosition int
	CheckoutID    CheckoutIDString
	OccurredAt    OccurredAtTS
}

// BuildReservationFulfilled creates a new ReservationFulfilled event.
func BuildReservationFulfilled(head ReservationEntry, checkoutID CheckoutIDString, occurredAt time.Time) ReservationFulfilled {
	return ReservationFulfilled{
		BookID:        head.BookID,
		PatronID:      head.PatronID,
		QueuePosition: head.QueuePosition,
		CheckoutID:    checkoutID,
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

func (e ReservationFulfilled) EventType() EventTypeString {
	return ReservationFulfilledEventType
}

func (e ReservationFulfilled) HasOccurredAt() time.Time {
	return e.OccurredAt
}
