package core

import (
	"time"

	"github.com/google/uuid"
)

// PatronJoinedWaitlistEventType is the event type identifier.
const PatronJoinedWaitlistEventType = "PatronJoinedWaitlist"

// PatronJoinedWaitlist records a reservation: the patron got QueuePosition in the book's waitlist.
type PatronJoinedWaitlist struct {
	BookID        ISBNString
	PatronID      PatronIDString
	QueuePosition int
	OccurredAt    OccurredAtTS
}

// BuildPatronJoinedWaitlist creates a new PatronJoinedWaitlist event.
func BuildPatronJoinedWaitlist(isbn ISBNString, patronID uuid.UUID, queuePosition int, occurredAt time.Time) PatronJoinedWaitlist {
	return PatronJoinedWaitlist{
		BookID:        isbn,
		PatronID:      patronID.String(),
		QueuePosition: queuePosition,
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

func (e PatronJoinedWaitlist) EventType() EventTypeString {
	return PatronJoinedWaitlistEventType
}

func (e PatronJoinedWaitlist) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// Entry returns the ReservationEntry this event created.
func (e PatronJoinedWaitlist) Entry() ReservationEntry {
	return ReservationEntry{
		BookID:          e.BookID,
		PatronID:        e.PatronID,
		QueuePosition:   e.QueuePosition,
		ReservationDate: e.OccurredAt,
	}
}
