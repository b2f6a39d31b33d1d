package core

import (
	"time"
)

// WaitlistHeadReleasedEventType is the event type identifier.
const WaitlistHeadReleasedEventType = "WaitlistHeadReleased"

// WaitlistHeadReleased dequeues the head entry without a checkout, e.g. when the head patron
// no longer wants the book.
type WaitlistHeadReleased struct {
	BookID          ISBNString
	PatronID        PatronIDString
	QueuePosition   int
	ReservationDate time.Time
	OccurredAt      OccurredAtTS
}

// BuildWaitlistHeadReleased creates a new WaitlistHeadReleased event for the head entry.
func BuildWaitlistHeadReleased(head ReservationEntry, occurredAt time.Time) WaitlistHeadReleased {
	return WaitlistHeadReleased{
		BookID:          head.BookID,
		PatronID:        head.PatronID,
		QueuePosition:   head.QueuePosition,
		ReservationDate: head.ReservationDate,
		OccurredAt:      ToOccurredAt(occurredAt),
	}
}

func (e WaitlistHeadReleased) EventType() EventTypeString {
	return WaitlistHeadReleasedEventType
}

func (e WaitlistHeadReleased) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// Entry returns the ReservationEntry this event removed.
func (e WaitlistHeadReleased) Entry() ReservationEntry {
	return ReservationEntry{
		BookID:          e.BookID,
		PatronID:        e.PatronID,
		QueuePosition:   e.QueuePosition,
		ReservationDate: e.ReservationDate,
	}
}
