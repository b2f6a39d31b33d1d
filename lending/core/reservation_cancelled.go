package core

import (
	"time"
)

// ReservationCancelledEventType is the event type identifier.
const ReservationCancelledEventType = "ReservationCancelled"

// ReservationCancelled removes a patron's own entry from a waitlist.
type ReservationCancelled struct {
	BookID          ISBNString
	PatronID        PatronIDString
	QueuePosition   int
	ReservationDate time.Time
	OccurredAt      OccurredAtTS
}

// BuildReservationCancelled creates a new ReservationCancelled event for entry.
func BuildReservationCancelled(entry ReservationEntry, occurredAt time.Time) ReservationCancelled {
	return ReservationCancelled{
		BookID:          entry.BookID,
		PatronID:        entry.PatronID,
		QueuePosition:   entry.QueuePosition,
		ReservationDate: entry.ReservationDate,
		OccurredAt:      ToOccurredAt(occurredAt),
	}
}

func (e ReservationCancelled) EventType() EventTypeString {
	return ReservationCancelledEventType
}

func (e ReservationCancelled) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// Entry returns the ReservationEntry this event removed.
func (e ReservationCancelled) Entry() ReservationEntry {
	return ReservationEntry{
		BookID:          e.BookID,
		PatronID:        e.PatronID,
		QueuePosition:   e.QueuePosition,
		ReservationDate: e.ReservationDate,
	}
}
