package core

import (
	"time"
)

// BookRegisteredForLendingEventType is the event type identifier.
const BookRegisteredForLendingEventType = "BookRegisteredForLending"

// BookRegisteredForLending is the catalog fact that a book can be lent.
type BookRegisteredForLending struct {
	BookID     ISBNString
	Title      string
	OccurredAt OccurredAtTS
}

// BuildBookRegisteredForLending creates a new BookRegisteredForLending event.
func BuildBookRegisteredForLending(isbn ISBNString, title string, occurredAt time.Time) BookRegisteredForLending {
	return BookRegisteredForLending{
		BookID:     isbn,
		Title:      title,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e BookRegisteredForLending) EventType() EventTypeString {
	return BookRegisteredForLendingEventType
}

func (e BookRegisteredForLending) HasOccurredAt() time.Time {
	return e.OccurredAt
}
