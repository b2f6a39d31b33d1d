package core

import (
	"time"
)

// ISBNString is a normalized ISBN, the key of a book.
type ISBNString = string

// PatronIDString is the string form of a patron's UUID.
type PatronIDString = string

// CheckoutIDString is the string form of a checkout's UUID.
type CheckoutIDString = string

// EventTypeString is the stored type name of a domain event.
type EventTypeString = string

// OccurredAtTS is the timestamp of an event.
type OccurredAtTS = time.Time

// ToOccurredAt normalizes t to UTC with microsecond precision, which is what PostgreSQL stores.
func ToOccurredAt(t time.Time) OccurredAtTS {
	return t.UTC().Truncate(time.Microsecond)
}
