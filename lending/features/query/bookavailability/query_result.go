package bookavailability

import (
	"github.com/AntonStoeckl/library-lending-engine/lending/core"
)

// BookAvailability is the projected lending view of one book.
// Registered is false for a book the engine has never seen, Book is then zero apart from its ISBN.
type BookAvailability struct {
	Book           core.Book
	Registered     bool
	WaitlistLength int
	SequenceNumber uint
}

// GetSequenceNumber returns the sequence number of the last event in the event history that was used to build the projection.
func (r BookAvailability) GetSequenceNumber() uint {
	return r.SequenceNumber
}
