package bookavailability

import (
	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/lending/core"
	"github.com/AntonStoeckl/library-lending-engine/lending/shell"
)

// Project replays the book's lending aggregate. Availability is derived from the open checkout,
// so it always agrees with the checkout records.
func Project(history core.DomainEvents, query Query, maxSequence uint) BookAvailability {
	book := core.ProjectBookLending(history, query.BookID)

	return BookAvailability{
		Book:           book.Book(),
		Registered:     book.Registered,
		WaitlistLength: book.Waitlist.Length(),
		SequenceNumber: maxSequence,
	}
}

// BuildEventFilter selects the book's lending aggregate.
func BuildEventFilter(isbn core.ISBNString) eventstore.Filter {
	return shell.MatchingBookLending(isbn).Finalize()
}
