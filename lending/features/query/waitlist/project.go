package waitlist

import (
	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/lending/core"
	"github.com/AntonStoeckl/library-lending-engine/lending/shell"
)

// Project replays the book's lending aggregate and returns its waitlist.
func Project(history core.DomainEvents, query Query, maxSequence uint) Waitlist {
	book := core.ProjectBookLending(history, query.BookID)

	return Waitlist{
		BookID:         query.BookID,
		Registered:     book.Registered,
		Entries:        book.Waitlist.Entries(),
		NextPosition:   book.Waitlist.NextPosition(),
		SequenceNumber: maxSequence,
	}
}

// BuildEventFilter selects the book's lending aggregate.
func BuildEventFilter(isbn core.ISBNString) eventstore.Filter {
	return shell.MatchingBookLending(isbn).Finalize()
}
