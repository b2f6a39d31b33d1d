package opencheckouts

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-engine/lending/core"
)

const (
	queryTypeForPatron = "OpenCheckoutsForPatron"
	queryTypeForBook   = "OpenCheckoutForBook"
)

// Query represents the intent to list open checkouts. Exactly one of PatronID and BookID is set.
type Query struct {
	PatronID core.PatronIDString
	BookID   core.ISBNString
}

// ForPatron builds a Query for all open checkouts of a patron.
func ForPatron(patronID uuid.UUID) Query {
	return Query{PatronID: patronID.String()}
}

// ForBook builds a Query for the open checkout of a book. isbn must already be normalized.
func ForBook(isbn core.ISBNString) Query {
	return Query{BookID: isbn}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	if q.BookID != "" {
		return queryTypeForBook
	}

	return queryTypeForPatron
}

func (q Query) predicate() (key, value string) {
	if q.BookID != "" {
		return "BookID", q.BookID
	}

	return "PatronID", q.PatronID
}
