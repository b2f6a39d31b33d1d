package opencheckouts

import (
	"slices"
	"strings"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/lending/core"
)

// Project implements the query logic to list open checkouts.
//
// Query Logic:
//
//	GIVEN: The checkouts and returns of a patron or of a book
//	WHEN: OpenCheckouts query is executed
//	THEN: the records without a matching BookReturned are returned
//	ORDER: by checkout date, then checkout id
func Project(history core.DomainEvents, _ Query, maxSequence uint) OpenCheckouts {
	open := make(map[core.CheckoutIDString]core.CheckoutRecord)

	for _, event := range history {
		switch e := event.(type) {
		case core.BookCheckedOut:
			open[e.CheckoutID] = e.Record()

		case core.BookReturned:
			delete(open, e.CheckoutID)
		}
	}

	records := make([]core.CheckoutRecord, 0, len(open))
	for _, record := range open {
		records = append(records, record)
	}

	slices.SortFunc(records, func(a, b core.CheckoutRecord) int {
		if c := a.CheckoutDate.Compare(b.CheckoutDate); c != 0 {
			return c
		}

		return strings.Compare(a.CheckoutID, b.CheckoutID)
	})

	return OpenCheckouts{
		Records:        records,
		Count:          len(records),
		SequenceNumber: maxSequence,
	}
}

// BuildEventFilter selects the checkouts and returns of the queried patron or book.
func BuildEventFilter(query Query) eventstore.Filter {
	key, value := query.predicate()

	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookCheckedOutEventType,
			core.BookReturnedEventType,
		).
		AndAnyPredicateOf(eventstore.P(key, value)).
		Finalize()
}
