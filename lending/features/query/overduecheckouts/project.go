package overduecheckouts

import (
	"slices"
	"strings"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/lending/core"
)

// Project implements the overdue scan.
//
// Query Logic:
//
//	GIVEN: All registrations, checkouts and returns
//	WHEN: OverdueCheckouts query is executed for Now
//	THEN: every open record whose due day (UTC) is before the day of Now is returned
//	ORDER: by due date, then checkout id
//	EXCLUDES: returned records and records due today
func Project(history core.DomainEvents, query Query, maxSequence uint) OverdueCheckouts {
	titles := make(map[core.ISBNString]string)
	open := make(map[core.CheckoutIDString]core.CheckoutRecord)

	for _, event := range history {
		switch e := event.(type) {
		case core.BookRegisteredForLending:
			titles[e.BookID] = e.Title

		case core.BookCheckedOut:
			open[e.CheckoutID] = e.Record()

		case core.BookReturned:
			delete(open, e.CheckoutID)
		}
	}

	records := make([]core.CheckoutRecord, 0)
	for _, record := range open {
		if record.IsOverdueAt(query.Now) {
			records = append(records, record)
		}
	}

	slices.SortFunc(records, func(a, b core.CheckoutRecord) int {
		if c := a.DueDate.Compare(b.DueDate); c != 0 {
			return c
		}

		return strings.Compare(a.CheckoutID, b.CheckoutID)
	})

	books := make([]core.Book, 0, len(records))
	seen := make(map[core.ISBNString]bool, len(records))

	for _, record := range records {
		if seen[record.BookID] {
			continue
		}

		seen[record.BookID] = true
		books = append(books, core.Book{ISBN: record.BookID, Title: titles[record.BookID], IsAvailable: false})
	}

	return OverdueCheckouts{
		Records:        records,
		Books:          books,
		Count:          len(records),
		SequenceNumber: maxSequence,
	}
}

// BuildEventFilter selects all registrations, checkouts and returns.
func BuildEventFilter() eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookRegisteredForLendingEventType,
			core.BookCheckedOutEventType,
			core.BookReturnedEventType,
		).
		Finalize()
}
