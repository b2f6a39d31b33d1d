package core

import (
	"slices"
	"strings"
)

// PatronLendingEventTypes are the event types a patron-scoped decision needs.
// Their PatronID payload field is the patron's id.
func PatronLendingEventTypes() []EventTypeString {
	return []EventTypeString{
		PatronRegisteredForLendingEventType,
		BookCheckedOutEventType,
		BookReturnedEventType,
	}
}

// PatronLending is what the engine knows about a patron: registration and open checkouts.
type PatronLending struct {
	PatronID   PatronIDString
	Name       string
	Registered bool

	open map[CheckoutIDString]CheckoutRecord
}

// ProjectPatronLending replays history, ignoring events of other patrons.
func ProjectPatronLending(history DomainEvents, patronID PatronIDString) PatronLending {
	s := PatronLending{PatronID: patronID, open: make(map[CheckoutIDString]CheckoutRecord)}

	for _, event := range history {
		switch e := event.(type) {
		case PatronRegisteredForLending:
			if e.PatronID == patronID {
				s.Registered = true
				s.Name = e.Name
			}

		case BookCheckedOut:
			if e.PatronID == patronID {
				s.open[e.CheckoutID] = e.Record()
			}

		case BookReturned:
			if e.PatronID == patronID {
				delete(s.open, e.CheckoutID)
			}
		}
	}

	return s
}

func (s PatronLending) OpenCheckoutCount() int {
	return len(s.open)
}

// OpenCheckouts returns the open checkouts ordered by checkout date, then checkout id.
func (s PatronLending) OpenCheckouts() []CheckoutRecord {
	records := make([]CheckoutRecord, 0, len(s.open))
	for _, record := range s.open {
		records = append(records, record)
	}

	slices.SortFunc(records, func(a, b CheckoutRecord) int {
		if c := a.CheckoutDate.Compare(b.CheckoutDate); c != 0 {
			return c
		}

		return strings.Compare(a.CheckoutID, b.CheckoutID)
	})

	return records
}
