package shell

import (
	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/lending/core"
)

// MatchingBookLending starts a filter with the item that selects a book's lending aggregate:
// every book-scoped event type whose BookID is isbn.
func MatchingBookLending(isbn core.ISBNString) eventstore.CompletedFilterItemBuilder {
	return matchingTypes(eventstore.BuildEventFilter().Matching(), core.BookLendingEventTypes()).
		AndAnyPredicateOf(eventstore.P("BookID", isbn))
}

// OrMatchingPatronLending adds the item that selects a patron's registration and checkouts.
func OrMatchingPatronLending(builder eventstore.CompletedFilterItemBuilder, patronID core.PatronIDString) eventstore.CompletedFilterItemBuilder {
	return matchingTypes(builder.OrMatching(), core.PatronLendingEventTypes()).
		AndAnyPredicateOf(eventstore.P("PatronID", patronID))
}

// OrMatchingPatronRegistration adds the item that selects only a patron's registration.
func OrMatchingPatronRegistration(builder eventstore.CompletedFilterItemBuilder, patronID core.PatronIDString) eventstore.CompletedFilterItemBuilder {
	return builder.OrMatching().
		AnyEventTypeOf(core.PatronRegisteredForLendingEventType).
		AndAnyPredicateOf(eventstore.P("PatronID", patronID))
}

func matchingTypes(builder eventstore.EmptyFilterItemBuilder, eventTypes []core.EventTypeString) eventstore.FilterItemBuilderLackingPredicates {
	return builder.AnyEventTypeOf(eventTypes[0], eventTypes[1:]...)
}
