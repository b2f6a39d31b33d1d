package registerbook

import (
	"fmt"
	"strings"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/lending/core"
)

// Decide implements the business logic to determine whether a book should be registered.
//
// Business Rules:
//
//	GIVEN: A book with BookID (ISBN)
//	WHEN: RegisterBook command is received
//	THEN: BookRegisteredForLending event is generated
//	ERROR: EmptyTitle if the title is blank
//	IDEMPOTENCY: If the book is already registered, no event is generated
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	if strings.TrimSpace(command.Title) == "" {
		return core.ErrorDecision(fmt.Errorf("%w: book %s", core.ErrEmptyTitle, command.BookID))
	}

	s := core.ProjectBookLending(history, command.BookID)

	if s.Registered {
		return core.IdempotentDecision()
	}

	return core.SuccessDecision(
		core.BuildBookRegisteredForLending(command.BookID, strings.TrimSpace(command.Title), command.OccurredAt),
	)
}

// BuildEventFilter selects the registration of the book.
func BuildEventFilter(isbn core.ISBNString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.BookRegisteredForLendingEventType).
		AndAnyPredicateOf(eventstore.P("BookID", isbn)).
		Finalize()
}
