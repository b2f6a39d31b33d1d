package releasewaitlisthead

import (
	"fmt"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/lending/core"
	"github.com/AntonStoeckl/library-lending-engine/lending/shell"
)

// Decide implements the business logic to release the head of a book's waitlist.
//
// Business Rules:
//
//	GIVEN: A book with BookID
//	WHEN: ReleaseWaitlistHead command is received
//	THEN: WaitlistHeadReleased is generated for the entry with the lowest position
//	ERROR: BookNotFound if the book is not registered
//	IDEMPOTENCY: If the waitlist is empty, no event is generated
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	book := core.ProjectBookLending(history, command.BookID)

	if !book.Registered {
		return core.ErrorDecision(fmt.Errorf("%w: %s", core.ErrBookNotFound, command.BookID))
	}

	head, ok := book.Waitlist.Dequeue()
	if !ok {
		return core.IdempotentDecision()
	}

	return core.SuccessDecision(core.BuildWaitlistHeadReleased(head, command.OccurredAt))
}

// BuildEventFilter selects the book's lending aggregate.
func BuildEventFilter(isbn core.ISBNString) eventstore.Filter {
	return shell.MatchingBookLending(isbn).Finalize()
}
