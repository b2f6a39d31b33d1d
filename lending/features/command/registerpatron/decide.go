package registerpatron

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/lending/core"
)

// Decide implements the business logic to determine whether a patron should be registered.
//
// Business Rules:
//
//	GIVEN: A patron with PatronID
//	WHEN: RegisterPatron command is received
//	THEN: PatronRegisteredForLending event is generated
//	ERROR: InvalidPatronID for the nil UUID
//	IDEMPOTENCY: If the patron is already registered, no event is generated
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	if command.PatronID == uuid.Nil {
		return core.ErrorDecision(core.ErrInvalidPatronID)
	}

	s := core.ProjectPatronLending(history, command.PatronID.String())

	if s.Registered {
		return core.IdempotentDecision()
	}

	return core.SuccessDecision(
		core.BuildPatronRegisteredForLending(command.PatronID, command.Name, command.OccurredAt),
	)
}

// BuildEventFilter selects the registration of the patron.
func BuildEventFilter(patronID uuid.UUID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.PatronRegisteredForLendingEventType).
		AndAnyPredicateOf(eventstore.P("PatronID", patronID.String())).
		Finalize()
}
