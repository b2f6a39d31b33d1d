package checkoutbook

import (
	"context"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/lending/core"
	"github.com/AntonStoeckl/library-lending-engine/lending/shell"
)

// CommandHandler runs Query -> Unmarshal -> Decide -> Append for CheckoutBook.
// External wrappers handle all observability concerns.
type CommandHandler struct {
	eventStore   shell.EventStore
	policy       core.PolicyProvider
	retryOptions []shell.RetryOption
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithRetryOptions opts into retrying concurrency conflicts.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = append(h.retryOptions, opts...)
	}
}

// NewCommandHandler creates a CommandHandler that does not retry unless configured to.
func NewCommandHandler(eventStore shell.EventStore, policy core.PolicyProvider, opts ...Option) CommandHandler {
	handler := CommandHandler{
		eventStore:   eventStore,
		policy:       policy,
		retryOptions: []shell.RetryOption{shell.NoRetry()},
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle executes the command and reports the business outcome.
// The policy is read once, every attempt decides on the same snapshot.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	policy := h.policy.Current()

	var decision core.DecisionResult

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		decision, execErr = h.executeCommand(retryCtx, command, policy)

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return shell.NewErrorResult(retryMetrics), err
	}

	return shell.NewSuccessResult(retryMetrics, decision.Events), nil
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command, policy core.LoanPolicy) (core.DecisionResult, error) {
	filter := BuildEventFilter(command.BookID, command.PatronID)

	ctx = eventstore.WithStrongConsistency(ctx)

	storableEvents, maxSequenceNumber, err := h.eventStore.Query(ctx, filter)
	if err != nil {
		return core.DecisionResult{}, shell.StoreError(err)
	}

	history, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return core.DecisionResult{}, shell.StoreError(err)
	}

	result := Decide(history, command, policy)

	if decisionErr := result.HasError(); decisionErr != nil {
		return result, decisionErr
	}

	toAppend, err := shell.StorableEventsFrom(result.Events, shell.NewMessageID)
	if err != nil {
		return core.DecisionResult{}, shell.StoreError(err)
	}

	if err = h.eventStore.Append(ctx, filter, maxSequenceNumber, toAppend...); err != nil {
		return core.DecisionResult{}, shell.StoreError(err)
	}

	return result, nil
}
