package cancelreservation

import (
	"context"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/lending/core"
	"github.com/AntonStoeckl/library-lending-engine/lending/shell"
)

// CommandHandler runs Query -> Unmarshal -> Decide -> Append for CancelReservation.
// External wrappers handle all observability concerns.
type CommandHandler struct {
	eventStore   shell.EventStore
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
func NewCommandHandler(eventStore shell.EventStore, opts ...Option) CommandHandler {
	handler := CommandHandler{
		eventStore:   eventStore,
		retryOptions: []shell.RetryOption{shell.NoRetry()},
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle executes the command and reports the business outcome.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	var decision core.DecisionResult

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		decision, execErr = h.executeCommand(retryCtx, command)

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return shell.NewErrorResult(retryMetrics), err
	}

	if decision.IsIdempotent() {
		return shell.NewIdempotentResult(retryMetrics), nil
	}

	return shell.NewSuccessResult(retryMetrics, decision.Events), nil
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (core.DecisionResult, error) {
	filter := BuildEventFilter(command.BookID)

	ctx = eventstore.WithStrongConsistency(ctx)

	storableEvents, maxSequenceNumber, err := h.eventStore.Query(ctx, filter)
	if err != nil {
		return core.DecisionResult{}, shell.StoreError(err)
	}

	history, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return core.DecisionResult{}, shell.StoreError(err)
	}

	result := Decide(history, command)

	if decisionErr := result.HasError(); decisionErr != nil {
		return result, decisionErr
	}

	if !result.HasEventsToAppend() {
		return result, nil
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
