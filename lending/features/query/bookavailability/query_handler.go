package bookavailability

import (
	"context"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/lending/shell"
)

// QueryHandler runs Query -> Unmarshal -> Project.
type QueryHandler struct {
	eventStore shell.QueriesEvents
}

func NewQueryHandler(eventStore shell.QueriesEvents) QueryHandler {
	return QueryHandler{eventStore: eventStore}
}

// Handle projects the current state of one book. Query handlers tolerate slightly stale data,
// so they read with eventual consistency.
func (h QueryHandler) Handle(ctx context.Context, query Query) (BookAvailability, error) {
	ctx = eventstore.WithEventualConsistency(ctx)

	storableEvents, maxSeq, err := h.eventStore.Query(ctx, BuildEventFilter(query.BookID))
	if err != nil {
		return BookAvailability{}, shell.StoreError(err)
	}

	history, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return BookAvailability{}, shell.StoreError(err)
	}

	return Project(history, query, maxSeq), nil
}
