package shell

import (
	"context"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
)

// QueriesEvents is what query handlers need from an event store.
type QueriesEvents interface {
	Query(ctx context.Context, filter eventstore.Filter) (
		eventstore.StorableEvents,
		eventstore.MaxSequenceNumberUint,
		error,
	)
}

// EventStore is what command handlers need: a query and a conditional append on the same filter.
// postgresengine, sqliteengine and memengine implement it.
type EventStore interface {
	QueriesEvents
	Append(
		ctx context.Context,
		filter eventstore.Filter,
		expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
		storableEvents ...eventstore.StorableEvent,
	) error
}

// Command is implemented by every command type. CommandType labels logs, metrics and spans.
type Command interface {
	CommandType() string
}

// CommandHandler processes one command type and reports the business outcome.
type CommandHandler[C Command] interface {
	Handle(ctx context.Context, command C) (HandlerResult, error)
}

// Query is implemented by every query type.
type Query interface {
	QueryType() string
}

// QueryResult is implemented by every projection. GetSequenceNumber is the highest
// sequence number the projection includes.
type QueryResult interface {
	GetSequenceNumber() uint
}

// QueryHandler processes one query type.
type QueryHandler[Q Query, R QueryResult] interface {
	Handle(ctx context.Context, query Q) (R, error)
}
