// Package eventstore holds the storage-agnostic building blocks of the lending event store:
// filters describing a dynamic consistency boundary, storable events, errors, consistency
// hints and the observability ports the engines report to.
//
// Engines (postgresengine, sqliteengine, memengine) share one contract:
//
//	events, maxSeq, err := store.Query(ctx, filter)
//	// decide on events ...
//	err = store.Append(ctx, filter, maxSeq, newEvents...)
//
// Append only succeeds if no event matching filter was appended after the Query.
// Otherwise it returns ErrConcurrencyConflict and appends nothing. Multiple events
// are appended atomically.
//
// A typical filter for a per-book decision plus a patron fact:
//
//	filter := BuildEventFilter().
//		Matching().
//		AnyPredicateOf(P("BookID", isbn)).
//		OrMatching().
//		AnyEventTypeOf("PatronRegisteredForLending").
//		AndAnyPredicateOf(P("PatronID", patronID)).
//		Finalize()
package eventstore
