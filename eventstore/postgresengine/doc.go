// Package postgresengine is the PostgreSQL implementation of the lending event store.
//
// Events live in one append-only table (see CreateSchema). Query selects the events matching
// an eventstore.Filter, translating predicates to JSONB containment. Append inserts the new
// events with a CTE that only writes if the filter's max sequence number is still the one the
// caller saw.
//
// Append runs in a transaction that first takes a table lock and transaction-scoped advisory
// locks derived from the filter's predicates. Two appends touching the same entity, e.g. the
// same book, are serialized. The second one then sees the first one's rows and fails
// with eventstore.ErrConcurrencyConflict. Appends for unrelated entities do not wait for
// each other.
//
// The engine can be built on a pgxpool.Pool (optionally with a read replica for eventually
// consistent queries), a database/sql DB (lib/pq) or an sqlx DB:
//
//	es, err := postgresengine.NewEventStoreFromPGXPool(pool, postgresengine.WithLogger(slog.Default()))
package postgresengine
