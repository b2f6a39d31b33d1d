// Package sqliteengine is the SQLite implementation of the lending event store, for single-node
// deployments and the lendingctl CLI.
//
// It follows the PostgreSQL engine's contract. Predicates are evaluated with json_extract.
// Append runs in a BEGIN IMMEDIATE transaction (see Open), so the max sequence check and the
// insert can not interleave with another writer, including writers in other processes.
//
//	db, err := sqliteengine.Open("lending.db")
//	es, err := sqliteengine.NewEventStore(db)
//	err = es.CreateSchema(ctx)
package sqliteengine
