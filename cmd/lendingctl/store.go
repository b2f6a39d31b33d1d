package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/eventstore/memengine"
	"github.com/AntonStoeckl/library-lending-engine/eventstore/postgresengine"
	"github.com/AntonStoeckl/library-lending-engine/eventstore/sqliteengine"
	"github.com/AntonStoeckl/library-lending-engine/lending/shell"
	"github.com/AntonStoeckl/library-lending-engine/lending/shell/config"
)

const (
	storeMemory   = "memory"
	storeSQLite   = "sqlite"
	storePostgres = "postgres"

	adapterPGX  = "pgx"
	adapterSQL  = "sql"
	adapterSQLX = "sqlx"
)

var (
	ErrUnknownStore   = errors.New("unknown store")
	ErrUnknownAdapter = errors.New("unknown postgres adapter")
)

type storeObservability struct {
	logger           eventstore.Logger
	contextualLogger eventstore.ContextualLogger
	metrics          eventstore.MetricsCollector
	tracing          eventstore.TracingCollector
}

func noClose() error { return nil }

// openEventStore builds the configured engine and creates its schema.
func openEventStore(ctx context.Context, f *flags, obs storeObservability) (shell.EventStore, func() error, error) {
	switch f.store {
	case storeMemory:
		return memengine.NewEventStore(memengine.WithLogger(obs.logger)), noClose, nil

	case storeSQLite:
		return openSQLite(ctx, f.sqlitePath, obs)

	case storePostgres:
		dsn := f.postgresDSN
		if dsn == "" {
			dsn = config.PostgresDSN()
		}

		return openPostgres(ctx, f.adapter, dsn, obs)

	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownStore, f.store)
	}
}

func openSQLite(ctx context.Context, path string, obs storeObservability) (shell.EventStore, func() error, error) {
	db, err := sqliteengine.Open(path)
	if err != nil {
		return nil, nil, err
	}

	es, err := sqliteengine.NewEventStore(db,
		sqliteengine.WithContextualLogger(obs.contextualLogger),
		sqliteengine.WithMetrics(obs.metrics),
		sqliteengine.WithTracing(obs.tracing),
	)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	if err = es.CreateSchema(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	return es, db.Close, nil
}

func openPostgres(ctx context.Context, adapter, dsn string, obs storeObservability) (shell.EventStore, func() error, error) {
	options := []postgresengine.Option{
		postgresengine.WithContextualLogger(obs.contextualLogger),
		postgresengine.WithMetrics(obs.metrics),
		postgresengine.WithTracing(obs.tracing),
	}

	var (
		es      postgresengine.EventStore
		closeDB func() error
		err     error
	)

	switch adapter {
	case adapterPGX:
		pool, openErr := config.OpenPostgresPGXPool(ctx, dsn)
		if openErr != nil {
			return nil, nil, openErr
		}

		closeDB = func() error { pool.Close(); return nil }
		es, err = postgresengine.NewEventStoreFromPGXPool(pool, options...)

	case adapterSQL:
		db, openErr := config.OpenPostgresSQLDB(ctx, dsn)
		if openErr != nil {
			return nil, nil, openErr
		}

		closeDB = db.Close
		es, err = postgresengine.NewEventStoreFromSQLDB(db, options...)

	case adapterSQLX:
		db, openErr := config.OpenPostgresSQLX(ctx, dsn)
		if openErr != nil {
			return nil, nil, openErr
		}

		closeDB = db.Close
		es, err = postgresengine.NewEventStoreFromSQLX(db, options...)

	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownAdapter, adapter)
	}

	if err == nil {
		err = es.CreateSchema(ctx)
	}

	if err != nil {
		_ = closeDB()
		return nil, nil, err
	}

	return es, closeDB, nil
}
