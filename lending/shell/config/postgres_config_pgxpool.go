package config

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgxMaxConnections    = int32(8)
	pgxMinConnections    = int32(2)
	pgxMaxConnLifetime   = time.Hour
	pgxMaxConnIdleTime   = 5 * time.Minute
	pgxHealthCheckPeriod = time.Minute
	pgxConnectTimeout    = 5 * time.Second
)

// PostgresPGXPoolConfig parses dsn and applies the engine's pool settings.
func PostgresPGXPoolConfig(dsn string) (*pgxpool.Config, error) {
	dbConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	dbConfig.MaxConns = pgxMaxConnections
	dbConfig.MinConns = pgxMinConnections
	dbConfig.MaxConnLifetime = pgxMaxConnLifetime
	dbConfig.MaxConnIdleTime = pgxMaxConnIdleTime
	dbConfig.HealthCheckPeriod = pgxHealthCheckPeriod
	dbConfig.ConnConfig.ConnectTimeout = pgxConnectTimeout

	return dbConfig, nil
}

// OpenPostgresPGXPool connects a pool for dsn and pings it.
func OpenPostgresPGXPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	dbConfig, err := PostgresPGXPoolConfig(dsn)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		return nil, err
	}

	if pingErr := pool.Ping(ctx); pingErr != nil {
		pool.Close()
		return nil, pingErr
	}

	return pool, nil
}
