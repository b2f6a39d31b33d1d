// Package adapters puts pgxpool.Pool, sql.DB and sqlx.DB behind one small interface
// so the postgres engine builds its SQL once and runs it on any of them.
package adapters
