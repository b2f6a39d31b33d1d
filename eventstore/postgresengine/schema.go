package postgresengine

import (
	"context"
	"errors"
	"fmt"
)

// ErrCreatingSchemaFailed is returned when a DDL statement fails.
var ErrCreatingSchemaFailed = errors.New("creating events schema failed")

func (es EventStore) schemaStatements() []string {
	table := es.eventTableName

	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %q (
	%s BIGSERIAL PRIMARY KEY,
	%s TIMESTAMP WITH TIME ZONE NOT NULL,
	%s TEXT NOT NULL,
	%s JSONB NOT NULL,
	%s JSONB NOT NULL DEFAULT '{}'::jsonb,
	appended_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
)`, table, colSequenceNumber, colOccurredAt, colEventType, colPayload, colMetadata),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %q ON %q (%s)`, table+"_event_type_idx", table, colEventType),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %q ON %q USING gin (%s jsonb_path_ops)`, table+"_payload_idx", table, colPayload),
	}
}

// CreateSchema creates the events table and its indexes if they do not exist.
func (es EventStore) CreateSchema(ctx context.Context) error {
	for _, statement := range es.schemaStatements() {
		if _, err := es.db.Exec(ctx, statement); err != nil {
			return errors.Join(ErrCreatingSchemaFailed, err)
		}
	}

	return nil
}

// Truncate removes all events and resets the sequence. Meant for tests.
func (es EventStore) Truncate(ctx context.Context) error {
	_, err := es.db.Exec(ctx, fmt.Sprintf(`TRUNCATE TABLE %q RESTART IDENTITY`, es.eventTableName))

	return err
}
