package registerpatron_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-engine/eventstore/memengine"
	"github.com/AntonStoeckl/library-lending-engine/lending/core"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/command/registerpatron"
	"github.com/AntonStoeckl/library-lending-engine/lending/shell"
)

func Test_CommandHandler_Handle_AppendsRegistrationWithMetadata(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := memengine.NewEventStore()
	handler := registerpatron.NewCommandHandler(es)
	patronID := uuid.New()

	// act
	result, err := handler.Handle(ctx, registerpatron.BuildCommand(patronID, "Ada", time.Now()))

	// assert
	require.NoError(t, err)
	registered, ok := shell.FirstEventOf[core.PatronRegisteredForLending](result)
	require.True(t, ok)
	assert.Equal(t, patronID.String(), registered.PatronID)

	stored, _, queryErr := es.Query(ctx, registerpatron.BuildEventFilter(patronID))
	require.NoError(t, queryErr)
	require.Len(t, stored, 1)

	metadata, metadataErr := shell.EventMetadataFrom(stored[0])
	require.NoError(t, metadataErr)
	assert.NotEmpty(t, metadata.MessageID)
	assert.Equal(t, metadata.CorrelationID, metadata.CausationID)
}

func Test_CommandHandler_Handle_SecondRegistrationIsIdempotent(t *testing.T) {
	ctx := context.Background()
	es := memengine.NewEventStore()
	handler := registerpatron.NewCommandHandler(es)
	command := registerpatron.BuildCommand(uuid.New(), "Ada", time.Now())

	_, err := handler.Handle(ctx, command)
	require.NoError(t, err)
	result, err := handler.Handle(ctx, command)

	require.NoError(t, err)
	assert.True(t, result.Idempotent)
	assert.Equal(t, 1, es.Len())
}
