package registerbook_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-engine/lending/core"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/command/registerbook"
)

const isbn = "9781098100131"

func Test_Decide_Success_WhenBookIsUnknown(t *testing.T) {
	// arrange
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	command := registerbook.BuildCommand(isbn, "  Learning Domain-Driven Design ", now)

	// act
	result := registerbook.Decide(core.DomainEvents{}, command)

	// assert
	require.True(t, result.HasEventsToAppend())
	require.Len(t, result.Events, 1)
	event, ok := result.Events[0].(core.BookRegisteredForLending)
	require.True(t, ok)
	assert.Equal(t, isbn, event.BookID)
	assert.Equal(t, "Learning Domain-Driven Design", event.Title)
	assert.Equal(t, now, event.OccurredAt)
}

func Test_Decide_Idempotent_WhenBookAlreadyRegistered(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	history := core.DomainEvents{core.BuildBookRegisteredForLending(isbn, "Learning Domain-Driven Design", now)}

	result := registerbook.Decide(history, registerbook.BuildCommand(isbn, "Another Title", now.Add(time.Hour)))

	assert.True(t, result.IsIdempotent())
	assert.False(t, result.HasEventsToAppend())
}

func Test_Decide_Error_WhenTitleIsBlank(t *testing.T) {
	result := registerbook.Decide(core.DomainEvents{}, registerbook.BuildCommand(isbn, " ", time.Now()))

	assert.ErrorIs(t, result.HasError(), core.ErrEmptyTitle)
	assert.ErrorIs(t, result.HasError(), core.ErrValidation)
	assert.Empty(t, result.Events)
}
