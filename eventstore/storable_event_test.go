package eventstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_BuildStorableEvent_ErrorCases(t *testing.T) {
	validTime := time.Now()
	validPayloadJSON := []byte(`{"BookID": "9781098100131"}`)
	validMetadataJSON := []byte(`{"MessageID": "m"}`)

	tests := []struct {
		name         string
		eventType    string
		payloadJSON  []byte
		metadataJSON []byte
		expectedErr  error
	}{
		{name: "empty event type", eventType: "", payloadJSON: validPayloadJSON, metadataJSON: validMetadataJSON, expectedErr: ErrEmptyEventType},
		{name: "invalid payload JSON", eventType: "BookCheckedOut", payloadJSON: []byte(`{"invalid": json}`), metadataJSON: validMetadataJSON, expectedErr: ErrInvalidPayloadJSON},
		{name: "invalid metadata JSON", eventType: "BookCheckedOut", payloadJSON: validPayloadJSON, metadataJSON: []byte(`{`), expectedErr: ErrInvalidMetadataJSON},
		{name: "nil payload JSON", eventType: "BookCheckedOut", payloadJSON: nil, metadataJSON: validMetadataJSON, expectedErr: ErrInvalidPayloadJSON},
		{name: "nil metadata JSON", eventType: "BookCheckedOut", payloadJSON: validPayloadJSON, metadataJSON: nil, expectedErr: ErrInvalidMetadataJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildStorableEvent(tt.eventType, validTime, tt.payloadJSON, tt.metadataJSON)
			assert.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func Test_BuildStorableEventWithEmptyMetadata(t *testing.T) {
	// arrange
	occurredAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	// act
	event, err := BuildStorableEventWithEmptyMetadata("BookReturned", occurredAt, []byte(`{"BookID":"x"}`))

	// assert
	assert.NoError(t, err)
	assert.Equal(t, "BookReturned", event.EventType)
	assert.Equal(t, occurredAt, event.OccurredAt)
	assert.JSONEq(t, `{}`, string(event.MetadataJSON))
}
