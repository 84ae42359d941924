package event

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestType_IsValid(t *testing.T) {
	tests := []struct {
		name      string
		eventType Type
		want      bool
	}{
		{"project created", TypeProjectCreated, true},
		{"status changed", TypeStatusChanged, true},
		{"products detected", TypeProductsDetected, true},
		{"invoice created", TypeInvoiceCreated, true},
		{"unknown", Type("instance.created"), false},
		{"empty", Type(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.eventType.IsValid())
		})
	}
}

func TestNewEvent(t *testing.T) {
	evt := NewEvent(TypeStatusChanged, "task", 42, map[string]interface{}{
		KeyToStatus: "assigned",
	})

	_, err := uuid.Parse(evt.ID)
	require.NoError(t, err)
	_, err = uuid.Parse(evt.CorrelationID)
	require.NoError(t, err)

	assert.Equal(t, TypeStatusChanged, evt.Type)
	assert.Equal(t, "task", evt.EntityKind)
	assert.Equal(t, int64(42), evt.EntityID)
	assert.Equal(t, "assigned", evt.GetPayloadString(KeyToStatus))
	assert.False(t, evt.Timestamp.IsZero())
}

func TestNewEvent_NilPayload(t *testing.T) {
	evt := NewEvent(TypeProjectCreated, "project", 1, nil)
	assert.NotNil(t, evt.Payload)
	assert.Equal(t, "", evt.GetPayloadString("missing"))
}

func TestNewEventWithCorrelation(t *testing.T) {
	evt := NewEventWithCorrelation(TypeInvoiceCreated, "invoice", 7, nil, "corr-1")
	assert.Equal(t, "corr-1", evt.CorrelationID)
}

func TestEvent_WithPayload(t *testing.T) {
	original := NewEvent(TypeStatusChanged, "invoice", 3, map[string]interface{}{"a": 1})
	updated := original.WithPayload("b", "two")

	assert.Equal(t, original.ID, updated.ID)
	assert.Equal(t, "two", updated.GetPayloadString("b"))
	_, exists := original.Payload["b"]
	assert.False(t, exists)
}

func TestEvent_GetPayloadInt(t *testing.T) {
	evt := NewEvent(TypeStatusChanged, "project", 1, map[string]interface{}{
		"i":   5,
		"i64": int64(6),
		"f":   float64(7),
		"s":   "8",
	})

	assert.Equal(t, int64(5), evt.GetPayloadInt("i"))
	assert.Equal(t, int64(6), evt.GetPayloadInt("i64"))
	assert.Equal(t, int64(7), evt.GetPayloadInt("f"))
	assert.Equal(t, int64(0), evt.GetPayloadInt("s"))
	assert.Equal(t, int64(0), evt.GetPayloadInt("missing"))
}
