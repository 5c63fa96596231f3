package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	payload := map[string]interface{}{
		"id":     1,
		"amount": "100.00",
	}

	before := time.Now()
	evt := NewEvent(EventTypeCreated, EntityTypeTransaction, payload)
	after := time.Now()

	assert.Equal(t, "transaction.created", evt.Type)
	assert.Equal(t, EntityTypeTransaction, evt.Entity)
	assert.Equal(t, payload, evt.Payload)
	assert.Equal(t, uint64(0), evt.Version)
	assert.True(t, !evt.Timestamp.Before(before) && !evt.Timestamp.After(after))
}

func TestEvent_WithVersion(t *testing.T) {
	evt := ContactSettled(map[string]interface{}{"contactId": float64(3)})
	stamped := evt.WithVersion(12)

	assert.Equal(t, uint64(12), stamped.Version)
	assert.Equal(t, uint64(0), evt.Version, "WithVersion returns a copy")
}

func TestEvent_ToJSON(t *testing.T) {
	evt := GlobalBudgetUpdated(map[string]interface{}{"monthYear": "2024-03"}).WithVersion(4)

	data, err := evt.ToJSON()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "global_budget.updated", decoded["type"])
	assert.Equal(t, "global_budget", decoded["entity"])
	assert.Equal(t, float64(4), decoded["version"])
	assert.Equal(t, "2024-03", decoded["payload"].(map[string]interface{})["monthYear"])
	assert.NotNil(t, decoded["timestamp"])
}

func TestEvent_Helpers(t *testing.T) {
	payload := map[string]interface{}{"id": float64(1)}

	tests := []struct {
		name   string
		event  Event
		typ    string
		entity EntityType
	}{
		{"TransactionCreated", TransactionCreated(payload), "transaction.created", EntityTypeTransaction},
		{"TransactionDeleted", TransactionDeleted(payload), "transaction.deleted", EntityTypeTransaction},
		{"CategoryCreated", CategoryCreated(payload), "category.created", EntityTypeCategory},
		{"CategoryDeleted", CategoryDeleted(payload), "category.deleted", EntityTypeCategory},
		{"ContactCreated", ContactCreated(payload), "contact.created", EntityTypeContact},
		{"ContactUpdated", ContactUpdated(payload), "contact.updated", EntityTypeContact},
		{"ContactDeleted", ContactDeleted(payload), "contact.deleted", EntityTypeContact},
		{"ContactSettled", ContactSettled(payload), "contact.settled", EntityTypeContact},
		{"GlobalBudgetUpdated", GlobalBudgetUpdated(payload), "global_budget.updated", EntityTypeGlobalBudget},
		{"CategoryBudgetUpdated", CategoryBudgetUpdated(payload), "category_budget.updated", EntityTypeCategoryBudget},
		{"SnapshotReloaded", SnapshotReloaded(payload), "snapshot.reloaded", EntityTypeSnapshot},
		{"SessionConnected", SessionConnected(payload), "session.connected", EntityTypeSession},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.typ, tt.event.Type)
			assert.Equal(t, tt.entity, tt.event.Entity)
			assert.Equal(t, payload, tt.event.Payload)
		})
	}
}
