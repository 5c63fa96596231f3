package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents what happened to an entity
type EventType string

const (
	EventTypeCreated   EventType = "created"
	EventTypeUpdated   EventType = "updated"
	EventTypeDeleted   EventType = "deleted"
	EventTypeSettled   EventType = "settled"
	EventTypeReloaded  EventType = "reloaded"
	EventTypeConnected EventType = "connected"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeTransaction    EntityType = "transaction"
	EntityTypeCategory       EntityType = "category"
	EntityTypeContact        EntityType = "contact"
	EntityTypeGlobalBudget   EntityType = "global_budget"
	EntityTypeCategoryBudget EntityType = "category_budget"
	EntityTypeSnapshot       EntityType = "snapshot"
	EntityTypeSession        EntityType = "session"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, payload, version, timestamp }
type Event struct {
	Type      string      `json:"type"`    // Combined type e.g. "contact.settled"
	Entity    EntityType  `json:"entity"`  // Entity type e.g. "contact"
	Payload   interface{} `json:"payload"` // Full entity data
	Version   uint64      `json:"version"` // Snapshot version after the change
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// WithVersion stamps the snapshot version the event belongs to
func (e Event) WithVersion(version uint64) Event {
	e.Version = version
	return e
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func TransactionCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeTransaction, payload)
}

func TransactionDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeTransaction, payload)
}

func CategoryCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeCategory, payload)
}

func CategoryDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeCategory, payload)
}

func ContactCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeContact, payload)
}

func ContactUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeContact, payload)
}

func ContactDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeContact, payload)
}

// ContactSettled creates a contact.settled event carrying the settlement transaction
func ContactSettled(payload interface{}) Event {
	return NewEvent(EventTypeSettled, EntityTypeContact, payload)
}

func GlobalBudgetUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeGlobalBudget, payload)
}

func CategoryBudgetUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeCategoryBudget, payload)
}

// SnapshotReloaded tells clients to refetch every derived view
func SnapshotReloaded(payload interface{}) Event {
	return NewEvent(EventTypeReloaded, EntityTypeSnapshot, payload)
}

// SessionConnected greets a new connection with the snapshot version it starts
// from. Events with a higher version arrived after the client's last fetch.
func SessionConnected(payload interface{}) Event {
	return NewEvent(EventTypeConnected, EntityTypeSession, payload)
}
