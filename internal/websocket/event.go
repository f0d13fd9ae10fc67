package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents what happened to an entity
type EventType string

const (
	EventTypeUpdated   EventType = "updated"
	EventTypeCleared   EventType = "cleared"
	EventTypeRefreshed EventType = "refreshed"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeBaseline  EntityType = "baseline"
	EntityTypeDashboard EntityType = "dashboard"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "dashboard.refreshed"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "dashboard"
	Payload   interface{} `json:"payload"`   // Full entity data
	Timestamp time.Time   `json:"timestamp"` // Event timestamp
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

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// BaselineUpdated creates a baseline.updated event
func BaselineUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeBaseline, payload)
}

// BaselineCleared creates a baseline.cleared event
func BaselineCleared(payload interface{}) Event {
	return NewEvent(EventTypeCleared, EntityTypeBaseline, payload)
}

// DashboardRefreshed creates a dashboard.refreshed event
func DashboardRefreshed(payload interface{}) Event {
	return NewEvent(EventTypeRefreshed, EntityTypeDashboard, payload)
}
