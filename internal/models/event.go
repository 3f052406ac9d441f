package models

import (
	"encoding/json"
	"time"
)

// EventType categorizes journaled events.
type EventType string

const (
	// EventTypeDeadlineChanged is recorded when a drag commits a new date.
	EventTypeDeadlineChanged EventType = "deadline.changed"
	// EventTypeDeadlinesLoaded is recorded when a deadline list is loaded into a timeline.
	EventTypeDeadlinesLoaded EventType = "deadlines.loaded"
)

// EntityType identifies what an event refers to.
type EntityType string

const (
	EntityTypeTask     EntityType = "task"
	EntityTypeTimeline EntityType = "timeline"
)

// Event is an append-only journal entry.
type Event struct {
	ID         string            `json:"id"`
	Timestamp  time.Time         `json:"timestamp"`
	Type       EventType         `json:"type"`
	EntityType EntityType        `json:"entity_type"`
	EntityID   string            `json:"entity_id"`
	Payload    json.RawMessage   `json:"payload,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// DeadlineChangedPayload is the payload for deadline.changed events.
type DeadlineChangedPayload struct {
	TaskID   string `json:"task_id"`
	Name     string `json:"name,omitempty"`
	FromDate string `json:"from_date,omitempty"`
	ToDate   string `json:"to_date"`
}

// DeadlinesLoadedPayload is the payload for deadlines.loaded events.
type DeadlinesLoadedPayload struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

// NewDeadlineChangedEvent builds the journal entry for a committed change.
func NewDeadlineChangedEvent(change DeadlineChange, previous Deadline) (*Event, error) {
	payload, err := json.Marshal(DeadlineChangedPayload{
		TaskID:   change.TaskID,
		Name:     previous.Name,
		FromDate: previous.Date,
		ToDate:   change.DateStr(),
	})
	if err != nil {
		return nil, err
	}
	return &Event{
		Type:       EventTypeDeadlineChanged,
		EntityType: EntityTypeTask,
		EntityID:   change.TaskID,
		Payload:    payload,
	}, nil
}
