package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered  EventType = "user_registered"
	EventUserLoggedIn    EventType = "user_logged_in"
	EventPasswordUpdated EventType = "password_updated"
	EventUserDeleted     EventType = "user_deleted"
)

// AllEventTypes lists every account lifecycle event.
var AllEventTypes = []EventType{
	EventUserRegistered,
	EventUserLoggedIn,
	EventPasswordUpdated,
	EventUserDeleted,
}

// Valid reports whether t is one of AllEventTypes.
func (t EventType) Valid() bool {
	for _, known := range AllEventTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Event represents an account lifecycle change. ActorID is nil for
// unauthenticated flows such as registration.
type Event struct {
	ID        uuid.UUID  `json:"id"`
	Type      EventType  `json:"type"`
	SubjectID uuid.UUID  `json:"subject_id"`
	ActorID   *uuid.UUID `json:"actor_id,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

// NewEvent stamps a new event.
func NewEvent(eventType EventType, subjectID uuid.UUID, actorID *uuid.UUID) Event {
	return Event{
		ID:        uuid.New(),
		Type:      eventType,
		SubjectID: subjectID,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
	}
}
