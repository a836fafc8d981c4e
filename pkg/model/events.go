package model

import (
	"time"

	"github.com/google/uuid"
)

// Session event types.
const (
	SessionSignedIn  = "signed_in"
	SessionSignedOut = "signed_out"
	SessionExpired   = "expired"
)

// SessionEvent records a change in authentication state.
type SessionEvent struct {
	ID     uuid.UUID `json:"id"`
	Type   string    `json:"type"`
	UserID string    `json:"user_id,omitempty"`
	Reason string    `json:"reason,omitempty"`
	At     time.Time `json:"at"`
}

// NewSessionEvent stamps a new event with an ID and the current time.
func NewSessionEvent(eventType, userID, reason string) SessionEvent {
	return SessionEvent{
		ID:     uuid.New(),
		Type:   eventType,
		UserID: userID,
		Reason: reason,
		At:     time.Now().UTC(),
	}
}
