package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// LeadEventType represents the kind of timeline entry
type LeadEventType string

const (
	LeadEventCreated      LeadEventType = "created"
	LeadEventStatusChange LeadEventType = "status_change"
	LeadEventAssignment   LeadEventType = "assignment"
	LeadEventNote         LeadEventType = "note"
	LeadEventEmail        LeadEventType = "email"
	LeadEventCall         LeadEventType = "call"
)

// IsManual reports whether the type can be recorded directly by a user.
func (t LeadEventType) IsManual() bool {
	return t == LeadEventNote || t == LeadEventEmail || t == LeadEventCall
}

// LeadEvent is an immutable entry of a lead's timeline
type LeadEvent struct {
	ID         uuid.UUID         `json:"id"`
	LeadID     uuid.UUID         `json:"leadId"`
	Type       LeadEventType     `json:"type"`
	Timestamp  time.Time         `json:"timestamp"`
	ActorID    null.String       `json:"actorId"`
	FromStatus LeadStatus        `json:"fromStatus,omitempty"`
	ToStatus   LeadStatus        `json:"toStatus,omitempty"`
	Notes      null.String       `json:"notes"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// RecordActivityInput represents a manually logged activity
type RecordActivityInput struct {
	Type     LeadEventType     `json:"type" binding:"required"`
	Notes    string            `json:"notes"`
	Metadata map[string]string `json:"metadata"`
}
