package streaming

import (
	"time"

	"github.com/google/uuid"

	"scambait-lab/internal/domain/models"
)

// EventType represents the type of intelligence event
type EventType string

const (
	EventTypeIntelCaptured EventType = "intel_captured"
	EventTypeSessionClosed EventType = "session_closed"
)

// IntelEvent is a real-time capture event streamed to downstream reporting
type IntelEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id"`

	// Capture details (intel_captured)
	IntelType models.IntelType `json:"intel_type,omitempty"`
	Value     string           `json:"value,omitempty"`

	// Session summary (session_closed)
	Report *models.SessionReport `json:"report,omitempty"`
}

// NewIntelCapturedEvent creates an event for one newly captured record
func NewIntelCapturedEvent(sessionID string, record models.IntelRecord) *IntelEvent {
	return &IntelEvent{
		ID:        uuid.New().String(),
		Type:      EventTypeIntelCaptured,
		Timestamp: time.Now(),
		SessionID: sessionID,
		IntelType: record.Type,
		Value:     record.Value,
	}
}

// NewSessionClosedEvent creates an event carrying the finalized report
func NewSessionClosedEvent(report *models.SessionReport) *IntelEvent {
	return &IntelEvent{
		ID:        uuid.New().String(),
		Type:      EventTypeSessionClosed,
		Timestamp: time.Now(),
		SessionID: report.SessionID,
		Report:    report,
	}
}
