// Package events defines the lifecycle event records published for executions.
package events

import (
	"fmt"
	"time"

	"github.com/alexgaganashvili/orca/pkg/models"
	"github.com/google/uuid"
)

// Topic is the transport topic lifecycle events are published on.
const Topic = "orca.events"

// Source tags every event this engine emits.
const Source = "orca"

// Metadata keys attached to transport messages.
const (
	ApplicationMetadataKey = "application"
	EventTypeMetadataKey   = "event_type"
)

// Phase describes an event's position relative to the execution lifecycle.
type Phase string

const (
	PhaseStarting Phase = "starting"
	PhaseComplete Phase = "complete"
	PhaseFailed   Phase = "failed"
)

// CompletionPhase maps a finished execution's outcome to its phase.
func CompletionPhase(wasSuccessful bool) Phase {
	if wasSuccessful {
		return PhaseComplete
	}

	return PhaseFailed
}

// TypeTag builds the event type tag, e.g. "orca:pipeline:starting".
func TypeTag(execType models.ExecutionType, phase Phase) string {
	return fmt.Sprintf("%s:%s:%s", Source, execType.Lower(), phase)
}

// Details are the fixed-shape fields of a lifecycle event.
type Details struct {
	Source      string `json:"source"`
	Type        string `json:"type"`
	Application string `json:"application"`
}

// EventRecord is a lifecycle event as handed to the notification service:
// fixed details plus an arbitrary evaluated content payload.
type EventRecord struct {
	ID        string         `json:"id"`
	Details   Details        `json:"details"`
	Content   map[string]any `json:"content,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// NewEventRecord creates an event record with a fresh ID and timestamp.
func NewEventRecord(details Details, content map[string]any) *EventRecord {
	return &EventRecord{
		ID:        uuid.New().String(),
		Details:   details,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}
