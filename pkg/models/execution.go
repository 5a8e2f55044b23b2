// Package models defines the core domain models for pipeline orchestration.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ExecutionType distinguishes declared pipelines from ad-hoc orchestrations.
type ExecutionType string

const (
	ExecutionTypePipeline      ExecutionType = "PIPELINE"
	ExecutionTypeOrchestration ExecutionType = "ORCHESTRATION"
)

// Lower returns the type tag segment used in event type tags.
func (t ExecutionType) Lower() string {
	return strings.ToLower(string(t))
}

// ExecutionStatus represents the lifecycle state of an execution.
type ExecutionStatus string

const (
	ExecutionStatusNotStarted ExecutionStatus = "NOT_STARTED"
	ExecutionStatusRunning    ExecutionStatus = "RUNNING"
	ExecutionStatusPaused     ExecutionStatus = "PAUSED"
	ExecutionStatusSuspended  ExecutionStatus = "SUSPENDED"
	ExecutionStatusSucceeded  ExecutionStatus = "SUCCEEDED"
	ExecutionStatusTerminal   ExecutionStatus = "TERMINAL"
	ExecutionStatusCanceled   ExecutionStatus = "CANCELED"
)

// IsComplete reports whether the status is a terminal one.
func (s ExecutionStatus) IsComplete() bool {
	return s == ExecutionStatusSucceeded || s == ExecutionStatusTerminal || s == ExecutionStatusCanceled
}

// IsSuccessful reports whether the status is the successful terminal state.
func (s ExecutionStatus) IsSuccessful() bool {
	return s == ExecutionStatusSucceeded
}

// Trigger captures how an execution was started and by whom.
type Trigger struct {
	Type       string         `json:"type,omitempty"`
	User       string         `json:"user,omitempty"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// Stage is a single stage of an execution; its tasks are resolved from the
// stage registry at run time.
type Stage struct {
	RefID   string          `json:"ref_id"`
	Type    string          `json:"type"`
	Name    string          `json:"name,omitempty"`
	Status  ExecutionStatus `json:"status"`
	Context map[string]any  `json:"context,omitempty"`
}

// Execution is a running pipeline or orchestration instance. The engine owns
// its lifetime; the notification dispatcher only reads it and mutates its
// Notifications list in place.
type Execution struct {
	ID            string          `json:"id"`
	Type          ExecutionType   `json:"type"           validate:"required,oneof=PIPELINE ORCHESTRATION"`
	Application   string          `json:"application"    validate:"required"`
	Name          string          `json:"name,omitempty"`
	PipelineID    string          `json:"pipeline_id,omitempty"`
	Status        ExecutionStatus `json:"status"`
	Notifications []*Notification `json:"notifications,omitempty"`
	Trigger       *Trigger        `json:"trigger,omitempty"`
	Stages        []*Stage        `json:"stages,omitempty"`
	StartedAt     *time.Time      `json:"started_at,omitempty"`
	EndedAt       *time.Time      `json:"ended_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// NewExecution creates an execution in the NOT_STARTED state.
func NewExecution(execType ExecutionType, application string) *Execution {
	now := time.Now().UTC()

	return &Execution{
		ID:          uuid.New().String(),
		Type:        execType,
		Application: application,
		Status:      ExecutionStatusNotStarted,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// InitiatingUser returns the user that started this execution, or "" when the
// execution was started without an authenticated caller.
func (e *Execution) InitiatingUser() string {
	if e.Trigger == nil {
		return ""
	}

	return e.Trigger.User
}
