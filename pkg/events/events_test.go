package events

import (
	"testing"

	"github.com/alexgaganashvili/orca/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestTypeTag(t *testing.T) {
	assert.Equal(t, "orca:pipeline:starting", TypeTag(models.ExecutionTypePipeline, PhaseStarting))
	assert.Equal(t, "orca:pipeline:complete", TypeTag(models.ExecutionTypePipeline, PhaseComplete))
	assert.Equal(t, "orca:pipeline:failed", TypeTag(models.ExecutionTypePipeline, PhaseFailed))
	assert.Equal(t, "orca:orchestration:starting", TypeTag(models.ExecutionTypeOrchestration, PhaseStarting))
}

func TestCompletionPhase(t *testing.T) {
	assert.Equal(t, PhaseComplete, CompletionPhase(true))
	assert.Equal(t, PhaseFailed, CompletionPhase(false))
}

func TestNewEventRecord(t *testing.T) {
	record := NewEventRecord(Details{
		Source:      Source,
		Type:        TypeTag(models.ExecutionTypePipeline, PhaseStarting),
		Application: "orca-demo",
	}, map[string]any{"executionId": "exec-1"})

	assert.NotEmpty(t, record.ID)
	assert.False(t, record.Timestamp.IsZero())
	assert.Equal(t, "orca", record.Details.Source)
	assert.Equal(t, "exec-1", record.Content["executionId"])
}
