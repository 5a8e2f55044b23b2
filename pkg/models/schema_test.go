package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePipelineJSON(t *testing.T) {
	valid := `{
		"name": "deploy-main",
		"application": "orca-demo",
		"stages": [{"ref_id": "1", "type": "upsertDeliveryConfig"}],
		"notifications": [{"address": "a", "type": "email", "when": ["pipeline.failed"]}],
		"triggers": [{"cron": "0 * * * *", "enabled": true}]
	}`

	require.NoError(t, ValidatePipelineJSON([]byte(valid)))
}

func TestValidatePipelineJSONRejectsMissingApplication(t *testing.T) {
	invalid := `{"name": "deploy-main"}`

	err := ValidatePipelineJSON([]byte(invalid))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPipelineDef)
}

func TestValidatePipelineJSONRejectsBadStage(t *testing.T) {
	invalid := `{
		"name": "deploy-main",
		"application": "orca-demo",
		"stages": [{"type": ""}]
	}`

	err := ValidatePipelineJSON([]byte(invalid))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPipelineDef)
}

func TestExecutionStatusPredicates(t *testing.T) {
	assert.True(t, ExecutionStatusSucceeded.IsComplete())
	assert.True(t, ExecutionStatusSucceeded.IsSuccessful())
	assert.True(t, ExecutionStatusTerminal.IsComplete())
	assert.False(t, ExecutionStatusTerminal.IsSuccessful())
	assert.False(t, ExecutionStatusSuspended.IsComplete())
	assert.False(t, ExecutionStatusRunning.IsComplete())
}

func TestNewExecution(t *testing.T) {
	execution := NewExecution(ExecutionTypePipeline, "orca-demo")

	assert.NotEmpty(t, execution.ID)
	assert.Equal(t, ExecutionStatusNotStarted, execution.Status)
	assert.Equal(t, "orca-demo", execution.Application)
	assert.Equal(t, "pipeline", execution.Type.Lower())
	assert.Empty(t, execution.InitiatingUser())

	execution.Trigger = &Trigger{Type: "manual", User: "jane@example.com"}
	assert.Equal(t, "jane@example.com", execution.InitiatingUser())
}
