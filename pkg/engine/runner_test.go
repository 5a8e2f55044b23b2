package engine_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/alexgaganashvili/orca/pkg/engine"
	"github.com/alexgaganashvili/orca/pkg/models"
	"github.com/alexgaganashvili/orca/pkg/persistence/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

// recordingListener captures hook invocations in order.
type recordingListener struct {
	calls []string
}

func (l *recordingListener) BeforeExecution(_ context.Context, execution *models.Execution) {
	l.calls = append(l.calls, "before:"+string(execution.Status))
}

func (l *recordingListener) AfterExecution(_ context.Context, _ *models.Execution, finalStatus models.ExecutionStatus, wasSuccessful bool) {
	suffix := "failed"
	if wasSuccessful {
		suffix = "success"
	}

	l.calls = append(l.calls, "after:"+string(finalStatus)+":"+suffix)
}

type failingStage struct{}

func (s *failingStage) Type() string { return "alwaysFails" }

func (s *failingStage) Tasks() []engine.TaskNode {
	return []engine.TaskNode{{
		Name: "explode",
		Run: func(context.Context, *models.Execution, *models.Stage) error {
			return errors.New("boom")
		},
	}}
}

func setupRunner(t *testing.T) (*engine.Runner, *recordingListener, *file.Repository) {
	t.Helper()

	logger := testLogger()
	registry := engine.NewStageRegistry(logger)
	engine.RegisterDefaultStages(registry, logger)
	registry.Register(&failingStage{})

	listener := &recordingListener{}
	repo := file.NewRepository(t.TempDir())

	return engine.NewRunner(repo, listener, registry, logger), listener, repo
}

func TestStartPipelineRunsHooksInOrder(t *testing.T) {
	runner, listener, repo := setupRunner(t)

	def := &models.PipelineDef{
		Name:        "deploy-main",
		Application: "orca-demo",
		Stages: []models.StageDef{
			{RefID: "1", Type: "upsertDeliveryConfig"},
			{RefID: "2", Type: "updateJobProcesses"},
		},
	}

	execution, err := runner.StartPipeline(context.Background(), def, &models.Trigger{Type: "manual", User: "jane@example.com"})
	require.NoError(t, err)

	assert.Equal(t, models.ExecutionStatusSucceeded, execution.Status)
	require.Equal(t, []string{
		"before:NOT_STARTED",
		"after:SUCCEEDED:success",
	}, listener.calls)

	saved, err := repo.ExecutionByID(context.Background(), execution.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionStatusSucceeded, saved.Status)
	assert.Equal(t, "jane@example.com", saved.InitiatingUser())

	for _, stage := range saved.Stages {
		assert.Equal(t, models.ExecutionStatusSucceeded, stage.Status)
	}
}

func TestStartPipelineCopiesNotifications(t *testing.T) {
	runner, _, _ := setupRunner(t)

	def := &models.PipelineDef{
		Name:        "deploy-main",
		Application: "orca-demo",
		Notifications: []*models.Notification{
			{Address: "ops", Type: "slack", When: []string{"pipeline.failed"}},
		},
	}

	execution, err := runner.StartPipeline(context.Background(), def, nil)
	require.NoError(t, err)

	require.Len(t, execution.Notifications, 1)
	assert.NotSame(t, def.Notifications[0], execution.Notifications[0])

	execution.Notifications[0].Address = "mutated"
	assert.Equal(t, "ops", def.Notifications[0].Address)
}

func TestFailingStageEndsTerminal(t *testing.T) {
	runner, listener, _ := setupRunner(t)

	def := &models.PipelineDef{
		Name:        "deploy-main",
		Application: "orca-demo",
		Stages:      []models.StageDef{{RefID: "1", Type: "alwaysFails"}},
	}

	execution, err := runner.StartPipeline(context.Background(), def, nil)
	require.NoError(t, err)

	assert.Equal(t, models.ExecutionStatusTerminal, execution.Status)
	assert.Equal(t, "after:TERMINAL:failed", listener.calls[len(listener.calls)-1])
}

func TestUnknownStageTypeEndsTerminal(t *testing.T) {
	runner, _, _ := setupRunner(t)

	def := &models.PipelineDef{
		Name:        "deploy-main",
		Application: "orca-demo",
		Stages:      []models.StageDef{{RefID: "1", Type: "doesNotExist"}},
	}

	execution, err := runner.StartPipeline(context.Background(), def, nil)
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionStatusTerminal, execution.Status)
}

func TestStartOrchestration(t *testing.T) {
	runner, listener, _ := setupRunner(t)

	execution, err := runner.StartOrchestration(context.Background(), "orca-demo",
		[]models.StageDef{{RefID: "1", Type: "deleteDeliveryConfig"}}, nil)
	require.NoError(t, err)

	assert.Equal(t, models.ExecutionTypeOrchestration, execution.Type)
	assert.Equal(t, models.ExecutionStatusSucceeded, execution.Status)
	assert.Len(t, listener.calls, 2)
}
