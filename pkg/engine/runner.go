package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexgaganashvili/orca/pkg/models"
	"github.com/alexgaganashvili/orca/pkg/persistence"
)

// ExecutionListener receives lifecycle callbacks around an execution. For a
// single execution the before-hook always fires before the after-hook.
// Listeners are side channels: they return nothing and must contain their own
// failures.
type ExecutionListener interface {
	BeforeExecution(ctx context.Context, execution *models.Execution)
	AfterExecution(ctx context.Context, execution *models.Execution, finalStatus models.ExecutionStatus, wasSuccessful bool)
}

// Runner starts executions from pipeline definitions and walks their stages'
// ordered task lists.
type Runner struct {
	repository persistence.ExecutionRepository
	listener   ExecutionListener
	stages     *StageRegistry
	logger     *slog.Logger
}

func NewRunner(
	repository persistence.ExecutionRepository,
	listener ExecutionListener,
	stages *StageRegistry,
	logger *slog.Logger,
) *Runner {
	return &Runner{
		repository: repository,
		listener:   listener,
		stages:     stages,
		logger:     logger.With("module", "engine"),
	}
}

// StartPipeline creates an execution for the definition and runs it to
// completion. The returned execution is in a terminal state.
func (r *Runner) StartPipeline(ctx context.Context, def *models.PipelineDef, trigger *models.Trigger) (*models.Execution, error) {
	execution := models.NewExecution(models.ExecutionTypePipeline, def.Application)
	execution.Name = def.Name
	execution.PipelineID = def.ID
	execution.Trigger = trigger
	// The execution owns its notification list; the dispatcher mutates it, so
	// the definition's copy must stay untouched.
	execution.Notifications = models.CloneNotifications(def.Notifications)

	execution.Stages = make([]*models.Stage, len(def.Stages))
	for i, stageDef := range def.Stages {
		execution.Stages[i] = &models.Stage{
			RefID:   stageDef.RefID,
			Type:    stageDef.Type,
			Name:    stageDef.Name,
			Status:  models.ExecutionStatusNotStarted,
			Context: stageDef.Context,
		}
	}

	return r.run(ctx, execution)
}

// StartOrchestration creates and runs an ad-hoc execution from explicit stages.
func (r *Runner) StartOrchestration(ctx context.Context, application string, stages []models.StageDef, trigger *models.Trigger) (*models.Execution, error) {
	execution := models.NewExecution(models.ExecutionTypeOrchestration, application)
	execution.Trigger = trigger

	execution.Stages = make([]*models.Stage, len(stages))
	for i, stageDef := range stages {
		execution.Stages[i] = &models.Stage{
			RefID:   stageDef.RefID,
			Type:    stageDef.Type,
			Name:    stageDef.Name,
			Status:  models.ExecutionStatusNotStarted,
			Context: stageDef.Context,
		}
	}

	return r.run(ctx, execution)
}

func (r *Runner) run(ctx context.Context, execution *models.Execution) (*models.Execution, error) {
	logger := r.logger.With("execution_id", execution.ID, "application", execution.Application)

	err := r.repository.SaveExecution(ctx, execution)
	if err != nil {
		return nil, fmt.Errorf("failed to save execution %s: %w", execution.ID, err)
	}

	r.listener.BeforeExecution(ctx, execution)

	now := time.Now().UTC()
	execution.Status = models.ExecutionStatusRunning
	execution.StartedAt = &now
	execution.UpdatedAt = now

	err = r.repository.SaveExecution(ctx, execution)
	if err != nil {
		return nil, fmt.Errorf("failed to save execution %s: %w", execution.ID, err)
	}

	logger.InfoContext(ctx, "Starting execution", "stages", len(execution.Stages))

	runErr := r.runStages(ctx, execution)

	ended := time.Now().UTC()
	execution.EndedAt = &ended
	execution.UpdatedAt = ended

	if runErr != nil {
		execution.Status = models.ExecutionStatusTerminal

		logger.ErrorContext(ctx, "Execution failed", "error", runErr)
	} else {
		execution.Status = models.ExecutionStatusSucceeded

		logger.InfoContext(ctx, "Execution succeeded")
	}

	err = r.repository.SaveExecution(ctx, execution)
	if err != nil {
		return nil, fmt.Errorf("failed to save execution %s: %w", execution.ID, err)
	}

	r.listener.AfterExecution(ctx, execution, execution.Status, execution.Status.IsSuccessful())

	return execution, nil
}

func (r *Runner) runStages(ctx context.Context, execution *models.Execution) error {
	for _, stage := range execution.Stages {
		definition, err := r.stages.Get(stage.Type)
		if err != nil {
			stage.Status = models.ExecutionStatusTerminal

			return err
		}

		stage.Status = models.ExecutionStatusRunning

		for _, task := range definition.Tasks() {
			err = task.Run(ctx, execution, stage)
			if err != nil {
				stage.Status = models.ExecutionStatusTerminal

				return fmt.Errorf("task %s in stage %s failed: %w", task.Name, stage.RefID, err)
			}
		}

		stage.Status = models.ExecutionStatusSucceeded
	}

	return nil
}
