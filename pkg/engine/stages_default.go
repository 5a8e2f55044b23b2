package engine

import (
	"context"
	"log/slog"

	"github.com/alexgaganashvili/orca/pkg/models"
)

// The shipped stage definitions are ordered task lists over named units; the
// units themselves log their invocation and carry no further logic here.

type simpleStage struct {
	stageType string
	tasks     []TaskNode
}

func (s *simpleStage) Type() string      { return s.stageType }
func (s *simpleStage) Tasks() []TaskNode { return s.tasks }

func logTask(logger *slog.Logger, name string) Task {
	return func(ctx context.Context, execution *models.Execution, stage *models.Stage) error {
		logger.InfoContext(ctx, "Running task",
			"task", name,
			"stage_ref", stage.RefID,
			"execution_id", execution.ID,
		)

		return nil
	}
}

// RegisterDefaultStages registers the stage definitions shipped with the engine.
func RegisterDefaultStages(registry *StageRegistry, logger *slog.Logger) {
	registry.Register(&simpleStage{
		stageType: "updateJobProcesses",
		tasks: []TaskNode{
			{Name: "updateJobProcesses", Run: logTask(logger, "updateJobProcesses")},
			{Name: "monitorUpdateJobProcesses", Run: logTask(logger, "monitorUpdateJobProcesses")},
			{Name: "forceCacheRefresh", Run: logTask(logger, "forceCacheRefresh")},
		},
	})

	registry.Register(&simpleStage{
		stageType: "upsertDeliveryConfig",
		tasks: []TaskNode{
			{Name: "upsertDeliveryConfig", Run: logTask(logger, "upsertDeliveryConfig")},
			{Name: "monitorUpsert", Run: logTask(logger, "monitorUpsert")},
		},
	})

	registry.Register(&simpleStage{
		stageType: "deleteDeliveryConfig",
		tasks: []TaskNode{
			{Name: "deleteDeliveryConfig", Run: logTask(logger, "deleteDeliveryConfig")},
		},
	})
}
