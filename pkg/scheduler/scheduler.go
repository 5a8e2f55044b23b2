// Package scheduler starts pipelines on their declared cron triggers.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alexgaganashvili/orca/pkg/engine"
	"github.com/alexgaganashvili/orca/pkg/models"
	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	cron   *cron.Cron
	runner *engine.Runner
	logger *slog.Logger
}

func NewScheduler(runner *engine.Runner, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		runner: runner,
		logger: logger.With("module", "scheduler"),
	}
}

// Schedule registers the enabled cron triggers of a pipeline definition.
func (s *Scheduler) Schedule(def *models.PipelineDef) error {
	for _, trigger := range def.Triggers {
		if !trigger.Enabled {
			continue
		}

		if _, err := cron.ParseStandard(trigger.Cron); err != nil {
			return fmt.Errorf("invalid cron expression '%s' for pipeline %s: %w", trigger.Cron, def.Name, err)
		}

		pipeline := def

		_, err := s.cron.AddFunc(trigger.Cron, func() {
			ctx := context.Background()

			s.logger.Info("Cron trigger firing", "pipeline", pipeline.Name, "application", pipeline.Application)

			_, err := s.runner.StartPipeline(ctx, pipeline, &models.Trigger{Type: "cron"})
			if err != nil {
				s.logger.Error("Cron-triggered pipeline failed to start",
					"pipeline", pipeline.Name,
					"error", err,
				)
			}
		})
		if err != nil {
			return fmt.Errorf("failed to schedule pipeline %s: %w", def.Name, err)
		}

		s.logger.Info("Scheduled pipeline", "pipeline", def.Name, "cron", trigger.Cron)
	}

	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
