package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alexgaganashvili/orca/pkg/models"
	"github.com/alexgaganashvili/orca/pkg/scheduler"
)

// schedulePipelines loads every pipeline definition from the directory and
// registers its cron triggers. A definition that fails validation aborts
// startup rather than silently not being scheduled.
func schedulePipelines(ctx context.Context, logger *slog.Logger, sched *scheduler.Scheduler, path string) error {
	entries, err := filepath.Glob(filepath.Join(path, "*.json"))
	if err != nil {
		return fmt.Errorf("failed to list pipeline definitions in %s: %w", path, err)
	}

	for _, entry := range entries {
		data, err := os.ReadFile(entry)
		if err != nil {
			return fmt.Errorf("failed to read pipeline definition %s: %w", entry, err)
		}

		if err := models.ValidatePipelineJSON(data); err != nil {
			return fmt.Errorf("invalid pipeline definition %s: %w", entry, err)
		}

		var def models.PipelineDef
		if err := json.Unmarshal(data, &def); err != nil {
			return fmt.Errorf("failed to parse pipeline definition %s: %w", entry, err)
		}

		if err := sched.Schedule(&def); err != nil {
			return err
		}

		logger.InfoContext(ctx, "Scheduled pipeline",
			"pipeline", def.Name,
			"application", def.Application,
			"triggers", len(def.Triggers),
		)
	}

	return nil
}
