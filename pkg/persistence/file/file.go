// Package file provides file-based execution storage for development and tests.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexgaganashvili/orca/pkg/models"
	"github.com/alexgaganashvili/orca/pkg/persistence"
)

const dirPerm = 0o755

// Repository implements persistence.ExecutionRepository on the file system,
// one JSON document per execution.
type Repository struct {
	root string
}

func NewRepository(root string) *Repository {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Repository{root: cleanRoot}
}

func (r *Repository) executionPath(id string) string {
	return filepath.Join(r.root, "executions", id+".json")
}

func (r *Repository) SaveExecution(_ context.Context, execution *models.Execution) error {
	err := os.MkdirAll(filepath.Join(r.root, "executions"), dirPerm)
	if err != nil {
		return fmt.Errorf("failed to create executions directory: %w", err)
	}

	data, err := json.MarshalIndent(execution, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal execution %s: %w", execution.ID, err)
	}

	err = os.WriteFile(r.executionPath(execution.ID), data, 0o600)
	if err != nil {
		return fmt.Errorf("failed to write execution %s: %w", execution.ID, err)
	}

	return nil
}

func (r *Repository) ExecutionByID(_ context.Context, id string) (*models.Execution, error) {
	data, err := os.ReadFile(r.executionPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.ErrExecutionNotFound
		}

		return nil, fmt.Errorf("failed to read execution %s: %w", id, err)
	}

	var execution models.Execution

	err = json.Unmarshal(data, &execution)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal execution %s: %w", id, err)
	}

	return &execution, nil
}

func (r *Repository) ExecutionsByApplication(ctx context.Context, application string) ([]*models.Execution, error) {
	entries, err := os.ReadDir(filepath.Join(r.root, "executions"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to list executions: %w", err)
	}

	var executions []*models.Execution

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		execution, err := r.ExecutionByID(ctx, strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			return nil, err
		}

		if execution.Application == application {
			executions = append(executions, execution)
		}
	}

	return executions, nil
}

func (r *Repository) DeleteExecution(_ context.Context, id string) error {
	err := os.Remove(r.executionPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return persistence.ErrExecutionNotFound
		}

		return fmt.Errorf("failed to delete execution %s: %w", id, err)
	}

	return nil
}

func (r *Repository) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(r.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

func (r *Repository) Close(_ context.Context) error {
	return nil
}
