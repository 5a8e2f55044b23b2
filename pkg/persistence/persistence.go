// Package persistence provides the storage abstraction for executions.
package persistence

import (
	"context"

	"github.com/alexgaganashvili/orca/pkg/models"
)

type ExecutionRepository interface {
	SaveExecution(ctx context.Context, execution *models.Execution) error
	ExecutionByID(ctx context.Context, id string) (*models.Execution, error)
	ExecutionsByApplication(ctx context.Context, application string) ([]*models.Execution, error)
	DeleteExecution(ctx context.Context, id string) error
	HealthCheck(ctx context.Context) error

	Close(ctx context.Context) error
}
