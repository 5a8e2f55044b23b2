// Package redis provides Redis-backed execution storage.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alexgaganashvili/orca/pkg/models"
	"github.com/alexgaganashvili/orca/pkg/persistence"
	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "orca:executions:"

// appIndexKey is the set of execution ids per application.
func appIndexKey(application string) string {
	return "orca:applications:" + application + ":executions"
}

// Repository implements persistence.ExecutionRepository on Redis, one JSON
// document per execution plus a per-application index set.
type Repository struct {
	client *goredis.Client
	logger *slog.Logger
}

func NewRepository(ctx context.Context, logger *slog.Logger, redisURL string) (*Repository, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := goredis.NewClient(opts)

	err = client.Ping(ctx).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Repository{
		client: client,
		logger: logger.With("module", "redis_persistence"),
	}, nil
}

func (r *Repository) SaveExecution(ctx context.Context, execution *models.Execution) error {
	data, err := json.Marshal(execution)
	if err != nil {
		return fmt.Errorf("failed to marshal execution %s: %w", execution.ID, err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, keyPrefix+execution.ID, data, 0)
	pipe.SAdd(ctx, appIndexKey(execution.Application), execution.ID)

	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save execution %s: %w", execution.ID, err)
	}

	return nil
}

func (r *Repository) ExecutionByID(ctx context.Context, id string) (*models.Execution, error) {
	data, err := r.client.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, persistence.ErrExecutionNotFound
		}

		return nil, fmt.Errorf("failed to get execution %s: %w", id, err)
	}

	var execution models.Execution

	err = json.Unmarshal(data, &execution)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal execution %s: %w", id, err)
	}

	return &execution, nil
}

func (r *Repository) ExecutionsByApplication(ctx context.Context, application string) ([]*models.Execution, error) {
	ids, err := r.client.SMembers(ctx, appIndexKey(application)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list executions for %s: %w", application, err)
	}

	executions := make([]*models.Execution, 0, len(ids))

	for _, id := range ids {
		execution, err := r.ExecutionByID(ctx, id)
		if err != nil {
			// Index entries may outlive their documents; skip the strays.
			if persistence.IsExecutionNotFound(err) {
				continue
			}

			return nil, err
		}

		executions = append(executions, execution)
	}

	return executions, nil
}

func (r *Repository) DeleteExecution(ctx context.Context, id string) error {
	execution, err := r.ExecutionByID(ctx, id)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, keyPrefix+id)
	pipe.SRem(ctx, appIndexKey(execution.Application), id)

	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete execution %s: %w", id, err)
	}

	return nil
}

func (r *Repository) HealthCheck(ctx context.Context) error {
	err := r.client.Ping(ctx).Err()
	if err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}

	return nil
}

func (r *Repository) Close(_ context.Context) error {
	return r.client.Close()
}
