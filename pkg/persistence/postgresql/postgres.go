// Package postgresql provides PostgreSQL-backed execution storage.
package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alexgaganashvili/orca/pkg/models"
	"github.com/alexgaganashvili/orca/pkg/persistence"
	"github.com/alexgaganashvili/orca/pkg/persistence/sqlbase"
	_ "github.com/lib/pq" // postgres driver
)

func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE IF NOT EXISTS executions (
				id TEXT PRIMARY KEY,
				application TEXT NOT NULL,
				type TEXT NOT NULL,
				status TEXT NOT NULL,
				payload JSONB NOT NULL,
				created_at TIMESTAMP NOT NULL,
				updated_at TIMESTAMP NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_executions_application ON executions (application);
		`,
	}
}

// Repository implements persistence.ExecutionRepository on PostgreSQL. The
// execution document is stored as JSONB; the indexed columns exist for lookup
// only and are derived from the document on every save.
type Repository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewRepository(ctx context.Context, logger *slog.Logger, databaseURL string) (*Repository, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	err = database.PingContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	migrationManager := sqlbase.NewMigrationManager(logger, database, migrations())

	err = migrationManager.RunMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Repository{
		db:     database,
		logger: logger.With("module", "postgresql_persistence"),
	}, nil
}

func (r *Repository) SaveExecution(ctx context.Context, execution *models.Execution) error {
	payload, err := json.Marshal(execution)
	if err != nil {
		return fmt.Errorf("failed to marshal execution %s: %w", execution.ID, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO executions (id, application, type, status, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			application = EXCLUDED.application,
			status = EXCLUDED.status,
			payload = EXCLUDED.payload,
			updated_at = EXCLUDED.updated_at`,
		execution.ID,
		execution.Application,
		string(execution.Type),
		string(execution.Status),
		payload,
		execution.CreatedAt,
		execution.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save execution %s: %w", execution.ID, err)
	}

	return nil
}

func (r *Repository) ExecutionByID(ctx context.Context, id string) (*models.Execution, error) {
	var payload []byte

	err := r.db.QueryRowContext(ctx, "SELECT payload FROM executions WHERE id = $1", id).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrExecutionNotFound
		}

		return nil, fmt.Errorf("failed to get execution %s: %w", id, err)
	}

	return unmarshalExecution(payload)
}

func (r *Repository) ExecutionsByApplication(ctx context.Context, application string) ([]*models.Execution, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT payload FROM executions WHERE application = $1 ORDER BY created_at", application)
	if err != nil {
		return nil, fmt.Errorf("failed to list executions for %s: %w", application, err)
	}

	defer func() {
		_ = rows.Close()
	}()

	var executions []*models.Execution

	for rows.Next() {
		var payload []byte

		err = rows.Scan(&payload)
		if err != nil {
			return nil, fmt.Errorf("failed to scan execution row: %w", err)
		}

		execution, err := unmarshalExecution(payload)
		if err != nil {
			return nil, err
		}

		executions = append(executions, execution)
	}

	return executions, rows.Err()
}

func (r *Repository) DeleteExecution(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM executions WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete execution %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}

	if affected == 0 {
		return persistence.ErrExecutionNotFound
	}

	return nil
}

func (r *Repository) HealthCheck(ctx context.Context) error {
	err := r.db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

func (r *Repository) Close(_ context.Context) error {
	if r.db != nil {
		err := r.db.Close()
		if err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	return nil
}

func unmarshalExecution(payload []byte) (*models.Execution, error) {
	var execution models.Execution

	err := json.Unmarshal(payload, &execution)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal execution payload: %w", err)
	}

	return &execution, nil
}
