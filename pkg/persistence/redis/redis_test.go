package redis_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/alexgaganashvili/orca/pkg/models"
	"github.com/alexgaganashvili/orca/pkg/persistence"
	"github.com/alexgaganashvili/orca/pkg/persistence/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisRepositoryRoundTrip(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set; skipping redis integration test")
	}

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	repo, err := redis.NewRepository(ctx, logger, redisURL)
	require.NoError(t, err)

	defer func() { _ = repo.Close(ctx) }()

	execution := models.NewExecution(models.ExecutionTypeOrchestration, "orca-redis-test")
	execution.Status = models.ExecutionStatusRunning

	require.NoError(t, repo.SaveExecution(ctx, execution))

	loaded, err := repo.ExecutionByID(ctx, execution.ID)
	require.NoError(t, err)
	assert.Equal(t, execution.ID, loaded.ID)
	assert.Equal(t, models.ExecutionStatusRunning, loaded.Status)

	byApp, err := repo.ExecutionsByApplication(ctx, "orca-redis-test")
	require.NoError(t, err)
	assert.NotEmpty(t, byApp)

	require.NoError(t, repo.DeleteExecution(ctx, execution.ID))

	_, err = repo.ExecutionByID(ctx, execution.ID)
	assert.True(t, persistence.IsExecutionNotFound(err))
}
