package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alexgaganashvili/orca/pkg/persistence"
	"github.com/alexgaganashvili/orca/pkg/persistence/file"
	"github.com/alexgaganashvili/orca/pkg/persistence/postgresql"
	"github.com/alexgaganashvili/orca/pkg/persistence/redis"
)

var supportedPersistenceProviders = []string{"file", "postgres", "postgresql", "redis", "rediss"}

// NewPersistence creates an execution repository from the database URL scheme.
// Unrecognized schemes fall back to the file-backed repository.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) persistence.ExecutionRepository {
	provider := parsePersistenceProvider(databaseURL)

	switch provider {
	case "postgres", "postgresql":
		repository, err := postgresql.NewRepository(ctx, logger, databaseURL)
		if err != nil {
			panic(fmt.Errorf("failed to create PostgreSQL repository: %w", err))
		}

		return repository
	case "redis", "rediss":
		repository, err := redis.NewRepository(ctx, logger, databaseURL)
		if err != nil {
			panic(fmt.Errorf("failed to create Redis repository: %w", err))
		}

		return repository
	default:
		return file.NewRepository(strings.TrimPrefix(databaseURL, "file://"))
	}
}

func parsePersistenceProvider(databaseURL string) string {
	parts := strings.Split(databaseURL, "://")

	provider := parts[0]
	for _, supported := range supportedPersistenceProviders {
		if provider == supported {
			return provider
		}
	}

	return "file"
}
