package storage

import (
	"commentadmin/app/comment"
	"commentadmin/app/failure"
	"commentadmin/app/systemlog"
	"commentadmin/infra/memory"
	"commentadmin/infra/mongodb"
	"commentadmin/infra/postgres"
	"commentadmin/pkg/config"
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Repository is implemented by every storage driver.
type Repository interface {
	comment.Repository
	failure.Repository
	systemlog.Repository
	Close() error
}

// Open connects to the store selected by STORAGE_DRIVER.
func Open(ctx context.Context, cfg *config.AppConfig) (Repository, error) {
	switch cfg.StorageDriver {
	case config.StorageMongo:
		repository, err := mongodb.NewMongoRepository(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return repository, nil

	case config.StoragePostgres:
		repository := postgres.NewPgRepository(
			cfg.PostgresHost,
			cfg.PostgresDatabase,
			cfg.PostgresUsername,
			cfg.PostgresPassword,
			cfg.PostgresPort,
			cfg.PostgresSSLMode,
		)
		if err := repository.Migrate(ctx); err != nil {
			_ = repository.Close()
			return nil, fmt.Errorf("failed to migrate postgres schema: %w", err)
		}
		zap.L().Info("PostgreSQL connected",
			zap.String("database", cfg.PostgresDatabase),
			zap.Any("pool", repository.GetPoolStats()),
		)
		return repository, nil

	case config.StorageMemory:
		zap.L().Warn("Using in-memory storage, data is lost on restart")
		return memory.NewRepository(), nil

	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}
