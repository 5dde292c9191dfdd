package app

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutor_connect/internal/cache"
	"github.com/Freeeeeet/tutor_connect/internal/cache/redis"
	"github.com/Freeeeeet/tutor_connect/internal/cache/sqlite"
	"github.com/Freeeeeet/tutor_connect/internal/config"
	"github.com/Freeeeeet/tutor_connect/internal/repository"
	"github.com/Freeeeeet/tutor_connect/internal/repository/firestore"
	"github.com/Freeeeeet/tutor_connect/internal/repository/memory"
	"github.com/Freeeeeet/tutor_connect/internal/repository/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// OpenDirectory подключает каталог выбранного драйвера. Возвращённый каталог
// пишет метрики задержек; close освобождает соединения
func OpenDirectory(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.Directory, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.DBDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("create pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping database: %w", err)
		}
		logger.Info("✅ Connected to database")

		migrator, err := NewMigrator(pool, logger)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		defer migrator.Close()

		if err := migrator.Run(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}

		return repository.Instrument(postgres.NewDirectory(pool, logger)), pool.Close, nil

	case config.StoreDriverFirestore:
		client, err := firestore.NewClient(ctx, cfg.Firestore.ProjectID, cfg.Firestore.CredentialsFile)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("✅ Connected to firestore", zap.String("project_id", cfg.Firestore.ProjectID))

		closeClient := func() {
			if err := client.Close(); err != nil {
				logger.Warn("Failed to close firestore client", zap.Error(err))
			}
		}
		return repository.Instrument(firestore.NewDirectory(client, logger)), closeClient, nil

	case config.StoreDriverMemory:
		logger.Warn("Using in-memory directory, data is lost on restart")
		return repository.Instrument(memory.NewDirectory()), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// OpenCache открывает локальный кэш записей
func OpenCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) (cache.Store, error) {
	switch cfg.CacheDriver {
	case config.CacheDriverSQLite:
		store, err := sqlite.New(cfg.CacheSQLitePath)
		if err != nil {
			return nil, err
		}
		logger.Info("✅ Opened sqlite bookings cache", zap.String("path", cfg.CacheSQLitePath))
		return store, nil

	case config.CacheDriverRedis:
		store, err := redis.New(ctx, redis.Connection{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		logger.Info("✅ Connected to redis bookings cache", zap.String("addr", cfg.Redis.Addr))
		return store, nil

	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.CacheDriver)
	}
}
