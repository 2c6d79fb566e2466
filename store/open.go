package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"lodge-desk/config"
	"lodge-desk/models"
)

// Store is what the ledger engine needs from a persistence backend.
type Store interface {
	Load(ctx context.Context) (*models.Snapshot, error)
	Save(ctx context.Context, snap *models.Snapshot) error
}

// Open builds the backend selected by STORE_DRIVER. The returned func releases
// connections and is never nil.
func Open(ctx context.Context, cfg config.Config, logger *zap.Logger) (Store, func() error, error) {
	noop := func() error { return nil }

	switch strings.ToLower(cfg.StoreDriver) {
	case "", "excel", "xlsx":
		logger.Info("📗 using spreadsheet store", zap.String("path", cfg.ExcelPath))
		return NewExcelStore(cfg.ExcelPath), noop, nil

	case "mysql", "sql":
		db, err := config.OpenDatabase(logger)
		if err != nil {
			return nil, noop, fmt.Errorf("connect database: %w", err)
		}
		s := NewGormStore(db)
		if err := s.Migrate(ctx); err != nil {
			return nil, noop, fmt.Errorf("migrate: %w", err)
		}
		closeFn := func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}
		logger.Info("🗄️ using SQL store")
		return s, closeFn, nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("redis ping failed, continuing", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		logger.Info("🧰 using redis store", zap.String("addr", cfg.RedisAddr), zap.String("key", cfg.RedisKey))
		return NewRedisStore(client, cfg.RedisKey), client.Close, nil
	}
	return nil, noop, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
}
