package di

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	candleadapters "stock_evaluator/internal/feature/candles/adapters"
	symbolentity "stock_evaluator/internal/feature/symbollist/domain/entity"
	infradb "stock_evaluator/internal/platform/db"
	infraredis "stock_evaluator/internal/platform/redis"
)

// Infra holds the optional backing stores. A nil field means the store is not configured.
type Infra struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// Close releases every opened connection.
func (i Infra) Close() {
	if i.Redis != nil {
		if err := i.Redis.Close(); err != nil {
			slog.Error("failed to close Redis client", "error", err)
		}
	}
	if i.DB != nil {
		if sqlDB, err := i.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				slog.Error("failed to close database", "error", err)
			}
		}
	}
}

// OpenInfra connects to Postgres and Redis when they are configured.
// A configured database that cannot be reached is an error.
// Redis is a cache only, so connection failures are logged and the process runs without it.
func OpenInfra(ctx context.Context) (Infra, error) {
	var infra Infra

	dbCfg := infradb.LoadConfigFromEnv()
	if dbCfg.Enabled() {
		db, err := infradb.OpenDB(dbCfg, &candleadapters.CandleModel{}, &symbolentity.Symbol{})
		if err != nil {
			return Infra{}, err
		}
		infra.DB = db
	} else {
		slog.Info("DB_HOST not set; reading market data from the provider directly")
	}

	redisCfg := infraredis.LoadConfig()
	if redisCfg.Enabled() {
		rdb, err := infraredis.NewRedisClient(ctx, redisCfg)
		if err != nil {
			slog.Warn("Redis unavailable; running without cache", "error", err)
		} else {
			infra.Redis = rdb
		}
	}
	return infra, nil
}
