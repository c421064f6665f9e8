// Package cache provides caching decorators for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_evaluator/internal/feature/evaluation/domain/entity"
	"stock_evaluator/internal/feature/evaluation/domain/repository"
)

// CachingMetadataRepository decorates a MetadataRepository with Redis caching.
// Entries expire at the next RefreshHour in the market time zone, so
// fundamentals are fetched at most once per trading day per symbol.
type CachingMetadataRepository struct {
	inner     repository.MetadataRepository
	rdb       *redis.Client
	namespace string
	loc       *time.Location
	now       func() time.Time
}

var _ repository.MetadataRepository = (*CachingMetadataRepository)(nil)

// NewCachingMetadataRepository decorates inner with Redis caching.
// A nil rdb disables caching. An empty namespace defaults to "metadata".
func NewCachingMetadataRepository(rdb *redis.Client, inner repository.MetadataRepository, namespace string, loc *time.Location) *CachingMetadataRepository {
	if namespace == "" {
		namespace = "metadata"
	}
	if loc == nil {
		loc = time.UTC
	}
	return &CachingMetadataRepository{
		inner:     inner,
		rdb:       rdb,
		namespace: namespace,
		loc:       loc,
		now:       time.Now,
	}
}

// GetMetadata returns cached metadata when present, otherwise asks inner and
// stores the result. Cache failures never fail the call.
func (c *CachingMetadataRepository) GetMetadata(ctx context.Context, symbol string) (entity.Metadata, error) {
	if c.rdb == nil {
		return c.inner.GetMetadata(ctx, symbol)
	}

	key := c.cacheKey(symbol)

	b, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil && len(b) > 0:
		var out entity.Metadata
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		slog.Warn("dropping corrupted metadata cache entry", "key", key)
		_ = c.rdb.Del(ctx, key).Err()
	case err != nil && !errors.Is(err, redis.Nil):
		slog.Warn("metadata cache read failed", "key", key, "error", err)
	}

	out, err := c.inner.GetMetadata(ctx, symbol)
	if err != nil {
		return entity.Metadata{}, err
	}

	if b, err := json.Marshal(out); err == nil {
		ttl := TimeUntilNext(c.now(), RefreshHour, c.loc)
		if err := c.rdb.Set(ctx, key, b, ttl).Err(); err != nil {
			slog.Warn("metadata cache write failed", "key", key, "error", err)
		}
	}
	return out, nil
}

func (c *CachingMetadataRepository) cacheKey(symbol string) string {
	return c.namespace + ":" + safe(symbol)
}
