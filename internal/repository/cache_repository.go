package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appErrors "github.com/bekzod-dev/maktab-api/pkg/errors"
)

// CacheMetrics receives cache timing observations. Nil disables recording.
type CacheMetrics interface {
	RecordCacheOperation(hit bool, duration time.Duration)
	ObserveCacheWrite(duration time.Duration)
}

// CacheRepository wraps Redis for caching branch schedule settings and
// other small read-mostly payloads. A nil client degrades to a no-op so the
// API runs without Redis in development.
type CacheRepository struct {
	client  *redis.Client
	metrics CacheMetrics
	logger  *zap.Logger
}

// NewCacheRepository constructs a cache repository.
func NewCacheRepository(client *redis.Client, metrics CacheMetrics, logger *zap.Logger) *CacheRepository {
	return &CacheRepository{client: client, metrics: metrics, logger: logger}
}

// Get retrieves and unmarshals the cached value into the provided destination.
func (r *CacheRepository) Get(ctx context.Context, key string, dest interface{}) error {
	if r.client == nil {
		return appErrors.ErrCacheMiss
	}

	started := time.Now()
	raw, err := r.client.Get(ctx, key).Bytes()
	if r.metrics != nil {
		r.metrics.RecordCacheOperation(err == nil, time.Since(started))
	}
	if err != nil {
		if err == redis.Nil {
			return appErrors.ErrCacheMiss
		}
		return fmt.Errorf("redis get %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("unmarshal cache value for %s: %w", key, err)
	}

	return nil
}

// Set marshals the provided value and stores it with the given TTL.
func (r *CacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if r.client == nil {
		return nil
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value for %s: %w", key, err)
	}

	started := time.Now()
	err = r.client.Set(ctx, key, payload, ttl).Err()
	if r.metrics != nil {
		r.metrics.ObserveCacheWrite(time.Since(started))
	}
	if err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}

	return nil
}

// Delete removes a single cached entry.
func (r *CacheRepository) Delete(ctx context.Context, key string) error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis delete %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying Redis connection if present.
func (r *CacheRepository) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}
