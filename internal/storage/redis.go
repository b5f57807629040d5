// Package storage provides the redis snapshot/result store and the
// postgres archive used by the acquisition and analysis layers.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/hotboard-io/hotboard/internal/core/domain"
)

const (
	// snapshotKeyFmt keys one platform's item list for one date.
	snapshotKeyFmt = "crawler:%s:%s"

	// snapshotTTL keeps raw snapshots long enough for the trend window.
	snapshotTTL = 14 * 24 * time.Hour
)

// Redis is the key-value store accessor. Snapshots and computed results
// are stored as JSON blobs with a TTL.
type Redis struct {
	client *redis.Client
	logger *zerolog.Logger
}

// NewRedis connects a store accessor. The connection is lazy; use Ping
// for readiness checks.
func NewRedis(addr, password string, db int, logger *zerolog.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &Redis{client: client, logger: logger}
}

// Ping verifies connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}

	return nil
}

// Close releases the client.
func (r *Redis) Close() error {
	return r.client.Close()
}

// GetSnapshot reads one platform's item list for a date. A missing key
// returns (nil, nil): absence of data is an expected state, not an
// error.
func (r *Redis) GetSnapshot(ctx context.Context, platform, date string) ([]domain.Item, error) {
	key := fmt.Sprintf(snapshotKeyFmt, platform, date)

	raw, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("get snapshot %s: %w", key, err)
	}

	var items []domain.Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", key, err)
	}

	return items, nil
}

// SetSnapshot overwrites one platform's item list for a date
// atomically.
func (r *Redis) SetSnapshot(ctx context.Context, platform, date string, items []domain.Item) error {
	key := fmt.Sprintf(snapshotKeyFmt, platform, date)

	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", key, err)
	}

	if err := r.client.Set(ctx, key, raw, snapshotTTL).Err(); err != nil {
		return fmt.Errorf("set snapshot %s: %w", key, err)
	}

	return nil
}

// GetResult reads a cached computed result into v. The boolean reports
// whether the key existed.
func (r *Redis) GetResult(ctx context.Context, key string, v any) (bool, error) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("get result %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("decode result %s: %w", key, err)
	}

	return true, nil
}

// SetResult caches a computed result with the given TTL.
func (r *Redis) SetResult(ctx context.Context, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode result %s: %w", key, err)
	}

	if err := r.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("set result %s: %w", key, err)
	}

	return nil
}

// Invalidate drops a cached result, forcing recomputation on the next
// request.
func (r *Redis) Invalidate(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("invalidate %s: %w", key, err)
	}

	return nil
}
