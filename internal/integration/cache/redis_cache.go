// Package cache implements the recommendation cache on Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/richie-crm/planning-backend/internal/domain/entity"
	domainerror "github.com/richie-crm/planning-backend/internal/domain/error"
	"github.com/richie-crm/planning-backend/internal/domain/valueobject"
)

// keyPrefix namespaces cache keys; one key per client.
const keyPrefix = "planner:reco:"

// RedisRecommendationCache stores one recommendation per client in Redis,
// guarded by a content fingerprint of the inputs it was computed for.
// Entries never expire by age: staleness is the caller's call.
type RedisRecommendationCache struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisRecommendationCache creates a Redis-backed recommendation cache.
func NewRedisRecommendationCache(client *redis.Client) *RedisRecommendationCache {
	return &RedisRecommendationCache{client: client, now: time.Now}
}

// NewRedisRecommendationCacheAt creates a cache with an injected clock.
func NewRedisRecommendationCacheAt(client *redis.Client, now func() time.Time) *RedisRecommendationCache {
	return &RedisRecommendationCache{client: client, now: now}
}

func cacheKey(clientID uuid.UUID) string {
	return keyPrefix + clientID.String()
}

// Lookup returns the client's entry when its stored fingerprint matches the
// current inputs. Any tracked-field change produces a different fingerprint
// and therefore a guaranteed miss; advisory output is never served against a
// goal set it was not computed for. The superseded entry is left in place
// for the next Store to overwrite.
func (c *RedisRecommendationCache) Lookup(ctx context.Context, goals []*entity.Goal, profile *entity.ClientProfile) (*entity.CacheEntry, error) {
	data, err := c.client.Get(ctx, cacheKey(profile.ClientID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domainerror.ErrCacheStorage, err)
	}

	var entry entity.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		// A corrupt entry is unusable; report it as a miss.
		return nil, nil
	}

	if entry.Fingerprint != valueobject.Fingerprint(goals, profile) {
		return nil, nil
	}

	return &entry, nil
}

// Store writes a fresh entry for the client, superseding any prior one.
// Last write wins between concurrent stores for the same client.
func (c *RedisRecommendationCache) Store(ctx context.Context, goals []*entity.Goal, profile *entity.ClientProfile, payload *entity.Recommendation) error {
	entry := entity.CacheEntry{
		Fingerprint: valueobject.Fingerprint(goals, profile),
		Payload:     payload,
		CreatedAt:   c.now().UTC(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to serialize cache entry: %w", err)
	}

	if err := c.client.Set(ctx, cacheKey(profile.ClientID), data, 0).Err(); err != nil {
		return fmt.Errorf("%w: %w", domainerror.ErrCacheStorage, err)
	}

	return nil
}

// ForceRefresh deletes the client's entry so the next Lookup misses.
func (c *RedisRecommendationCache) ForceRefresh(ctx context.Context, profile *entity.ClientProfile) error {
	if err := c.client.Del(ctx, cacheKey(profile.ClientID)).Err(); err != nil {
		return fmt.Errorf("%w: %w", domainerror.ErrCacheStorage, err)
	}
	return nil
}

// ClearAll deletes every client's entry and returns how many were removed.
func (c *RedisRecommendationCache) ClearAll(ctx context.Context) (int64, error) {
	var removed int64
	var cursor uint64

	for {
		keys, next, err := c.client.Scan(ctx, cursor, keyPrefix+"*", 100).Result()
		if err != nil {
			return removed, fmt.Errorf("%w: %w", domainerror.ErrCacheStorage, err)
		}

		if len(keys) > 0 {
			n, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				return removed, fmt.Errorf("%w: %w", domainerror.ErrCacheStorage, err)
			}
			removed += n
		}

		cursor = next
		if cursor == 0 {
			return removed, nil
		}
	}
}
