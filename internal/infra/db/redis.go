// Package db provides connection management for backing stores.
package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/richie-crm/planning-backend/config"
)

// RedisStore wraps the Redis client backing the recommendation cache.
type RedisStore struct {
	client *redis.Client
	cfg    *config.RedisConfig
}

// NewRedisConnection creates a new Redis connection from configuration.
func NewRedisConnection(cfg *config.RedisConfig) (*RedisStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	opts.DB = cfg.DB

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	slog.Info("Redis connection established", "db", cfg.DB)

	return &RedisStore{client: client, cfg: cfg}, nil
}

// Client returns the underlying Redis client.
func (s *RedisStore) Client() *redis.Client {
	return s.client
}

// HealthCheck performs a health check on the Redis connection.
func (s *RedisStore) HealthCheck() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := s.client.Ping(ctx).Err(); err != nil {
		slog.Error("Redis health check failed", "error", err)
		return false
	}

	return true
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	if err := s.client.Close(); err != nil {
		return fmt.Errorf("failed to close redis connection: %w", err)
	}

	slog.Info("Redis connection closed")
	return nil
}
