// Package redis provides Redis connection management and a Redis-backed signing key store.
package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/usersvc/internal/config"
	"github.com/turtacn/usersvc/pkg/errors"
	"github.com/turtacn/usersvc/pkg/logger"
)

const pingTimeout = 5 * time.Second

// RedisConnection manages the Redis client lifecycle.
type RedisConnection struct {
	client *redis.Client
	logger logger.Logger
}

// NewRedisConnection dials Redis and verifies connectivity with a ping.
func NewRedisConnection(ctx context.Context, cfg config.RedisConfig, log logger.Logger) (*RedisConnection, error) {
	log = log.WithComponent("redis")

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Error(ctx, "Redis ping failed", err, logger.String("address", cfg.Address))
		_ = client.Close()
		return nil, errors.ErrStorageFailure("redis connect").WithCause(err)
	}

	log.Info(ctx, "Redis connection established",
		logger.String("address", cfg.Address),
		logger.Int("db", cfg.DB),
		logger.Int("pool_size", cfg.PoolSize),
	)
	return &RedisConnection{client: client, logger: log}, nil
}

// Client returns the underlying client.
func (rc *RedisConnection) Client() *redis.Client {
	return rc.client
}

// HealthCheck pings Redis.
func (rc *RedisConnection) HealthCheck(ctx context.Context) error {
	if err := rc.client.Ping(ctx).Err(); err != nil {
		return errors.ErrStorageFailure("redis ping").WithCause(err)
	}
	return nil
}

// Close closes the client and its pool.
func (rc *RedisConnection) Close() error {
	rc.logger.Info(context.Background(), "Closing Redis connection")
	return rc.client.Close()
}
