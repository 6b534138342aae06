package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const blacklistKeyPrefix = "token:blacklist:"

// TokenBlacklist is a fast-path lookup for revoked refresh token ids.
// The database stays authoritative; the cache only short-circuits lookups.
type TokenBlacklist interface {
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
	Blacklist(ctx context.Context, jti string, ttl time.Duration) error
	Ping(ctx context.Context) error
}

// RedisOptions configures the Redis client.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// RedisBlacklist stores revoked jtis as keys expiring with the token.
type RedisBlacklist struct {
	client *redis.Client
	logger zerolog.Logger
}

// NewRedisBlacklist connects to Redis. A failed ping returns an error and
// the caller falls back to NoopBlacklist.
func NewRedisBlacklist(ctx context.Context, opts RedisOptions, logger zerolog.Logger) (*RedisBlacklist, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}

	return NewRedisBlacklistFromClient(client, logger), nil
}

// NewRedisBlacklistFromClient wraps an existing client.
func NewRedisBlacklistFromClient(client *redis.Client, logger zerolog.Logger) *RedisBlacklist {
	return &RedisBlacklist{client: client, logger: logger}
}

// IsBlacklisted reports whether jti was cached as revoked.
func (b *RedisBlacklist) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	err := b.client.Get(ctx, blacklistKeyPrefix+jti).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Blacklist caches jti as revoked until ttl elapses.
func (b *RedisBlacklist) Blacklist(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return b.client.Set(ctx, blacklistKeyPrefix+jti, 1, ttl).Err()
}

// Ping checks the Redis connection.
func (b *RedisBlacklist) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

// Close releases the client.
func (b *RedisBlacklist) Close() error {
	return b.client.Close()
}

// NoopBlacklist is used when Redis is not configured.
type NoopBlacklist struct{}

func (NoopBlacklist) IsBlacklisted(context.Context, string) (bool, error) { return false, nil }

func (NoopBlacklist) Blacklist(context.Context, string, time.Duration) error { return nil }

func (NoopBlacklist) Ping(context.Context) error { return nil }
