package services

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
)

// TokenRevoker records token ids that must no longer be accepted
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// NoopRevoker keeps tokens valid until they expire. Used when no redis is configured.
type NoopRevoker struct{}

// Revoke does nothing
func (NoopRevoker) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	return nil
}

// IsRevoked always reports false
func (NoopRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return false, nil
}

// RedisRevoker stores revoked token ids in redis until the token would have expired
type RedisRevoker struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisRevoker creates a revoker backed by client
func NewRedisRevoker(client redis.UniversalClient) *RedisRevoker {
	return &RedisRevoker{client: client, prefix: "releaserite:revoked:"}
}

// NewRedisRevokerFromURL parses a redis:// URL and checks the connection
func NewRedisRevokerFromURL(ctx context.Context, url string) (*RedisRevoker, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "parse redis url")
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "ping redis")
	}
	return NewRedisRevoker(client), nil
}

// Revoke marks tokenID as revoked for ttl
func (r *RedisRevoker) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, r.prefix+tokenID, "1", ttl).Err()
}

// IsRevoked reports whether tokenID has been revoked
func (r *RedisRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, r.prefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Close releases the redis connection
func (r *RedisRevoker) Close() error {
	return r.client.Close()
}
