package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/domain/providers"
	redisclient "github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/infrastructure/clients/redis"
)

// RedisAdapter implements CacheProvider on Redis. It backs the rate-limit
// window counters shared across replicas; analysis results never pass
// through it.
type RedisAdapter struct {
	client *redisclient.Client
}

// NewRedisAdapter wraps a connected Redis client as a CacheProvider.
func NewRedisAdapter(client *redisclient.Client) providers.CacheProvider {
	return &RedisAdapter{client: client}
}

// Get returns the stored bytes for key. A key that was never written or has
// expired is reported as an error.
func (a *RedisAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := a.client.Client().Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("key %q not found", key)
	}
	if err != nil {
		return nil, fmt.Errorf("cache get %q: %w", key, err)
	}
	return data, nil
}

// Set stores value under key for expirationSeconds. The rate limiter relies
// on the expiry to reset its fixed window.
func (a *RedisAdapter) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	ttl := time.Duration(expirationSeconds) * time.Second
	if err := a.client.Client().Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %q: %w", key, err)
	}
	return nil
}
