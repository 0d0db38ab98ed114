package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/pkg/config"
	apperrors "github.com/zatekoja/Clinicalentitydiscoverydesign/backend/pkg/errors"
	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/pkg/retry"
)

// Client represents a Redis client
type Client struct {
	client *redis.Client
}

// NewClient creates a new Redis client and verifies connectivity. The ping
// is retried a few times so the service survives Redis coming up slightly
// after it during deployment.
func NewClient(ctx context.Context, cfg *config.RedisConfig) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingRetry := retry.Config{
		MaxAttempts:     3,
		InitialDelay:    200 * time.Millisecond,
		MaxDelay:        2 * time.Second,
		BackoffFactor:   2.0,
		MaxTotalTimeout: 5 * time.Second,
	}
	if err := retry.Do(ctx, pingRetry, func() error {
		return client.Ping(ctx).Err()
	}); err != nil {
		client.Close()
		return nil, apperrors.NewUnavailableError("failed to connect to Redis", err)
	}

	return &Client{client: client}, nil
}

// Client returns the underlying Redis client
func (c *Client) Client() *redis.Client {
	return c.client
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.client.Close()
}

// Ping verifies the connection to Redis
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
