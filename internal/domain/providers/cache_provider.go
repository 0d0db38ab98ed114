package providers

import (
	"context"
)

// CacheProvider defines the interface for shared transport-layer state
// such as rate-limit counters. Analysis results are never cached.
type CacheProvider interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in cache with expiration
	Set(ctx context.Context, key string, value []byte, expirationSeconds int) error
}
