package cache

import (
	"context"
	"time"
)

// Cache is the read-side cache contract consumed by handlers. Implementations
// must treat a miss as (false, nil), not an error.
type Cache interface {
	// Get fetches a key and unmarshals it into dest. Returns found=false on a
	// miss, leaving dest untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores a value with a TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys. Deleting an absent key is not an error.
	Delete(ctx context.Context, keys ...string) error

	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error
}
