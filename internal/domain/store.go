package domain

import (
	"context"
	"time"
)

// KeyValueStore is the expiring key-value store shared by all instances.
// It is the sole point of cross-request coordination: rate buckets and
// verification codes both live here. IncrWithTTL must be atomic — a plain
// read-then-write from the caller is a race.
type KeyValueStore interface {
	// IncrWithTTL atomically increments key and returns the new count.
	// The TTL is fused to the key when the increment creates it.
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)

	// Exists reports whether key is present and not expired.
	Exists(ctx context.Context, key string) (bool, error)

	// Get returns the value for key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) (string, error)

	// SetWithTTL stores value under key with the given TTL.
	SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error

	// SetNX stores value under key with the given TTL only when key is
	// absent, and reports whether the write happened. The check and the
	// write are one atomic operation against the store.
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)

	// TTL returns the remaining time to live for key.
	TTL(ctx context.Context, key string) (time.Duration, error)

	// Del removes key.
	Del(ctx context.Context, key string) error
}
