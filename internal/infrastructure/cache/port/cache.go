package port

import (
	"context"
	"time"
)

// Cache is the minimal key-value contract used for caching user lookups.
// Implementations must be safe for concurrent use. Misses are reported
// as ("", ErrMiss); a non-nil error other than ErrMiss means a transport
// or server failure.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)

	// Set stores value at key with the provided TTL. Zero or negative
	// TTL means no expiration.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Del removes keys and returns the number actually removed.
	Del(ctx context.Context, keys ...string) (int64, error)

	Ping(ctx context.Context) error
	Close() error
}

// ErrMiss signals a cache miss in a typed way so callers can tell misses
// apart from transport errors.
var ErrMiss = errMiss{}

type errMiss struct{}

func (e errMiss) Error() string { return "cache: miss" }
