// Package cache defines the expiring key store event consumers use to
// remember which events they already processed.
package cache

import (
	"context"
	"time"
)

// KeyStore remembers keys for a bounded time.
type KeyStore interface {
	// Exists reports whether key is present and not expired.
	Exists(ctx context.Context, key string) (bool, error)
	// Set stores key for ttl. A ttl <= 0 keeps it until deleted.
	Set(ctx context.Context, key string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
