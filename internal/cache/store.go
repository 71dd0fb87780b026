package cache

import (
	"context"
	"time"
)

// Store is an expiring key-value backend shared between resolver instances.
//
//go:generate mockgen -package=cache -destination=mock_store_test.go -source=store.go Store
type Store interface {
	Exists(ctx context.Context, key string) (bool, error)
	// Get returns ok=false when the key is absent or expired.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	SetWithExpiry(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}
