package cache

import (
	"context"
	"time"
)

// Keys of the cached collections read by the public pages
const (
	NewsListKey = "news:list"
	VisaListKey = "visas:list"
)

// Cache stores opaque payloads under string keys
type Cache interface {
	// Get returns the payload and true on a hit, nil and false on a miss
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}
