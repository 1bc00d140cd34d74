package ports

import (
	"context"
	"time"
)

// Publisher delivers serialized events to the message broker.
type Publisher interface {
	Publish(ctx context.Context, key string, value []byte) error
}

// Cache is the key/value store used for idempotency replays.
type Cache interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// Get returns "" without error when the key is absent.
	Get(ctx context.Context, key string) (string, error)
	GenerateKey(operation, key string) string
}
