package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "marketplace:checkout:u1:k1", Key("marketplace", "checkout", "u1:k1"))

	c := NewRedisCache("127.0.0.1:0", "svc")
	defer c.Close()
	assert.Equal(t, "svc:checkout:abc", c.GenerateKey("checkout", "abc"))
}

func TestUnreachableServer(t *testing.T) {
	// Port 1 is reserved; nothing listens there.
	c := NewRedisCache("127.0.0.1:1", "svc")
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := c.Ping(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis: ping")

	_, err = c.Get(ctx, "k")
	assert.Error(t, err)
}
