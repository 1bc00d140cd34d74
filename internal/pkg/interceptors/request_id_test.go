package interceptors

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

func TestUnaryServerInterceptor(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	intercept := UnaryServerInterceptor(log)
	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}

	t.Run("propagates incoming ids", func(t *testing.T) {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(
			"x-request-id", "req-1",
			"idempotency-key", "key-1",
		))
		var gotID, gotKey string
		_, err := intercept(ctx, nil, info, func(ctx context.Context, _ interface{}) (interface{}, error) {
			gotID = RequestIDFromContext(ctx)
			gotKey = IdempotencyKeyFromContext(ctx)
			return "ok", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "req-1", gotID)
		assert.Equal(t, "key-1", gotKey)
	})

	t.Run("generates a request id", func(t *testing.T) {
		var gotID string
		resp, err := intercept(context.Background(), nil, info, func(ctx context.Context, _ interface{}) (interface{}, error) {
			gotID = RequestIDFromContext(ctx)
			return "ok", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", resp)
		assert.Len(t, gotID, 36)
		assert.Empty(t, IdempotencyKeyFromContext(context.Background()))
	})
}
