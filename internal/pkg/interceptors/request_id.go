// Package interceptors carries request metadata through gRPC calls.
package interceptors

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// WithRequestMetadata stores the request id and idempotency key in ctx.
func WithRequestMetadata(ctx context.Context, requestID, idempotencyKey string) context.Context {
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	return context.WithValue(ctx, idempotencyKeyKey, idempotencyKey)
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func IdempotencyKeyFromContext(ctx context.Context) string {
	key, _ := ctx.Value(idempotencyKeyKey).(string)
	return key
}

// UnaryServerInterceptor reads x-request-id and the idempotency key from the
// incoming metadata, generating a request id when the caller sent none, and
// echoes the request id back in the response header.
func UnaryServerInterceptor(log *slog.Logger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		requestID := firstValue(ctx, HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		idempotencyKey := firstValue(ctx, HeaderIdempotencyKey, HeaderXIdempotencyKey)

		ctx = WithRequestMetadata(ctx, requestID, idempotencyKey)
		_ = grpc.SetHeader(ctx, metadata.Pairs(HeaderRequestID, requestID))

		start := time.Now()
		resp, err := handler(ctx, req)
		log.DebugContext(ctx, "grpc call",
			"method", info.FullMethod,
			"request_id", requestID,
			"code", status.Code(err).String(),
			"duration", time.Since(start),
		)
		return resp, err
	}
}

// firstValue returns the first non-empty incoming metadata value among keys.
func firstValue(ctx context.Context, keys ...string) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	for _, k := range keys {
		if vs := md.Get(k); len(vs) > 0 && vs[0] != "" {
			return vs[0]
		}
	}
	return ""
}
