package grpc

import (
	"context"
	"path"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/pedro664/PLANTA-sub001/internal/rpcx"
)

type ctxKey string

const idempotencyKeyCtx ctxKey = "idempotencyKey"

// idempotencyInterceptor moves the idempotency header into the context.
func (s *GRPCServer) idempotencyInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(rpcx.IdempotencyHeader); len(values) > 0 && values[0] != "" {
			ctx = context.WithValue(ctx, idempotencyKeyCtx, values[0])
		}
	}
	return handler(ctx, req)
}

func idempotencyKey(ctx context.Context) string {
	key, _ := ctx.Value(idempotencyKeyCtx).(string)
	return key
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	args := []any{
		"method", path.Base(info.FullMethod),
		"code", status.Code(err).String(),
		"duration", time.Since(start),
	}
	if err != nil {
		s.logger.Warn(ctx, "rpc failed", append(args, "error", err)...)
	} else {
		s.logger.Debug(ctx, "rpc handled", args...)
	}
	return resp, err
}
