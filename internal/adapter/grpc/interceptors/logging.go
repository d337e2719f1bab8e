package interceptors

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// UnaryLoggingInterceptor logs one line per call. Health probes are logged at
// debug level only.
func UnaryLoggingInterceptor(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		st, _ := status.FromError(err)
		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.Duration("duration", time.Since(start)),
			zap.String("code", st.Code().String()),
		}

		switch {
		case err != nil:
			log.Warn("gRPC request failed", append(fields, zap.Error(err))...)
		case strings.HasPrefix(info.FullMethod, "/grpc.health.v1.Health/"):
			log.Debug("gRPC health probe", fields...)
		default:
			log.Info("gRPC request completed", fields...)
		}
		return resp, err
	}
}
