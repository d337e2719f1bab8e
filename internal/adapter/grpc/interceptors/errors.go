package interceptors

import (
	"context"
	"errors"
	"runtime/debug"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/seu-repo/dronevox/internal/domain"
)

// CodeFor maps a domain error onto a gRPC status code.
func CodeFor(err error) codes.Code {
	if st, ok := status.FromError(err); ok {
		return st.Code()
	}
	switch {
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	case errors.Is(err, domain.ErrDroneNotFound),
		errors.Is(err, domain.ErrAreaNotFound),
		errors.Is(err, domain.ErrSensorNotFound),
		errors.Is(err, domain.ErrTargetNotFound):
		return codes.NotFound
	case errors.Is(err, domain.ErrAmbiguousName),
		errors.Is(err, domain.ErrAlreadyExists):
		return codes.FailedPrecondition
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrEmptyAudio),
		errors.Is(err, domain.ErrIncompleteCommand):
		return codes.InvalidArgument
	case errors.Is(err, domain.ErrAudioTooLarge):
		return codes.ResourceExhausted
	case errors.Is(err, domain.ErrTranscriberUnavailable):
		return codes.Unavailable
	default:
		return codes.Internal
	}
}

// UnaryErrorInterceptor converts returned domain errors into status errors and
// hides the text of internal ones.
func UnaryErrorInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		resp, err := handler(ctx, req)
		if err == nil {
			return resp, nil
		}
		if _, ok := status.FromError(err); ok {
			return resp, err
		}
		code := CodeFor(err)
		if code == codes.Internal {
			return nil, status.Error(code, "internal error")
		}
		return nil, status.Error(code, err.Error())
	}
}

// UnaryRecoveryInterceptor turns a handler panic into codes.Internal.
func UnaryRecoveryInterceptor(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("gRPC handler panic",
					zap.String("method", info.FullMethod),
					zap.Any("panic", r),
					zap.ByteString("stack", debug.Stack()),
				)
				err = status.Error(codes.Internal, "internal error")
			}
		}()
		return handler(ctx, req)
	}
}
