package grpc

import (
	"context"

	"github.com/google/uuid"
	"gitlab.crja72.ru/gospec/go5/pingpong/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const RequestIDHeader = "x-request-id"

func requestIDFromMetadata(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if ok {
		if values := md.Get(RequestIDHeader); len(values) > 0 && values[0] != "" {
			return values[0]
		}
	}

	return uuid.New().String()
}

// Rejected kinds are already logged by the interactor; only server faults are errors here.
func serverFault(err error) bool {
	return err != nil && status.Code(err) == codes.Internal
}

func UnaryRequestIDInterceptor(l logger.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		ctx = logger.WithRequestID(ctx, requestIDFromMetadata(ctx))

		resp, err := handler(ctx, req)
		if serverFault(err) {
			l.Error(ctx, "request failed", zap.String("method", info.FullMethod), zap.Error(err))
		}

		return resp, err
	}
}

type requestIDStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *requestIDStream) Context() context.Context {
	return s.ctx
}

func StreamRequestIDInterceptor(l logger.Logger) grpc.StreamServerInterceptor {
	return func(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		ctx := logger.WithRequestID(ss.Context(), requestIDFromMetadata(ss.Context()))

		err := handler(srv, &requestIDStream{ServerStream: ss, ctx: ctx})
		if serverFault(err) {
			l.Error(ctx, "stream failed", zap.String("method", info.FullMethod), zap.Error(err))
		}

		return err
	}
}
