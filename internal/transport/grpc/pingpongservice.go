package grpc

import (
	"context"
	"errors"
	"io"

	"gitlab.crja72.ru/gospec/go5/pingpong/internal/domain/pingpong"
	"gitlab.crja72.ru/gospec/go5/pingpong/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type Dispatcher interface {
	Dispatch(ctx context.Context, kind string) (pingpong.Response, error)
}

type pingPongService struct {
	logger     logger.Logger
	dispatcher Dispatcher
}

func NewPingPongService(logger logger.Logger, dispatcher Dispatcher) PingPongServiceServer {
	return &pingPongService{
		logger:     logger,
		dispatcher: dispatcher,
	}
}

func (s *pingPongService) Send(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	response, err := s.dispatcher.Dispatch(ctx, in.GetValue())
	if err != nil {
		return nil, toStatus(err)
	}

	return wrapperspb.String(string(response)), nil
}

func (s *pingPongService) PingPong(stream grpc.ServerStream) error {
	ctx := stream.Context()

	for {
		msg := new(wrapperspb.StringValue)
		err := stream.RecvMsg(msg)

		if err == io.EOF {
			return nil
		}

		if err != nil {
			return err
		}

		s.logger.Debug(ctx, "Received message", zap.String("kind", msg.GetValue()))

		response, err := s.dispatcher.Dispatch(ctx, msg.GetValue())
		if err != nil {
			return toStatus(err)
		}

		if err := stream.SendMsg(wrapperspb.String(string(response))); err != nil {
			return err
		}
	}
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, pingpong.ErrEmptyKind):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, pingpong.ErrUnknownRequest):
		return status.Error(codes.NotFound, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
