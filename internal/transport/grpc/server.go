package grpc

import (
	"context"
	"fmt"
	"net"

	"gitlab.crja72.ru/gospec/go5/pingpong/pkg/logger"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

type Server struct {
	grpcServer *grpc.Server
	listener   net.Listener
}

// NewGRPCServer builds a grpc.Server with the ping-pong service registered but not listening.
func NewGRPCServer(logger logger.Logger, dispatcher Dispatcher, opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts,
		grpc.ChainUnaryInterceptor(UnaryRequestIDInterceptor(logger)),
		grpc.ChainStreamInterceptor(StreamRequestIDInterceptor(logger)),
	)

	grpcServer := grpc.NewServer(opts...)
	RegisterPingPongServiceServer(grpcServer, NewPingPongService(logger, dispatcher))

	return grpcServer
}

func NewServer(ctx context.Context, logger logger.Logger, dispatcher Dispatcher, host string, port int) (*Server, error) {
	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%d", host, port))
	if err != nil {
		return nil, err
	}

	return &Server{NewGRPCServer(logger, dispatcher), lis}, nil
}

func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

func (s *Server) Start(ctx context.Context) error {
	eg := errgroup.Group{}

	eg.Go(func() error {
		return s.grpcServer.Serve(s.listener)
	})

	return eg.Wait()
}

func (s *Server) Stop(ctx context.Context) error {
	s.grpcServer.GracefulStop()

	return nil
}
