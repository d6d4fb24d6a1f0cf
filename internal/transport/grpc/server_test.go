package grpc_test

import (
	"context"
	"errors"
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.crja72.ru/gospec/go5/pingpong/internal/domain/pingpong"
	transport "gitlab.crja72.ru/gospec/go5/pingpong/internal/transport/grpc"
	"gitlab.crja72.ru/gospec/go5/pingpong/pkg/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const bufSize = 1024 * 1024

type failingDispatcher struct{}

func (failingDispatcher) Dispatch(context.Context, string) (pingpong.Response, error) {
	return "", errors.New("backend down")
}

func startServer(t *testing.T) (*transport.Client, *observer.ObservedLogs) {
	t.Helper()

	return startServerWith(t, func(l logger.Logger) transport.Dispatcher {
		return pingpong.NewInteractor(l, nil)
	})
}

func startServerWith(t *testing.T, newDispatcher func(logger.Logger) transport.Dispatcher) (*transport.Client, *observer.ObservedLogs) {
	t.Helper()

	core, logs := observer.New(zap.DebugLevel)
	testLogger := logger.NewWithZap(zap.New(core), "test")

	lis := bufconn.Listen(bufSize)
	grpcServer := transport.NewGRPCServer(testLogger, newDispatcher(testLogger))
	go func() {
		_ = grpcServer.Serve(lis)
	}()
	t.Cleanup(grpcServer.Stop)

	bufDialer := func(context.Context, string) (net.Conn, error) {
		return lis.Dial()
	}

	client, err := transport.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(bufDialer),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return client, logs
}

func TestSendPing(t *testing.T) {
	client, _ := startServer(t)

	resp, err := client.Send(context.Background(), "ping")
	require.NoError(t, err)
	assert.Equal(t, "Pong", resp)
}

func TestSendErrors(t *testing.T) {
	client, _ := startServer(t)

	_, err := client.Send(context.Background(), "")
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.Send(context.Background(), "echo")
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestSendForwardsRequestID(t *testing.T) {
	client, logs := startServer(t)

	ctx := logger.WithRequestID(context.Background(), "req-42")
	_, err := client.Send(ctx, "ping")
	require.NoError(t, err)

	entries := logs.FilterMessage("dispatched request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-42", entries[0].ContextMap()["requestID"])
}

func TestSendGeneratesRequestID(t *testing.T) {
	client, logs := startServer(t)

	_, err := client.Send(context.Background(), "ping")
	require.NoError(t, err)

	entries := logs.FilterMessage("dispatched request").All()
	require.Len(t, entries, 1)
	assert.NotEmpty(t, entries[0].ContextMap()["requestID"])
}

func TestPingPongStream(t *testing.T) {
	client, _ := startServer(t)

	stream, err := client.PingPong(context.Background())
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		require.NoError(t, stream.SendMsg(wrapperspb.String("ping")))

		pong := new(wrapperspb.StringValue)
		require.NoError(t, stream.RecvMsg(pong))
		require.Equal(t, "Pong", pong.GetValue())
	}

	require.NoError(t, stream.CloseSend())
	assert.Equal(t, io.EOF, stream.RecvMsg(new(wrapperspb.StringValue)))
}

func TestPingPongStreamUnknownKind(t *testing.T) {
	client, _ := startServer(t)

	stream, err := client.PingPong(context.Background())
	require.NoError(t, err)

	require.NoError(t, stream.SendMsg(wrapperspb.String("echo")))
	err = stream.RecvMsg(new(wrapperspb.StringValue))
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestSendRejectionLoggedOnce(t *testing.T) {
	client, logs := startServer(t)

	_, err := client.Send(context.Background(), "echo")
	require.Equal(t, codes.NotFound, status.Code(err))

	stream, err := client.PingPong(context.Background())
	require.NoError(t, err)
	require.NoError(t, stream.SendMsg(wrapperspb.String("")))
	err = stream.RecvMsg(new(wrapperspb.StringValue))
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	assert.Equal(t, 2, logs.FilterLevelExact(zap.WarnLevel).Len())
	assert.Equal(t, 0, logs.FilterLevelExact(zap.ErrorLevel).Len())
}

func TestSendInternalFailureLogged(t *testing.T) {
	client, logs := startServerWith(t, func(logger.Logger) transport.Dispatcher {
		return failingDispatcher{}
	})

	_, err := client.Send(context.Background(), "ping")
	assert.Equal(t, codes.Internal, status.Code(err))

	entries := logs.FilterLevelExact(zap.ErrorLevel).FilterMessage("request failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, transport.SendMethod, entries[0].ContextMap()["method"])
}

func TestPingPongStreamForwardsRequestID(t *testing.T) {
	client, logs := startServer(t)

	ctx := logger.WithRequestID(context.Background(), "stream-9")
	stream, err := client.PingPong(ctx)
	require.NoError(t, err)

	require.NoError(t, stream.SendMsg(wrapperspb.String("ping")))
	require.NoError(t, stream.RecvMsg(new(wrapperspb.StringValue)))
	require.NoError(t, stream.CloseSend())
	require.Equal(t, io.EOF, stream.RecvMsg(new(wrapperspb.StringValue)))

	entries := logs.FilterMessage("dispatched request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "stream-9", entries[0].ContextMap()["requestID"])
}

func TestServerStartStop(t *testing.T) {
	ctx := context.Background()
	testLogger := logger.NewWithZap(zap.NewNop(), "test")

	srv, err := transport.NewServer(ctx, testLogger, pingpong.NewInteractor(testLogger, nil), "localhost", 0)
	require.NoError(t, err)

	started := make(chan error, 1)
	go func() {
		started <- srv.Start(ctx)
	}()

	client, err := transport.NewClient(srv.Addr().String(),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	defer client.Close()

	resp, err := client.Send(ctx, "ping")
	require.NoError(t, err)
	assert.Equal(t, "Pong", resp)

	require.NoError(t, srv.Stop(ctx))
	assert.NoError(t, <-started)
}
