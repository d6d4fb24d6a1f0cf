package grpc

import (
	"context"

	"gitlab.crja72.ru/gospec/go5/pingpong/pkg/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type Client struct {
	conn *grpc.ClientConn
}

func NewClient(target string, opts ...grpc.DialOption) (*Client, error) {
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, err
	}

	return &Client{conn: conn}, nil
}

func withRequestID(ctx context.Context) context.Context {
	if id, ok := logger.RequestIDFromCtx(ctx); ok {
		return metadata.AppendToOutgoingContext(ctx, RequestIDHeader, id)
	}

	return ctx
}

// Send forwards the request id stored in ctx, if any, as metadata.
func (c *Client) Send(ctx context.Context, kind string) (string, error) {
	ctx = withRequestID(ctx)

	out := new(wrapperspb.StringValue)
	if err := c.conn.Invoke(ctx, SendMethod, wrapperspb.String(kind), out); err != nil {
		return "", err
	}

	return out.GetValue(), nil
}

func (c *Client) PingPong(ctx context.Context) (grpc.ClientStream, error) {
	return c.conn.NewStream(withRequestID(ctx), &ServiceDesc.Streams[0], PingPongMethod)
}

func (c *Client) Close() error {
	return c.conn.Close()
}
