package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Both methods carry google.protobuf.StringValue: the request kind in, the response out.
const (
	ServiceName    = "pingpong.PingPongService"
	SendMethod     = "/" + ServiceName + "/Send"
	PingPongMethod = "/" + ServiceName + "/PingPong"
)

type PingPongServiceServer interface {
	Send(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
	PingPong(stream grpc.ServerStream) error
}

func sendHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PingPongServiceServer).Send(ctx, in)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: SendMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PingPongServiceServer).Send(ctx, req.(*wrapperspb.StringValue))
	}

	return interceptor(ctx, in, info, handler)
}

func pingPongHandler(srv interface{}, stream grpc.ServerStream) error {
	return srv.(PingPongServiceServer).PingPong(stream)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PingPongServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Send",
			Handler:    sendHandler,
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "PingPong",
			Handler:       pingPongHandler,
			ServerStreams: true,
			ClientStreams: true,
		},
	},
	Metadata: "pingpong.proto",
}

func RegisterPingPongServiceServer(s grpc.ServiceRegistrar, srv PingPongServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}
