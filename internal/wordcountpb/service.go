package wordcountpb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const CounterServiceCountFullMethodName = "/wordgate.Counter/Count"

// CounterClient is the generated-shape client stub for the Counter
// service's single unary RPC.
type CounterClient interface {
	Count(ctx context.Context, in *WordCountRequest, opts ...grpc.CallOption) (*WordCountResponse, error)
}

type counterClient struct {
	cc grpc.ClientConnInterface
}

func NewCounterClient(cc grpc.ClientConnInterface) CounterClient {
	return &counterClient{cc: cc}
}

func (c *counterClient) Count(ctx context.Context, in *WordCountRequest, opts ...grpc.CallOption) (*WordCountResponse, error) {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	out := new(WordCountResponse)
	if err := c.cc.Invoke(ctx, CounterServiceCountFullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// CounterServer is the interface backend implementations satisfy.
type CounterServer interface {
	Count(context.Context, *WordCountRequest) (*WordCountResponse, error)
}

// UnimplementedCounterServer can be embedded for forward compatibility.
type UnimplementedCounterServer struct{}

func (UnimplementedCounterServer) Count(context.Context, *WordCountRequest) (*WordCountResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Count not implemented")
}

func RegisterCounterServer(s grpc.ServiceRegistrar, srv CounterServer) {
	s.RegisterService(&CounterServiceDesc, srv)
}

func _Counter_Count_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(WordCountRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CounterServer).Count(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: CounterServiceCountFullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CounterServer).Count(ctx, req.(*WordCountRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// CounterServiceDesc is the grpc.ServiceDesc for the Counter service, the
// shape protoc-gen-go-grpc would emit for a one-RPC service.
var CounterServiceDesc = grpc.ServiceDesc{
	ServiceName: "wordgate.Counter",
	HandlerType: (*CounterServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Count",
			Handler:    _Counter_Count_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "wordcount.proto",
}
