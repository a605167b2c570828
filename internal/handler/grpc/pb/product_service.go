// Package pb describes the product.v1.ProductService gRPC contract. Messages
// are protobuf well-known types so no generated code is required.
package pb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ServiceName = "product.v1.ProductService"

const (
	ProductService_GetAll_FullMethodName            = "/" + ServiceName + "/GetAll"
	ProductService_GetByID_FullMethodName           = "/" + ServiceName + "/GetByID"
	ProductService_Create_FullMethodName            = "/" + ServiceName + "/Create"
	ProductService_Delete_FullMethodName            = "/" + ServiceName + "/Delete"
	ProductService_ReduceStock_FullMethodName       = "/" + ServiceName + "/ReduceStock"
	ProductService_CalculateDiscount_FullMethodName = "/" + ServiceName + "/CalculateDiscount"
)

type ProductServiceServer interface {
	GetAll(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetByID(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	Create(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Delete(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
	ReduceStock(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CalculateDiscount(context.Context, *structpb.Struct) (*wrapperspb.DoubleValue, error)
}

// UnimplementedProductServiceServer can be embedded to satisfy ProductServiceServer.
type UnimplementedProductServiceServer struct{}

func (UnimplementedProductServiceServer) GetAll(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetAll not implemented")
}
func (UnimplementedProductServiceServer) GetByID(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetByID not implemented")
}
func (UnimplementedProductServiceServer) Create(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Create not implemented")
}
func (UnimplementedProductServiceServer) Delete(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method Delete not implemented")
}
func (UnimplementedProductServiceServer) ReduceStock(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method ReduceStock not implemented")
}
func (UnimplementedProductServiceServer) CalculateDiscount(context.Context, *structpb.Struct) (*wrapperspb.DoubleValue, error) {
	return nil, status.Error(codes.Unimplemented, "method CalculateDiscount not implemented")
}

func unaryHandler[Req, Resp proto.Message](
	fullMethod string,
	newReq func() Req,
	call func(ProductServiceServer, context.Context, Req) (Resp, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := newReq()
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ProductServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ProductServiceServer), ctx, req.(Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func newString() *wrapperspb.StringValue { return new(wrapperspb.StringValue) }
func newStruct() *structpb.Struct { return new(structpb.Struct) }

var ProductService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ProductServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetAll", Handler: unaryHandler(ProductService_GetAll_FullMethodName, newStruct, ProductServiceServer.GetAll)},
		{MethodName: "GetByID", Handler: unaryHandler(ProductService_GetByID_FullMethodName, newString, ProductServiceServer.GetByID)},
		{MethodName: "Create", Handler: unaryHandler(ProductService_Create_FullMethodName, newStruct, ProductServiceServer.Create)},
		{MethodName: "Delete", Handler: unaryHandler(ProductService_Delete_FullMethodName, newString, ProductServiceServer.Delete)},
		{MethodName: "ReduceStock", Handler: unaryHandler(ProductService_ReduceStock_FullMethodName, newStruct, ProductServiceServer.ReduceStock)},
		{MethodName: "CalculateDiscount", Handler: unaryHandler(ProductService_CalculateDiscount_FullMethodName, newStruct, ProductServiceServer.CalculateDiscount)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "product/v1/product_service.proto",
}

func RegisterProductServiceServer(s grpc.ServiceRegistrar, srv ProductServiceServer) {
	s.RegisterService(&ProductService_ServiceDesc, srv)
}

type ProductServiceClient interface {
	GetAll(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetByID(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	Create(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Delete(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*emptypb.Empty, error)
	ReduceStock(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	CalculateDiscount(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.DoubleValue, error)
}

type productServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewProductServiceClient(cc grpc.ClientConnInterface) ProductServiceClient {
	return &productServiceClient{cc}
}

func invoke[Resp proto.Message](ctx context.Context, cc grpc.ClientConnInterface, method string, in proto.Message, out Resp, opts []grpc.CallOption) (Resp, error) {
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		var zero Resp
		return zero, err
	}
	return out, nil
}

func (c *productServiceClient) GetAll(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, ProductService_GetAll_FullMethodName, in, new(structpb.Struct), opts)
}

func (c *productServiceClient) GetByID(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, ProductService_GetByID_FullMethodName, in, new(structpb.Struct), opts)
}

func (c *productServiceClient) Create(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, ProductService_Create_FullMethodName, in, new(structpb.Struct), opts)
}

func (c *productServiceClient) Delete(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke(ctx, c.cc, ProductService_Delete_FullMethodName, in, new(emptypb.Empty), opts)
}

func (c *productServiceClient) ReduceStock(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, ProductService_ReduceStock_FullMethodName, in, new(structpb.Struct), opts)
}

func (c *productServiceClient) CalculateDiscount(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.DoubleValue, error) {
	return invoke(ctx, c.cc, ProductService_CalculateDiscount_FullMethodName, in, new(wrapperspb.DoubleValue), opts)
}
