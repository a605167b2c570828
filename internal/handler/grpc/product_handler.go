package grpc

import (
	"context"
	"errors"

	pb "product-stock/internal/handler/grpc/pb"
	"product-stock/internal/logger"
	"product-stock/internal/model"
	"product-stock/internal/repository"
	"product-stock/internal/service"
	"product-stock/internal/utils"

	"go.opentelemetry.io/otel"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type ProductGRPCHandler struct {
	pb.UnimplementedProductServiceServer
	Service *service.ProductService
}

var GrpcProductHandlerTracer = otel.Tracer("GrpcProductHandler")

func NewProductGRPCHandler(svc *service.ProductService) *ProductGRPCHandler {
	return &ProductGRPCHandler{
		Service: svc,
	}
}

// toStatus maps service errors onto gRPC status codes.
func toStatus(err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidID),
		errors.Is(err, model.ErrInvalidArgument),
		errors.Is(err, pb.ErrBadMessage):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, repository.ErrProductNotFound):
		return status.Error(codes.NotFound, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

func toPB(rec model.ProductRecord) pb.Product {
	return pb.Product{
		ID:    rec.ID.Hex(),
		Name:  rec.Name,
		Price: rec.Price,
		Stock: rec.Stock,
	}
}

func (h *ProductGRPCHandler) GetAll(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ctx, span := GrpcProductHandlerTracer.Start(ctx, "GrpcProductHandler.GetAll")
	defer span.End()
	logger.Info(ctx, "GrpcProductHandler.GetAll")

	in, err := pb.ParseListRequest(req)
	if err != nil {
		return nil, toStatus(err)
	}

	products, err := h.Service.GetAll(ctx, model.ListQuery{Search: in.Search, Skip: in.Skip, Limit: in.Limit})
	if err != nil {
		return nil, toStatus(err)
	}

	list := pb.ProductList{Resolver: utils.GetHost()}
	for _, p := range products {
		list.Products = append(list.Products, toPB(p))
	}
	return list.Struct()
}

func (h *ProductGRPCHandler) GetByID(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	ctx, span := GrpcProductHandlerTracer.Start(ctx, "GrpcProductHandler.GetByID")
	defer span.End()
	logger.Info(ctx, "GrpcProductHandler.GetByID")

	product, err := h.Service.GetByID(ctx, req.GetValue())
	if err != nil {
		return nil, toStatus(err)
	}
	return toPB(*product).Struct()
}

func (h *ProductGRPCHandler) Create(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ctx, span := GrpcProductHandlerTracer.Start(ctx, "GrpcProductHandler.Create")
	defer span.End()
	logger.Info(ctx, "GrpcProductHandler.Create")

	in, err := pb.ParseProduct(req)
	if err != nil {
		return nil, toStatus(err)
	}

	created, err := h.Service.Create(ctx, in.Name, in.Price, in.Stock)
	if err != nil {
		return nil, toStatus(err)
	}
	return toPB(*created).Struct()
}

func (h *ProductGRPCHandler) Delete(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {
	ctx, span := GrpcProductHandlerTracer.Start(ctx, "GrpcProductHandler.Delete")
	defer span.End()
	logger.Info(ctx, "GrpcProductHandler.Delete")

	if err := h.Service.Delete(ctx, req.GetValue()); err != nil {
		return nil, toStatus(err)
	}
	return &emptypb.Empty{}, nil
}

// ReduceStock returns OK for both outcomes; "success" carries the result.
func (h *ProductGRPCHandler) ReduceStock(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ctx, span := GrpcProductHandlerTracer.Start(ctx, "GrpcProductHandler.ReduceStock")
	defer span.End()
	logger.Info(ctx, "GrpcProductHandler.ReduceStock")

	in, err := pb.ParseReduceStockRequest(req)
	if err != nil {
		return nil, toStatus(err)
	}

	ok, product, err := h.Service.ReduceStock(ctx, in.ID, in.Quantity)
	if err != nil {
		return nil, toStatus(err)
	}
	return pb.ReduceStockResult{Success: ok, Stock: product.Stock}.Struct()
}

func (h *ProductGRPCHandler) CalculateDiscount(ctx context.Context, req *structpb.Struct) (*wrapperspb.DoubleValue, error) {
	ctx, span := GrpcProductHandlerTracer.Start(ctx, "GrpcProductHandler.CalculateDiscount")
	defer span.End()
	logger.Info(ctx, "GrpcProductHandler.CalculateDiscount")

	in, err := pb.ParseDiscountRequest(req)
	if err != nil {
		return nil, toStatus(err)
	}

	_, discounted, err := h.Service.CalculateDiscount(ctx, in.ID, in.Percentage)
	if err != nil {
		return nil, toStatus(err)
	}
	return wrapperspb.Double(discounted), nil
}
