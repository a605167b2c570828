package service

import (
	"context"
	"errors"
	"fmt"

	"product-stock/internal/logger"
	"product-stock/internal/metrics"
	"product-stock/internal/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var ErrInvalidID = errors.New("invalid ID format")

// ProductStore is the persistence the service needs. Implementations must
// make ReduceStock atomic with respect to concurrent callers.
type ProductStore interface {
	Insert(ctx context.Context, product *model.ProductRecord) error
	FindAll(ctx context.Context, q model.ListQuery) ([]model.ProductRecord, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.ProductRecord, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	ReduceStock(ctx context.Context, id primitive.ObjectID, quantity int) (bool, error)
}

type ProductService struct {
	repo ProductStore
}

var ProductServiceTracer = otel.Tracer("ProductService")

func NewProductService(repo ProductStore) *ProductService {
	return &ProductService{repo: repo}
}

func parseID(id string) (primitive.ObjectID, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return objID, nil
}

// Create stores a new product exactly as given; no field is validated.
func (s *ProductService) Create(ctx context.Context, name string, price float64, stock int) (*model.ProductRecord, error) {
	ctx, span := ProductServiceTracer.Start(ctx, "ProductService.Create")
	defer span.End()

	rec := model.Record(primitive.NilObjectID, model.NewProduct(name, price, stock))
	if err := s.repo.Insert(ctx, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetAll lists products matching q. Paging bounds are normalized by the store.
func (s *ProductService) GetAll(ctx context.Context, q model.ListQuery) ([]model.ProductRecord, error) {
	ctx, span := ProductServiceTracer.Start(ctx, "ProductService.GetAll")
	defer span.End()

	return s.repo.FindAll(ctx, q)
}

func (s *ProductService) GetByID(ctx context.Context, id string) (*model.ProductRecord, error) {
	ctx, span := ProductServiceTracer.Start(ctx, "ProductService.GetByID")
	defer span.End()

	objID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, objID)
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	ctx, span := ProductServiceTracer.Start(ctx, "ProductService.Delete")
	defer span.End()

	objID, err := parseID(id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, objID)
}

// ReduceStock reports false without error when the quantity is not positive
// or exceeds the available stock. The returned record reflects the stock
// after the attempt. An error after a successful reduction comes only from
// re-reading the record; the stock has already been taken.
func (s *ProductService) ReduceStock(ctx context.Context, id string, quantity int) (bool, *model.ProductRecord, error) {
	ctx, span := ProductServiceTracer.Start(ctx, "ProductService.ReduceStock")
	defer span.End()
	span.SetAttributes(attribute.String("product.id", id), attribute.Int("product.quantity", quantity))

	objID, err := parseID(id)
	if err != nil {
		metrics.StockReductions.WithLabelValues(metrics.ResultError).Inc()
		return false, nil, err
	}

	ok, err := s.repo.ReduceStock(ctx, objID, quantity)
	if err != nil {
		metrics.StockReductions.WithLabelValues(metrics.ResultError).Inc()
		return false, nil, err
	}

	if ok {
		metrics.StockReductions.WithLabelValues(metrics.ResultSuccess).Inc()
	} else {
		metrics.StockReductions.WithLabelValues(metrics.ResultRejected).Inc()
	}

	rec, err := s.repo.FindByID(ctx, objID)
	if err != nil {
		return ok, nil, err
	}
	if !ok {
		logger.Info(ctx, "Stock reduction rejected", logger.Stock(id, quantity, rec.Stock))
	}
	return ok, rec, nil
}

// CalculateDiscount returns the product it priced along with the discounted
// price, or model.ErrInvalidDiscount for percentages outside [0, 100].
func (s *ProductService) CalculateDiscount(ctx context.Context, id string, percentage float64) (*model.ProductRecord, float64, error) {
	ctx, span := ProductServiceTracer.Start(ctx, "ProductService.CalculateDiscount")
	defer span.End()
	span.SetAttributes(attribute.String("product.id", id), attribute.Float64("discount.percentage", percentage))

	objID, err := parseID(id)
	if err != nil {
		metrics.DiscountRequests.WithLabelValues(metrics.ResultError).Inc()
		return nil, 0, err
	}
	rec, err := s.repo.FindByID(ctx, objID)
	if err != nil {
		metrics.DiscountRequests.WithLabelValues(metrics.ResultError).Inc()
		return nil, 0, err
	}

	discounted, err := rec.Product().CalculateDiscount(percentage)
	if err != nil {
		metrics.DiscountRequests.WithLabelValues(metrics.ResultRejected).Inc()
		return nil, 0, err
	}
	metrics.DiscountRequests.WithLabelValues(metrics.ResultSuccess).Inc()
	return rec, discounted, nil
}
