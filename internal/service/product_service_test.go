package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"product-stock/internal/metrics"
	"product-stock/internal/model"
	"product-stock/internal/repository"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newService(t *testing.T) (*ProductService, string) {
	t.Helper()
	svc := NewProductService(repository.NewMemoryProductRepository())
	rec, err := svc.Create(context.Background(), "Laptop", 1000.0, 10)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return svc, rec.ID.Hex()
}

func TestCreateKeepsValuesVerbatim(t *testing.T) {
	svc := NewProductService(repository.NewMemoryProductRepository())
	rec, err := svc.Create(context.Background(), "", -1, -5)
	if err != nil {
		t.Fatalf("expected permissive create, got %v", err)
	}
	if rec.Name != "" || rec.Price != -1 || rec.Stock != -5 || rec.ID.IsZero() {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestGetByIDInvalidID(t *testing.T) {
	svc, _ := newService(t)
	if _, err := svc.GetByID(context.Background(), "not-an-id"); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
	if err := svc.Delete(context.Background(), "zzz"); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestGetAllAndDelete(t *testing.T) {
	ctx := context.Background()
	svc, id := newService(t)

	all, err := svc.GetAll(ctx, model.ListQuery{})
	if err != nil || len(all) != 1 {
		t.Fatalf("expected one product, got %v %v", all, err)
	}
	if err := svc.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetByID(ctx, id); !errors.Is(err, repository.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestReduceStock(t *testing.T) {
	ctx := context.Background()
	svc, id := newService(t)

	ok, rec, err := svc.ReduceStock(ctx, id, 5)
	if err != nil || !ok || rec.Stock != 5 {
		t.Fatalf("expected success with stock 5, got %v %+v %v", ok, rec, err)
	}

	ok, rec, err = svc.ReduceStock(ctx, id, -1)
	if err != nil || ok || rec.Stock != 5 {
		t.Fatalf("expected rejection with stock 5, got %v %+v %v", ok, rec, err)
	}

	ok, rec, err = svc.ReduceStock(ctx, id, 15)
	if err != nil || ok || rec.Stock != 5 {
		t.Fatalf("expected rejection with stock 5, got %v %+v %v", ok, rec, err)
	}
}

func TestReduceStockErrors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	if _, _, err := svc.ReduceStock(ctx, "bad", 1); !errors.Is(err, ErrInvalidID) {
		t.Errorf("expected ErrInvalidID, got %v", err)
	}
	missing := primitive.NewObjectID().Hex()
	if _, _, err := svc.ReduceStock(ctx, missing, 1); !errors.Is(err, repository.ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}

func TestCalculateDiscount(t *testing.T) {
	ctx := context.Background()
	svc, id := newService(t)

	priced, got, err := svc.CalculateDiscount(ctx, id, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got-900) > 0.001 || priced.Price != 1000.0 {
		t.Fatalf("expected 900 off 1000, got %v off %v", got, priced.Price)
	}

	for _, pct := range []float64{-10, 110} {
		_, _, err := svc.CalculateDiscount(ctx, id, pct)
		if !errors.Is(err, model.ErrInvalidArgument) {
			t.Errorf("percentage %v: expected invalid argument, got %v", pct, err)
		}
	}

	rec, _ := svc.GetByID(ctx, id)
	if rec.Price != 1000.0 {
		t.Fatalf("price changed to %v", rec.Price)
	}
}

func TestGetAllSearchAndPaging(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	for _, name := range []string{"Gaming Laptop", "Mouse"} {
		if _, err := svc.Create(ctx, name, 10, 1); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	got, err := svc.GetAll(ctx, model.ListQuery{Search: "LAPTOP"})
	if err != nil || len(got) != 2 {
		t.Fatalf("expected two laptops, got %v %v", got, err)
	}
	got, err = svc.GetAll(ctx, model.ListQuery{Skip: 1, Limit: 1})
	if err != nil || len(got) != 1 || got[0].Name != "Gaming Laptop" {
		t.Fatalf("expected the second product only, got %v %v", got, err)
	}
}

// countingStore counts FindByID calls made through the service.
type countingStore struct {
	ProductStore
	finds int
}

func (c *countingStore) FindByID(ctx context.Context, id primitive.ObjectID) (*model.ProductRecord, error) {
	c.finds++
	return c.ProductStore.FindByID(ctx, id)
}

func TestCalculateDiscountReadsOnce(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{ProductStore: repository.NewMemoryProductRepository()}
	svc := NewProductService(store)
	rec, err := svc.Create(ctx, "Laptop", 1000, 10)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, _, err := svc.CalculateDiscount(ctx, rec.ID.Hex(), 50); err != nil {
		t.Fatalf("discount: %v", err)
	}
	if store.finds != 1 {
		t.Fatalf("expected one store read, got %d", store.finds)
	}
}

// vanishingStore reduces stock successfully but loses the record before it can be re-read.
type vanishingStore struct {
	ProductStore
}

func (vanishingStore) ReduceStock(context.Context, primitive.ObjectID, int) (bool, error) {
	return true, nil
}

func (vanishingStore) FindByID(context.Context, primitive.ObjectID) (*model.ProductRecord, error) {
	return nil, repository.ErrProductNotFound
}

func TestReduceStockCountsSuccessBeforeReread(t *testing.T) {
	svc := NewProductService(vanishingStore{})
	before := testutil.ToFloat64(metrics.StockReductions.WithLabelValues(metrics.ResultSuccess))

	ok, rec, err := svc.ReduceStock(context.Background(), primitive.NewObjectID().Hex(), 1)
	if !ok || rec != nil || !errors.Is(err, repository.ErrProductNotFound) {
		t.Fatalf("expected success flag with re-read error, got %v %+v %v", ok, rec, err)
	}
	after := testutil.ToFloat64(metrics.StockReductions.WithLabelValues(metrics.ResultSuccess))
	if after-before != 1 {
		t.Fatalf("expected the success counter to move by 1, moved by %v", after-before)
	}
}

type failingStore struct {
	ProductStore
	err error
}

func (f failingStore) ReduceStock(context.Context, primitive.ObjectID, int) (bool, error) {
	return false, f.err
}

func (f failingStore) Ping(context.Context) error {
	return f.err
}

func TestReduceStockPropagatesStoreError(t *testing.T) {
	boom := errors.New("connection reset")
	svc := NewProductService(failingStore{err: boom})

	_, _, err := svc.ReduceStock(context.Background(), primitive.NewObjectID().Hex(), 1)
	if !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestHealthCheck(t *testing.T) {
	up := NewHealthService(repository.NewMemoryProductRepository()).Check(context.Background())
	if up.Store != StatusUp {
		t.Errorf("expected UP, got %s", up.Store)
	}

	down := NewHealthService(failingStore{err: errors.New("no route")}).Check(context.Background())
	if down.Store != StatusDown {
		t.Errorf("expected DOWN, got %s", down.Store)
	}
}
