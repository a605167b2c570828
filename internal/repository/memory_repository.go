package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"product-stock/internal/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryProductRepository keeps products in process. All methods are safe
// for concurrent use.
type MemoryProductRepository struct {
	mu       sync.RWMutex
	products map[primitive.ObjectID]model.ProductRecord
}

func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[primitive.ObjectID]model.ProductRecord),
	}
}

func (r *MemoryProductRepository) Insert(_ context.Context, product *model.ProductRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product.ID = primitive.NewObjectID()
	r.products[product.ID] = *product
	return nil
}

// FindAll returns the page of products selected by q, ordered by id.
func (r *MemoryProductRepository) FindAll(_ context.Context, q model.ListQuery) ([]model.ProductRecord, error) {
	q = q.Normalize()
	search := strings.ToLower(q.Search)

	r.mu.RLock()
	matched := make([]model.ProductRecord, 0, len(r.products))
	for _, p := range r.products {
		if search == "" || strings.Contains(strings.ToLower(p.Name), search) {
			matched = append(matched, p)
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ID.Hex() < matched[j].ID.Hex()
	})
	if q.Skip >= len(matched) {
		return []model.ProductRecord{}, nil
	}
	matched = matched[q.Skip:]
	if len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	return matched, nil
}

func (r *MemoryProductRepository) FindByID(_ context.Context, id primitive.ObjectID) (*model.ProductRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return &p, nil
}

func (r *MemoryProductRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

// ReduceStock holds the write lock across check and decrement.
func (r *MemoryProductRepository) ReduceStock(_ context.Context, id primitive.ObjectID, quantity int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.products[id]
	if !ok {
		return false, ErrProductNotFound
	}
	product := rec.Product()
	if !product.ReduceStock(quantity) {
		return false, nil
	}
	r.products[id] = model.Record(id, product)
	return true, nil
}

func (r *MemoryProductRepository) Ping(_ context.Context) error {
	return nil
}
