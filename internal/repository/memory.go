package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/tuanvumaihuynh/catalog-service/internal/model"
)

var _ ProductRepository = (*MemoryProductRepository)(nil)

// MemoryProductRepository keeps products in process memory, in insertion order.
type MemoryProductRepository struct {
	mu       sync.RWMutex
	products []model.Product
	index    map[int64]int
	lastID   int64
	now      func() time.Time
}

func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		index: make(map[int64]int),
		now:   time.Now,
	}
}

func (r *MemoryProductRepository) CreateProduct(_ context.Context, product model.Product) (model.Product, error) {
	if err := checkRequired(product); err != nil {
		return model.Product{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastID++
	now := r.now()
	product.ID = r.lastID
	product.CreatedAt = now
	product.UpdatedAt = now

	stored := cloneProduct(product)
	r.index[stored.ID] = len(r.products)
	r.products = append(r.products, stored)

	return cloneProduct(stored), nil
}

func (r *MemoryProductRepository) ListAllProducts(_ context.Context) ([]model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		products = append(products, cloneProduct(p))
	}
	return products, nil
}

func (r *MemoryProductRepository) GetProductByID(_ context.Context, id int64) (model.Product, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return model.Product{}, false, nil
	}
	return cloneProduct(r.products[i]), true, nil
}

func (r *MemoryProductRepository) DeleteProductByID(_ context.Context, id int64) (model.Product, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return model.Product{}, false, nil
	}

	removed := r.products[i]
	r.products = slices.Delete(r.products, i, i+1)
	delete(r.index, id)
	for j := i; j < len(r.products); j++ {
		r.index[r.products[j].ID] = j
	}

	return removed, true, nil
}

func (r *MemoryProductRepository) DeleteAllProducts(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := int64(len(r.products))
	r.products = nil
	clear(r.index)
	return n, nil
}

func (r *MemoryProductRepository) CountProducts(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.products)), nil
}

func (r *MemoryProductRepository) IsHealthy(_ context.Context) (bool, error) {
	return true, nil
}

func cloneProduct(p model.Product) model.Product {
	p.Images = slices.Clone(p.Images)
	p.Tags = slices.Clone(p.Tags)
	return p
}
