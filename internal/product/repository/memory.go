package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/tair/product-catalog/internal/product/domain"
)

// MemoryProductRepository keeps products in process memory. It backs the
// STORAGE=memory mode and the use-case tests.
type MemoryProductRepository struct {
	mu       sync.RWMutex
	nextID   uint
	products map[uint]domain.Product
}

func NewMemoryProductRepository(seed ...domain.Product) *MemoryProductRepository {
	r := &MemoryProductRepository{products: make(map[uint]domain.Product)}
	for _, p := range seed {
		p := p
		_ = r.Create(context.Background(), &p)
	}
	return r
}

func (r *MemoryProductRepository) FindAll(_ context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

func (r *MemoryProductRepository) FindByID(_ context.Context, id uint) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &p, nil
}

func (r *MemoryProductRepository) Create(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	product.ID = r.nextID
	r.products[product.ID] = *product
	return nil
}

func (r *MemoryProductRepository) Update(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[product.ID]
	if !product.IsPersisted() || !ok {
		return domain.ErrProductNotFound
	}
	existing.Title = product.Title
	existing.ReleaseDate = product.ReleaseDate
	existing.Genre = product.Genre
	existing.Price = product.Price
	r.products[product.ID] = existing
	return nil
}

func (r *MemoryProductRepository) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *MemoryProductRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.products)), nil
}
