package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tair/product-catalog/internal/product/domain"
)

// updatableColumns are replaced wholesale by Update
var updatableColumns = []string{"title", "release_date", "genre", "price"}

type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Product{})
}

func (r *GormProductRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := r.db.WithContext(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, &domain.StorageError{Op: "find all", Err: err}
	}
	return products, nil
}

func (r *GormProductRepository) FindByID(ctx context.Context, id uint) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, &domain.StorageError{Op: "find by id", Err: err}
	}
	return &product, nil
}

func (r *GormProductRepository) Create(ctx context.Context, product *domain.Product) error {
	product.ID = 0
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return &domain.StorageError{Op: "create", Err: err}
	}
	return nil
}

func (r *GormProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if !product.IsPersisted() {
		return domain.ErrProductNotFound
	}
	res := r.db.WithContext(ctx).
		Model(&domain.Product{ID: product.ID}).
		Select(updatableColumns).
		Updates(product)
	if res.Error != nil {
		return &domain.StorageError{Op: "update", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *GormProductRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Product{}, id)
	if res.Error != nil {
		return &domain.StorageError{Op: "delete", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *GormProductRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Product{}).Count(&count).Error; err != nil {
		return 0, &domain.StorageError{Op: "count", Err: err}
	}
	return count, nil
}
