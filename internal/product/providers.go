package product

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/tair/product-catalog/internal/product/domain"
	"github.com/tair/product-catalog/internal/product/repository"
	"github.com/tair/product-catalog/internal/product/usecase/command"
	"github.com/tair/product-catalog/internal/product/usecase/query"
)

// ProvideGormRepository migrates the products table and returns the traced gorm store
func ProvideGormRepository(db *gorm.DB) (domain.ProductRepository, error) {
	repo := repository.NewGormProductRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate products: %w", err)
	}
	return repository.NewTracingProductRepository(repo), nil
}

// ProvideMemoryRepository returns the traced in-process store
func ProvideMemoryRepository(seed ...domain.Product) domain.ProductRepository {
	return repository.NewTracingProductRepository(repository.NewMemoryProductRepository(seed...))
}

// Command Handlers Providers
func ProvideCreateProductHandler(repo domain.ProductRepository, publisher command.EventPublisher) *command.CreateProductHandler {
	return command.NewCreateProductHandler(repo, publisher)
}

func ProvideUpdateProductHandler(repo domain.ProductRepository, publisher command.EventPublisher) *command.UpdateProductHandler {
	return command.NewUpdateProductHandler(repo, publisher)
}

func ProvideDeleteProductHandler(repo domain.ProductRepository, publisher command.EventPublisher) *command.DeleteProductHandler {
	return command.NewDeleteProductHandler(repo, publisher)
}

// Query Handlers Providers
func ProvideGetProductHandler(repo domain.ProductRepository) *query.GetProductHandler {
	return query.NewGetProductHandler(repo)
}

func ProvideListProductsHandler(repo domain.ProductRepository) *query.ListProductsHandler {
	return query.NewListProductsHandler(repo)
}

func ProvideListByGenreHandler(repo domain.ProductRepository) *query.ListByGenreHandler {
	return query.NewListByGenreHandler(repo)
}

func ProvideListByReleaseDateHandler(repo domain.ProductRepository) *query.ListByReleaseDateHandler {
	return query.NewListByReleaseDateHandler(repo)
}
