package command

import (
	"context"
	"fmt"

	"github.com/tair/product-catalog/internal/product/domain"
	"github.com/tair/product-catalog/kafka"
	"github.com/tair/product-catalog/pkg/logger"
)

// CreateProductCommand represents the command to create a new product
type CreateProductCommand struct {
	ProductFields
}

// CreateProductHandler handles product creation command
type CreateProductHandler struct {
	repo      domain.ProductRepository
	publisher EventPublisher
}

// NewCreateProductHandler creates a new create product handler
func NewCreateProductHandler(repo domain.ProductRepository, publisher EventPublisher) *CreateProductHandler {
	return &CreateProductHandler{repo: repo, publisher: publisher}
}

// Handle validates and persists a new product. Invalid input yields a
// *domain.ValidationError and leaves the store untouched.
func (h *CreateProductHandler) Handle(ctx context.Context, cmd CreateProductCommand) (*domain.Product, error) {
	if err := Validate(cmd.ProductFields); err != nil {
		return nil, err
	}

	product := &domain.Product{}
	cmd.apply(product)

	if err := h.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	logger.Info(ctx).
		Uint("product_id", product.ID).
		Str("title", product.Title).
		Msg("Product created")

	publish(ctx, h.publisher, kafka.EventTypeProductCreated, *product)
	return product, nil
}
