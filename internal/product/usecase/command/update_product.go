package command

import (
	"context"
	"fmt"

	"github.com/tair/product-catalog/internal/product/domain"
	"github.com/tair/product-catalog/kafka"
	"github.com/tair/product-catalog/pkg/logger"
)

// UpdateProductCommand represents the command to update a product
type UpdateProductCommand struct {
	ID uint
	ProductFields
}

// UpdateProductHandler handles product update command
type UpdateProductHandler struct {
	repo      domain.ProductRepository
	publisher EventPublisher
}

// NewUpdateProductHandler creates a new update product handler
func NewUpdateProductHandler(repo domain.ProductRepository, publisher EventPublisher) *UpdateProductHandler {
	return &UpdateProductHandler{repo: repo, publisher: publisher}
}

// Handle replaces every editable field of the product with cmd.ID
func (h *UpdateProductHandler) Handle(ctx context.Context, cmd UpdateProductCommand) (*domain.Product, error) {
	if err := Validate(cmd.ProductFields); err != nil {
		return nil, err
	}

	product := &domain.Product{ID: cmd.ID}
	cmd.apply(product)

	if err := h.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product %d: %w", cmd.ID, err)
	}

	logger.Info(ctx).Uint("product_id", product.ID).Msg("Product updated")

	publish(ctx, h.publisher, kafka.EventTypeProductUpdated, *product)
	return product, nil
}
