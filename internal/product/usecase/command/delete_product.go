package command

import (
	"context"
	"fmt"

	"github.com/tair/product-catalog/internal/product/domain"
	"github.com/tair/product-catalog/kafka"
	"github.com/tair/product-catalog/pkg/logger"
)

// DeleteProductCommand represents the command to delete a product
type DeleteProductCommand struct {
	ID uint
}

// DeleteProductHandler handles product deletion command
type DeleteProductHandler struct {
	repo      domain.ProductRepository
	publisher EventPublisher
}

// NewDeleteProductHandler creates a new delete product handler
func NewDeleteProductHandler(repo domain.ProductRepository, publisher EventPublisher) *DeleteProductHandler {
	return &DeleteProductHandler{repo: repo, publisher: publisher}
}

// Handle executes the delete product command
func (h *DeleteProductHandler) Handle(ctx context.Context, cmd DeleteProductCommand) error {
	if err := h.repo.Delete(ctx, cmd.ID); err != nil {
		return fmt.Errorf("failed to delete product %d: %w", cmd.ID, err)
	}

	logger.Info(ctx).Uint("product_id", cmd.ID).Msg("Product deleted")

	publish(ctx, h.publisher, kafka.EventTypeProductDeleted, domain.Product{ID: cmd.ID})
	return nil
}
