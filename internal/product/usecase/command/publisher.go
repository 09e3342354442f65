package command

import (
	"context"

	"github.com/tair/product-catalog/internal/product/domain"
	"github.com/tair/product-catalog/kafka"
	"github.com/tair/product-catalog/pkg/logger"
)

// EventPublisher announces product changes
type EventPublisher interface {
	PublishProductEvent(ctx context.Context, event kafka.ProductEvent) error
}

// publish is best effort: the store write has already succeeded, so a broker
// failure is logged and swallowed.
func publish(ctx context.Context, pub EventPublisher, eventType string, p domain.Product) {
	if pub == nil {
		return
	}
	if err := pub.PublishProductEvent(ctx, kafka.NewProductEvent(eventType, p)); err != nil {
		logger.Warn(ctx).
			Err(err).
			Str("event_type", eventType).
			Uint("product_id", p.ID).
			Msg("Failed to publish product event")
	}
}
