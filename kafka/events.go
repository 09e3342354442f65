package kafka

import (
	"context"
	"time"

	"github.com/tair/product-catalog/internal/product/domain"
)

// ProductEvent announces a change to a catalog product
type ProductEvent struct {
	EventID     string    `json:"event_id"`
	EventType   string    `json:"event_type"`
	ProductID   uint      `json:"product_id"`
	Title       string    `json:"title,omitempty"`
	Genre       string    `json:"genre,omitempty"`
	ReleaseDate string    `json:"release_date,omitempty"`
	Price       string    `json:"price,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeProductCreated = "product.created"
	EventTypeProductUpdated = "product.updated"
	EventTypeProductDeleted = "product.deleted"
)

// Kafka topics
const (
	TopicProductEvents = "product-events"
)

// NewProductEvent snapshots p into an event of the given type
func NewProductEvent(eventType string, p domain.Product) ProductEvent {
	ev := ProductEvent{
		EventType: eventType,
		ProductID: p.ID,
		Title:     p.Title,
		Genre:     p.Genre,
	}
	if !p.ReleaseDate.IsZero() {
		ev.ReleaseDate = p.ReleaseDate.Format(time.DateOnly)
	}
	if eventType != EventTypeProductDeleted {
		ev.Price = p.Price.StringFixed(2)
	}
	return ev
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishProductEvent(context.Context, ProductEvent) error { return nil }

func (NopPublisher) Close() error { return nil }
