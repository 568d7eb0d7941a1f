// Package event publishes domain events to kafka. Publishing is
// fire-and-forget: failures are logged and never fail the triggering
// operation.
package event

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/okarpov/storecore/internal/domain"
	"github.com/okarpov/storecore/pkg/kafka"
)

const source = "storecore"

// Topic names for domain events.
const (
	TopicProductCreated     = "storecore.product.created"
	TopicProductUpdated     = "storecore.product.updated"
	TopicProductDeleted     = "storecore.product.deleted"
	TopicInventoryUpdated   = "storecore.inventory.updated"
	TopicCustomerCreated    = "storecore.customer.created"
	TopicOrderCreated       = "storecore.order.created"
	TopicOrderStatusChanged = "storecore.order.status_changed"
	TopicOrderCancelled     = "storecore.order.cancelled"
	TopicReviewCreated      = "storecore.review.created"
)

type publisher interface {
	Publish(ctx context.Context, topic, key string, event kafka.Event) error
}

// Producer emits domain events. A nil Producer (or one created with a
// nil publisher) is a no-op, which lets deployments run without kafka.
type Producer struct {
	pub publisher
	log *slog.Logger
}

// NewProducer creates a domain event producer. pub may be nil to disable
// event publishing.
func NewProducer(pub publisher, log *slog.Logger) *Producer {
	return &Producer{pub: pub, log: log}
}

func (p *Producer) emit(ctx context.Context, topic string, entityID int64, eventType string, payload any) {
	if p == nil || p.pub == nil {
		return
	}

	ev, err := kafka.NewEvent(eventType, source, payload)
	if err != nil {
		p.log.ErrorContext(ctx, "building event",
			slog.String("topic", topic), slog.String("error", err.Error()))
		return
	}

	if err := p.pub.Publish(ctx, topic, strconv.FormatInt(entityID, 10), ev); err != nil {
		p.log.ErrorContext(ctx, "publishing event",
			slog.String("topic", topic),
			slog.String("event_type", eventType),
			slog.String("error", err.Error()))
	}
}

func (p *Producer) ProductCreated(ctx context.Context, product *domain.Product) {
	p.emit(ctx, TopicProductCreated, product.ID, "product.created", product)
}

func (p *Producer) ProductUpdated(ctx context.Context, product *domain.Product) {
	p.emit(ctx, TopicProductUpdated, product.ID, "product.updated", product)
}

func (p *Producer) ProductDeleted(ctx context.Context, productID int64) {
	p.emit(ctx, TopicProductDeleted, productID, "product.deleted", map[string]int64{"productId": productID})
}

// InventoryUpdated reports a stock level change from a reservation or
// restoration.
func (p *Producer) InventoryUpdated(ctx context.Context, productID int64, stock int) {
	p.emit(ctx, TopicInventoryUpdated, productID, "inventory.updated", map[string]any{
		"productId": productID,
		"stock":     stock,
	})
}

func (p *Producer) CustomerCreated(ctx context.Context, customer *domain.Customer) {
	p.emit(ctx, TopicCustomerCreated, customer.ID, "customer.created", customer)
}

func (p *Producer) OrderCreated(ctx context.Context, order *domain.Order) {
	p.emit(ctx, TopicOrderCreated, order.ID, "order.created", order)
}

func (p *Producer) OrderStatusChanged(ctx context.Context, order *domain.Order, previous domain.OrderStatus) {
	p.emit(ctx, TopicOrderStatusChanged, order.ID, "order.status_changed", map[string]any{
		"orderId":        order.ID,
		"previousStatus": previous,
		"status":         order.Status,
	})
}

func (p *Producer) OrderCancelled(ctx context.Context, order *domain.Order) {
	p.emit(ctx, TopicOrderCancelled, order.ID, "order.cancelled", order)
}

func (p *Producer) ReviewCreated(ctx context.Context, review *domain.Review) {
	p.emit(ctx, TopicReviewCreated, review.ID, "review.created", review)
}
