package event

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okarpov/storecore/internal/domain"
	"github.com/okarpov/storecore/pkg/kafka"
	"github.com/okarpov/storecore/pkg/logger"
)

type capturingPublisher struct {
	topics []string
	keys   []string
	events []kafka.Event
	err    error
}

func (c *capturingPublisher) Publish(ctx context.Context, topic, key string, event kafka.Event) error {
	if c.err != nil {
		return c.err
	}
	c.topics = append(c.topics, topic)
	c.keys = append(c.keys, key)
	c.events = append(c.events, event)
	return nil
}

func TestProducer_OrderStatusChanged(t *testing.T) {
	pub := &capturingPublisher{}
	p := NewProducer(pub, logger.NewWithWriter("test", "error", io.Discard))

	order := &domain.Order{ID: 301, Status: domain.OrderStatusShipped}
	p.OrderStatusChanged(context.Background(), order, domain.OrderStatusPending)

	require.Len(t, pub.events, 1)
	assert.Equal(t, TopicOrderStatusChanged, pub.topics[0])
	assert.Equal(t, "301", pub.keys[0])

	var payload map[string]any
	require.NoError(t, pub.events[0].Decode(&payload))
	assert.Equal(t, "Pending", payload["previousStatus"])
	assert.Equal(t, "Shipped", payload["status"])
}

func TestProducer_NilPublisherIsNoop(t *testing.T) {
	p := NewProducer(nil, logger.NewWithWriter("test", "error", io.Discard))

	assert.NotPanics(t, func() {
		p.ProductCreated(context.Background(), &domain.Product{ID: 101})
	})

	var nilProducer *Producer
	assert.NotPanics(t, func() {
		nilProducer.ProductDeleted(context.Background(), 101)
	})
}

func TestProducer_PublishErrorDoesNotPropagate(t *testing.T) {
	pub := &capturingPublisher{err: errors.New("broker unavailable")}
	p := NewProducer(pub, logger.NewWithWriter("test", "error", io.Discard))

	assert.NotPanics(t, func() {
		p.OrderCreated(context.Background(), &domain.Order{ID: 301})
	})
}
