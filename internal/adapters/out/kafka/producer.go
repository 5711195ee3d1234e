// Package kafka publishes order lifecycle events to the message broker for
// downstream consumers such as analytics and billing.
package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"washline/internal/core/domain/model/kernel"
	"washline/internal/core/domain/model/order"
)

// OrderChangedEvent is the wire format of an order lifecycle event.
// Keyed by order id so all events of one order land on one partition,
// preserving their relative order.
type OrderChangedEvent struct {
	OrderID     string    `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Status      string    `json:"status"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// OrderProducer implements OrderStreamProducer on a kafka-go Writer.
type OrderProducer struct {
	writer *kafka.Writer
}

// NewOrderProducer creates a producer writing to the given broker and topic.
func NewOrderProducer(address, topic string) *OrderProducer {
	return &OrderProducer{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(address),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
	}
}

// ProduceOrderChanged emits an order-changed event with the order's new status.
func (p *OrderProducer) ProduceOrderChanged(ctx context.Context, orderID kernel.UUID, orderNumber string, status order.Status) error {
	event := OrderChangedEvent{
		OrderID:     orderID.String(),
		OrderNumber: orderNumber,
		Status:      status.String(),
		OccurredAt:  time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(orderID.String()),
		Value: payload,
	})
}

// Close releases the underlying writer.
func (p *OrderProducer) Close() error {
	return p.writer.Close()
}
