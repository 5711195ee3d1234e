package ports

import (
	"context"

	"washline/internal/core/domain/model/kernel"
	"washline/internal/core/domain/model/notification"
	"washline/internal/core/domain/model/order"
)

// EventPublisher pushes realtime events to connected clients.
// Publishing is fire-and-forget: a slow or absent subscriber never
// blocks or fails the business transaction.
type EventPublisher interface {
	// PublishStatusUpdated notifies subscribers watching the order that
	// its status changed.
	PublishStatusUpdated(orderID kernel.UUID, orderNumber string, status order.Status)

	// PublishLegAvailable notifies a courier that an order leg opened up
	// for acceptance.
	PublishLegAvailable(courierID, orderID kernel.UUID, orderNumber string, t notification.Type)
}

// OrderStreamProducer publishes order lifecycle events to the message
// broker for downstream consumers (analytics, billing).
type OrderStreamProducer interface {
	// ProduceOrderChanged emits an order-changed event with the order's
	// new status.
	ProduceOrderChanged(ctx context.Context, orderID kernel.UUID, orderNumber string, status order.Status) error
}
