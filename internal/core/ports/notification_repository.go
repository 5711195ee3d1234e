package ports

import (
	"context"

	"washline/internal/core/domain/model/kernel"
	"washline/internal/core/domain/model/notification"
)

// NotificationRepository defines the persistence contract for acceptance
// notifications. The storage layer enforces the fanout and acceptance
// uniqueness rules, so Add is safe to call repeatedly for the same
// (order, type, courier) triple.
type NotificationRepository interface {
	// Add persists a new notification. Re-sending the same pending
	// notification to the same courier is a no-op rather than an error.
	Add(ctx context.Context, aggregate *notification.Notification) error

	// Update persists changes to an existing notification.
	Update(ctx context.Context, aggregate *notification.Notification) error

	// Get retrieves the notification of the given type sent to the given
	// courier for the given order.
	Get(ctx context.Context, orderID kernel.UUID, t notification.Type, sentTo kernel.UUID) (*notification.Notification, error)

	// HasAccepted reports whether any courier has already accepted a
	// notification of the given type for the order.
	HasAccepted(ctx context.Context, orderID kernel.UUID, t notification.Type) (bool, error)
}
