// Package notificationrepo persists acceptance notifications. The table's
// two partial unique indexes are where the engine's fanout and single-winner
// guarantees bottom out: one deduplicates pending notifications per courier,
// the other admits at most one accepted notification per order leg.
package notificationrepo

import (
	"time"

	"github.com/google/uuid"

	"washline/internal/core/domain/model/kernel"
	"washline/internal/core/domain/model/notification"
)

// NotificationDTO represents the database structure for persisting
// notifications.
//
// idx_notifications_pending makes fanout idempotent: re-dispatching an order
// cannot duplicate a courier's pending offer. idx_notifications_winner is
// the last line of defense for the single-winner rule; the acceptance
// arbiter's row lock should make it unreachable, but the index holds even
// if a future code path forgets the lock.
type NotificationDTO struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID          uuid.UUID `gorm:"type:uuid;not null;index:idx_notifications_pending,unique,where:not is_accepted,priority:1;index:idx_notifications_winner,unique,where:is_accepted,priority:1"`
	NotificationType string    `gorm:"not null;index:idx_notifications_pending,priority:2;index:idx_notifications_winner,priority:2"`
	SentTo           uuid.UUID `gorm:"type:uuid;not null;index;index:idx_notifications_pending,priority:3"`
	IsAccepted       bool      `gorm:"not null"`
	SentAt           time.Time
}

// TableName specifies the database table name for notification entities.
func (NotificationDTO) TableName() string {
	return "notifications"
}

// fromDomain converts a notification aggregate to its database representation.
func fromDomain(aggregate *notification.Notification) NotificationDTO {
	return NotificationDTO{
		ID:               aggregate.ID().Bytes(),
		OrderID:          aggregate.OrderID().Bytes(),
		NotificationType: aggregate.Type().String(),
		SentTo:           aggregate.SentTo().Bytes(),
		IsAccepted:       aggregate.IsAccepted(),
		SentAt:           aggregate.SentAt(),
	}
}

// toDomain converts a database DTO to a notification aggregate.
func toDomain(dto NotificationDTO) (*notification.Notification, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	sentTo, err := kernel.UUIDFromBytes(dto.SentTo[:])
	if err != nil {
		return nil, err
	}

	t, err := notification.ParseType(dto.NotificationType)
	if err != nil {
		return nil, err
	}

	return notification.RestoreNotification(id, orderID, sentTo, t, dto.IsAccepted, dto.SentAt)
}
