package notificationrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"washline/internal/core/domain/model/kernel"
	"washline/internal/core/domain/model/notification"
	"washline/internal/pkg/errs"
)

// GormNotificationRepository implements NotificationRepository using GORM.
type GormNotificationRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormNotificationRepository creates a new GORM notification repository.
func NewGormNotificationRepository(db *gorm.DB, tracker aggregateTracker) *GormNotificationRepository {
	return &GormNotificationRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new notification to the database. A conflict on the pending
// index means the courier already holds this offer; the insert becomes a
// no-op so fanout can be retried freely.
func (r *GormNotificationRepository) Add(ctx context.Context, aggregate *notification.Notification) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&dto).Error
	if err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing notification to the database.
func (r *GormNotificationRepository) Update(ctx context.Context, aggregate *notification.Notification) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&NotificationDTO{}).Where("id = ?", dto.ID).Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("notification", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves the notification of the given type sent to the given courier
// for the given order.
func (r *GormNotificationRepository) Get(
	ctx context.Context,
	orderID kernel.UUID,
	t notification.Type,
	sentTo kernel.UUID,
) (*notification.Notification, error) {
	if err := errors.Join(orderID.Validate(), t.Validate(), sentTo.Validate()); err != nil {
		return nil, err
	}

	var dto NotificationDTO
	err := r.db.WithContext(ctx).
		First(&dto, "order_id = ? AND notification_type = ? AND sent_to = ?",
			orderID.Bytes(), t.String(), sentTo.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("notification", orderID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// HasAccepted reports whether any courier already accepted a notification of
// the given type for the order.
func (r *GormNotificationRepository) HasAccepted(ctx context.Context, orderID kernel.UUID, t notification.Type) (bool, error) {
	if err := errors.Join(orderID.Validate(), t.Validate()); err != nil {
		return false, err
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&NotificationDTO{}).
		Where("order_id = ? AND notification_type = ? AND is_accepted", orderID.Bytes(), t.String()).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
