package checkpointrepo

import (
	"context"

	"gorm.io/gorm"

	"washline/internal/core/domain/model/checkpoint"
	"washline/internal/core/domain/model/kernel"
)

// GormCheckpointRepository implements CheckpointRepository using GORM.
type GormCheckpointRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormCheckpointRepository creates a new GORM checkpoint repository.
func NewGormCheckpointRepository(db *gorm.DB, tracker aggregateTracker) *GormCheckpointRepository {
	return &GormCheckpointRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new checkpoint record to the database.
func (r *GormCheckpointRepository) Add(ctx context.Context, aggregate *checkpoint.Checkpoint) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// ListByOrder retrieves all checkpoints recorded for the order, oldest first.
func (r *GormCheckpointRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*checkpoint.Checkpoint, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []CheckpointDTO
	err := r.db.WithContext(ctx).
		Order("recorded_at").
		Find(&dtos, "order_id = ?", orderID.Bytes()).Error
	if err != nil {
		return nil, err
	}

	checkpoints := make([]*checkpoint.Checkpoint, 0, len(dtos))
	for _, dto := range dtos {
		cp, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		checkpoints = append(checkpoints, cp)
	}

	return checkpoints, nil
}
