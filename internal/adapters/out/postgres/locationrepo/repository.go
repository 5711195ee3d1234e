package locationrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"washline/internal/core/domain/model/kernel"
	"washline/internal/core/domain/model/location"
	"washline/internal/pkg/errs"
)

// GormLocationRepository implements LocationRepository using GORM.
type GormLocationRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormLocationRepository creates a new GORM location repository.
func NewGormLocationRepository(db *gorm.DB, tracker aggregateTracker) *GormLocationRepository {
	return &GormLocationRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new location to the database.
func (r *GormLocationRepository) Add(ctx context.Context, aggregate *location.Location) error {
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

// Get retrieves a location by ID.
func (r *GormLocationRepository) Get(ctx context.Context, id kernel.UUID) (*location.Location, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto LocationDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("location", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllByCustomer retrieves all locations saved by the customer.
func (r *GormLocationRepository) GetAllByCustomer(ctx context.Context, customerID kernel.UUID) ([]*location.Location, error) {
	if err := customerID.Validate(); err != nil {
		return nil, err
	}

	var dtos []LocationDTO
	if err := r.db.WithContext(ctx).Find(&dtos, "customer_id = ?", customerID.Bytes()).Error; err != nil {
		return nil, err
	}

	locations := make([]*location.Location, 0, len(dtos))
	for _, dto := range dtos {
		l, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		locations = append(locations, l)
	}

	return locations, nil
}
