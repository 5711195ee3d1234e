package ports

import (
	"context"

	"washline/internal/core/domain/model/kernel"
	"washline/internal/core/domain/model/location"
)

// LocationRepository defines the persistence contract for saved addresses.
type LocationRepository interface {
	// Add persists a new location.
	Add(ctx context.Context, aggregate *location.Location) error

	// Get retrieves a location by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*location.Location, error)

	// GetAllByCustomer retrieves all locations saved by the customer.
	GetAllByCustomer(ctx context.Context, customerID kernel.UUID) ([]*location.Location, error)
}
