package ports

import (
	"context"

	"washline/internal/core/domain/model/kernel"
	"washline/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Provides methods for storing, retrieving, and querying order entities
// based on their status and assignment state.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	// The order must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate retrieves an order by identifier and takes a row lock
	// that is held until the surrounding transaction ends. Concurrent
	// callers serialize on the same order.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByNumber retrieves an order by its human-readable order number.
	GetByNumber(ctx context.Context, orderNumber string) (*order.Order, error)

	// GetAllInStatus retrieves all orders currently in the given status.
	// Used by the fanout sweep to find orders with an open leg.
	GetAllInStatus(ctx context.Context, status order.Status) ([]*order.Order, error)
}
