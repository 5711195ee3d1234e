// Package ports defines repository interfaces for the dispatch domain.
// These interfaces establish contracts between the domain layer and infrastructure,
// enabling dependency inversion and testability.
package ports

import (
	"context"

	"washline/internal/core/domain/model/courier"
	"washline/internal/core/domain/model/kernel"
)

// CourierRepository defines the persistence contract for courier aggregates.
type CourierRepository interface {
	// Add persists a new courier aggregate to storage.
	// The courier must be valid and not already exist in the repository.
	Add(ctx context.Context, courier *courier.Courier) error

	// Update persists changes to an existing courier aggregate.
	// The courier must exist in the repository and be valid.
	Update(ctx context.Context, courier *courier.Courier) error

	// Get retrieves a courier aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error)

	// GetAllEligible retrieves all couriers eligible for notification fanout.
	// A courier is eligible while active; deactivated couriers are skipped
	// but keep the legs they already won.
	//
	// Example:
	//   eligible, err := repo.GetAllEligible(ctx)
	//   if err != nil {
	//       return fmt.Errorf("failed to get eligible couriers: %w", err)
	//   }
	//   for _, courier := range eligible {
	//       fmt.Printf("Eligible: %s\n", courier.Name())
	//   }
	GetAllEligible(ctx context.Context) ([]*courier.Courier, error)
}
