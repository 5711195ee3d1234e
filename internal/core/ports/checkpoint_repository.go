package ports

import (
	"context"

	"washline/internal/core/domain/model/checkpoint"
	"washline/internal/core/domain/model/kernel"
)

// CheckpointRepository defines the persistence contract for checkpoint
// records. Checkpoints are append-only: there is no update or delete.
type CheckpointRepository interface {
	// Add persists a new checkpoint record.
	Add(ctx context.Context, aggregate *checkpoint.Checkpoint) error

	// ListByOrder retrieves all checkpoints recorded for the order,
	// oldest first.
	ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*checkpoint.Checkpoint, error)
}
