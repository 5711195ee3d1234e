// Package checkpointrepo persists checkpoint records. The table is
// append-only; rows are never updated or deleted.
package checkpointrepo

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"washline/internal/core/domain/model/checkpoint"
	"washline/internal/core/domain/model/kernel"
)

// CheckpointDTO represents the database structure for persisting checkpoint
// records. Photos are stored as a native text array.
type CheckpointDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID        uuid.UUID `gorm:"type:uuid;index;not null"`
	CheckpointType string    `gorm:"not null"`
	ActorID        uuid.UUID `gorm:"type:uuid;not null"`
	ItemCount      *int
	SignatureData  *string
	Photos         pq.StringArray `gorm:"type:text[]"`
	Notes          string
	RecordedAt     time.Time `gorm:"index"`
}

// TableName specifies the database table name for checkpoint entities.
func (CheckpointDTO) TableName() string {
	return "checkpoints"
}

// fromDomain converts a checkpoint record to its database representation.
func fromDomain(aggregate *checkpoint.Checkpoint) CheckpointDTO {
	return CheckpointDTO{
		ID:             aggregate.ID().Bytes(),
		OrderID:        aggregate.OrderID().Bytes(),
		CheckpointType: aggregate.Type().String(),
		ActorID:        aggregate.ActorID().Bytes(),
		ItemCount:      aggregate.ItemCount(),
		SignatureData:  aggregate.SignatureData(),
		Photos:         aggregate.Photos(),
		Notes:          aggregate.Notes(),
		RecordedAt:     aggregate.RecordedAt(),
	}
}

// toDomain converts a database DTO to a checkpoint record.
func toDomain(dto CheckpointDTO) (*checkpoint.Checkpoint, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	actorID, err := kernel.UUIDFromBytes(dto.ActorID[:])
	if err != nil {
		return nil, err
	}

	t, err := checkpoint.ParseType(dto.CheckpointType)
	if err != nil {
		return nil, err
	}

	return checkpoint.RestoreCheckpoint(
		id, orderID, t, actorID,
		dto.ItemCount, dto.SignatureData, dto.Photos, dto.Notes, dto.RecordedAt)
}
