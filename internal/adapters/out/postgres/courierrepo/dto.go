// Package courierrepo provides data transfer objects and mapping functions
// for courier persistence.
package courierrepo

import (
	"time"

	"github.com/google/uuid"

	"washline/internal/core/domain/model/courier"
	"washline/internal/core/domain/model/kernel"
)

// CourierDTO represents the database structure for persisting courier
// aggregates. The is_active flag is indexed because fanout filters on it.
type CourierDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"not null"`
	Phone     string
	IsActive  bool `gorm:"index;not null"`
	CreatedAt time.Time
}

// TableName specifies the database table name for courier entities.
func (CourierDTO) TableName() string {
	return "couriers"
}

// fromDomain converts a courier aggregate to its database representation.
func fromDomain(aggregate *courier.Courier) CourierDTO {
	return CourierDTO{
		ID:        aggregate.ID().Bytes(),
		Name:      aggregate.Name(),
		Phone:     aggregate.Phone(),
		IsActive:  aggregate.IsActive(),
		CreatedAt: aggregate.CreatedAt(),
	}
}

// toDomain converts a database DTO to a courier aggregate.
func toDomain(dto CourierDTO) (*courier.Courier, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return courier.RestoreCourier(id, dto.Name, dto.Phone, dto.IsActive, dto.CreatedAt)
}
