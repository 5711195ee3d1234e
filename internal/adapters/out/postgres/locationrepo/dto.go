// Package locationrepo provides data transfer objects and mapping functions
// for saved customer addresses.
package locationrepo

import (
	"github.com/google/uuid"

	"washline/internal/core/domain/model/kernel"
	"washline/internal/core/domain/model/location"
)

// LocationDTO represents the database structure for persisting locations.
type LocationDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerID uuid.UUID `gorm:"type:uuid;index;not null"`
	Label      string
	Address    string `gorm:"not null"`
	Latitude   *float64
	Longitude  *float64
}

// TableName specifies the database table name for location entities.
func (LocationDTO) TableName() string {
	return "locations"
}

// fromDomain converts a location aggregate to its database representation.
func fromDomain(aggregate *location.Location) LocationDTO {
	return LocationDTO{
		ID:         aggregate.ID().Bytes(),
		CustomerID: aggregate.CustomerID().Bytes(),
		Label:      aggregate.Label(),
		Address:    aggregate.Address(),
		Latitude:   aggregate.Latitude(),
		Longitude:  aggregate.Longitude(),
	}
}

// toDomain converts a database DTO to a location aggregate.
func toDomain(dto LocationDTO) (*location.Location, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	return location.RestoreLocation(id, customerID, dto.Label, dto.Address, dto.Latitude, dto.Longitude)
}
