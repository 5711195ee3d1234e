// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. It implements the repository pattern for the order
// aggregate, converting between the domain entity and its database row.
package orderrepo

import (
	"time"

	"github.com/google/uuid"

	"washline/internal/core/domain/model/kernel"
	"washline/internal/core/domain/model/order"
)

// OrderDTO represents the database structure for persisting order aggregates.
// The status column stores the canonical status string, indexed for the
// fanout sweep and acceptance-window queries.
type OrderDTO struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderNumber        string    `gorm:"uniqueIndex;not null"`
	Status             string    `gorm:"index;not null"`
	CustomerID         uuid.UUID `gorm:"type:uuid;index;not null"`
	PickupLocationID   uuid.UUID `gorm:"type:uuid;not null"`
	DeliveryLocationID uuid.UUID `gorm:"type:uuid;not null"`
	ConfirmedItemCount int
	PickupItemCount    *int
	ReceptionItemCount *int
	IsExpress          bool
	SubtotalCents      int64
	DeliveryFeeCents   int64
	ExpressFeeCents    int64
	TaxCents           int64
	TotalCents         int64
	PickupDriverID     *uuid.UUID `gorm:"type:uuid;index"`
	DeliveryDriverID   *uuid.UUID `gorm:"type:uuid;index"`
	ScheduledPickupAt  time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	return OrderDTO{
		ID:                 aggregate.ID().Bytes(),
		OrderNumber:        aggregate.OrderNumber(),
		Status:             aggregate.Status().String(),
		CustomerID:         aggregate.CustomerID().Bytes(),
		PickupLocationID:   aggregate.PickupLocationID().Bytes(),
		DeliveryLocationID: aggregate.DeliveryLocationID().Bytes(),
		ConfirmedItemCount: aggregate.ConfirmedItemCount(),
		PickupItemCount:    aggregate.PickupItemCount(),
		ReceptionItemCount: aggregate.ReceptionItemCount(),
		IsExpress:          aggregate.IsExpress(),
		SubtotalCents:      aggregate.Charges().SubtotalCents,
		DeliveryFeeCents:   aggregate.Charges().DeliveryFeeCents,
		ExpressFeeCents:    aggregate.Charges().ExpressFeeCents,
		TaxCents:           aggregate.Charges().TaxCents,
		TotalCents:         aggregate.Charges().TotalCents,
		PickupDriverID:     optionalBytes(aggregate.PickupDriver()),
		DeliveryDriverID:   optionalBytes(aggregate.DeliveryDriver()),
		ScheduledPickupAt:  aggregate.ScheduledPickupAt(),
		CreatedAt:          aggregate.CreatedAt(),
		UpdatedAt:          aggregate.UpdatedAt(),
	}
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate using RestoreOrder, which re-applies
// the aggregate's invariants to whatever the row contains.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	pickupLocationID, err := kernel.UUIDFromBytes(dto.PickupLocationID[:])
	if err != nil {
		return nil, err
	}

	deliveryLocationID, err := kernel.UUIDFromBytes(dto.DeliveryLocationID[:])
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	charges, err := order.RestoreCharges(
		dto.SubtotalCents, dto.DeliveryFeeCents, dto.ExpressFeeCents, dto.TaxCents, dto.TotalCents)
	if err != nil {
		return nil, err
	}

	pickupDriverID, err := optionalUUID(dto.PickupDriverID)
	if err != nil {
		return nil, err
	}

	deliveryDriverID, err := optionalUUID(dto.DeliveryDriverID)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		id,
		dto.OrderNumber,
		status,
		customerID,
		pickupLocationID,
		deliveryLocationID,
		dto.ConfirmedItemCount,
		dto.PickupItemCount,
		dto.ReceptionItemCount,
		dto.IsExpress,
		charges,
		pickupDriverID,
		deliveryDriverID,
		dto.ScheduledPickupAt,
		dto.CreatedAt,
		dto.UpdatedAt,
	)
}

func optionalBytes(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func optionalUUID(id *uuid.UUID) (*kernel.UUID, error) {
	if id == nil {
		return nil, nil
	}
	converted, err := kernel.UUIDFromBytes((*id)[:])
	if err != nil {
		return nil, err
	}
	return &converted, nil
}
