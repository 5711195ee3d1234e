package queries

import (
	"errors"
	"time"

	"washline/internal/core/domain/model/kernel"
	"washline/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves a single order with its checkpoint history.
type GetOrderQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for one order's detail view.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	orderQuery := GetOrderQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := orderQuery.setOrderID(orderID); err != nil {
		return GetOrderQuery{}, err
	}

	return orderQuery, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the order to retrieve.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q *GetOrderQuery) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	q.orderID = orderID
	return nil
}

// CheckpointResponse represents one recorded scan in the order's history.
type CheckpointResponse struct {
	ID             kernel.UUID
	CheckpointType string
	ActorID        kernel.UUID
	ItemCount      *int
	HasSignature   bool
	Photos         []string
	Notes          string
	RecordedAt     time.Time
}

// GetOrderQueryResponse represents the order detail view.
type GetOrderQueryResponse struct {
	ID                 kernel.UUID
	OrderNumber        string
	Status             string
	CustomerID         kernel.UUID
	PickupLocationID   kernel.UUID
	DeliveryLocationID kernel.UUID
	ConfirmedItemCount int
	PickupItemCount    *int
	ReceptionItemCount *int
	IsExpress          bool
	TotalCents         int64
	PickupDriverID     *kernel.UUID
	DeliveryDriverID   *kernel.UUID
	ScheduledPickupAt  time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Checkpoints        []CheckpointResponse
}
