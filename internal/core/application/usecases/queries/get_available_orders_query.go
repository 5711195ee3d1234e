// Package queries contains read-only operations in the CQRS architecture.
// Query handlers bypass the domain model and read projections straight from
// the database with raw SQL.
package queries

import (
	"errors"
	"time"

	"washline/internal/core/domain/model/kernel"
	"washline/internal/core/domain/model/notification"
	"washline/internal/pkg/errs"
	"washline/internal/pkg/guard"
)

var ErrGetAvailableOrdersQueryIsNotConstructed = errors.New(
	"GetAvailableOrdersQuery must be created via NewGetAvailableOrdersQuery constructor",
)

// GetAvailableOrdersQuery retrieves the orders a courier can still accept:
// orders the courier was notified about, not yet accepted by anyone, whose
// status still matches the notification's acceptance window.
//
// Example:
//
//	query, _ := NewGetAvailableOrdersQuery(courierID, notification.TypePickupAvailable)
//	handler := NewGetAvailableOrdersQueryHandler(db)
//
//	orders, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get available orders: %w", err)
//	}
//	fmt.Printf("%d pickups up for grabs\n", len(orders))
type GetAvailableOrdersQuery struct { //nolint:recvcheck //using for validation
	courierID        kernel.UUID
	notificationType notification.Type

	guard guard.ConstructorGuard
}

// NewGetAvailableOrdersQuery creates a query for a courier's open offers.
func NewGetAvailableOrdersQuery(courierID kernel.UUID, t notification.Type) (GetAvailableOrdersQuery, error) {
	availableQuery := GetAvailableOrdersQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		availableQuery.setCourierID(courierID),
		availableQuery.setNotificationType(t),
	); err != nil {
		return GetAvailableOrdersQuery{}, err
	}

	return availableQuery, nil
}

// Validate ensures the query was created through the constructor.
func (q GetAvailableOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetAvailableOrdersQueryIsNotConstructed)
}

// CourierID returns the courier whose offers are listed.
func (q GetAvailableOrdersQuery) CourierID() kernel.UUID {
	return q.courierID
}

// NotificationType returns the leg type being listed.
func (q GetAvailableOrdersQuery) NotificationType() notification.Type {
	return q.notificationType
}

func (q *GetAvailableOrdersQuery) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("courierID", err)
	}

	q.courierID = courierID
	return nil
}

func (q *GetAvailableOrdersQuery) setNotificationType(t notification.Type) error {
	if err := t.Validate(); err != nil {
		return err
	}

	q.notificationType = t
	return nil
}

// GetAvailableOrdersQueryResponse represents one order a courier can accept.
type GetAvailableOrdersQueryResponse struct {
	OrderID           kernel.UUID
	OrderNumber       string
	Status            string
	NotificationType  string
	ItemCount         int
	IsExpress         bool
	ScheduledPickupAt time.Time
	SentAt            time.Time
}
