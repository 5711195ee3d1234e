package commands

import (
	"errors"

	"washline/internal/core/domain/model/kernel"
	"washline/internal/pkg/guard"
)

var ErrDispatchNotificationsCommandIsNotConstructed = errors.New(
	"DispatchNotificationsCommand must be created via NewDispatchNotificationsCommand constructor",
)

// DispatchNotificationsCommand represents a request to fan out acceptance
// notifications for an order's currently open leg.
type DispatchNotificationsCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewDispatchNotificationsCommand creates a fanout command for the order.
func NewDispatchNotificationsCommand(orderID kernel.UUID) (DispatchNotificationsCommand, error) {
	dispatchCommand := DispatchNotificationsCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := dispatchCommand.setOrderID(orderID); err != nil {
		return DispatchNotificationsCommand{}, err
	}

	return dispatchCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c DispatchNotificationsCommand) Validate() error {
	return c.guard.Validate(ErrDispatchNotificationsCommandIsNotConstructed)
}

// OrderID returns the order whose open leg is being fanned out.
func (c DispatchNotificationsCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c *DispatchNotificationsCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
