package commands

import (
	"errors"

	"washline/internal/core/domain/model/kernel"
	"washline/internal/core/domain/model/order"
	"washline/internal/pkg/guard"
)

var ErrChangeOrderStatusCommandIsNotConstructed = errors.New(
	"ChangeOrderStatusCommand must be created via NewChangeOrderStatusCommand constructor",
)

// ChangeOrderStatusCommand represents a direct status change request, the
// kind a dispatcher or the facility makes outside the scan flow. Cancelling
// an order is also expressed through this command.
type ChangeOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	next    order.Status
	notes   string

	guard guard.ConstructorGuard
}

// NewChangeOrderStatusCommand creates a command to move an order to the
// given status. Validates the order identifier and the target status.
// Notes are free-form operator text carried into the audit log.
func NewChangeOrderStatusCommand(orderID kernel.UUID, next order.Status, notes string) (ChangeOrderStatusCommand, error) {
	statusCommand := ChangeOrderStatusCommand{
		notes: notes,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		statusCommand.setOrderID(orderID),
		statusCommand.setNext(next),
	); err != nil {
		return ChangeOrderStatusCommand{}, err
	}

	return statusCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c ChangeOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrderStatusCommandIsNotConstructed)
}

// OrderID returns the order to move.
func (c ChangeOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Next returns the target status.
func (c ChangeOrderStatusCommand) Next() order.Status {
	return c.next
}

// Notes returns free-form text attached by the operator.
func (c ChangeOrderStatusCommand) Notes() string {
	return c.notes
}

func (c *ChangeOrderStatusCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ChangeOrderStatusCommand) setNext(next order.Status) error {
	if err := next.Validate(); err != nil {
		return err
	}

	c.next = next
	return nil
}
