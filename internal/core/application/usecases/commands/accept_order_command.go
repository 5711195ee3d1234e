package commands

import (
	"errors"

	"washline/internal/core/domain/model/kernel"
	"washline/internal/core/domain/model/notification"
	"washline/internal/pkg/errs"
	"washline/internal/pkg/guard"
)

var ErrAcceptOrderCommandIsNotConstructed = errors.New(
	"AcceptOrderCommand must be created via NewAcceptOrderCommand constructor",
)

// AcceptOrderCommand represents a courier's attempt to claim an open order
// leg. The notification type selects which leg is being claimed: a pickup
// notification claims the pickup leg, a delivery notification claims the
// delivery leg.
//
// Example:
//
//	cmd, err := NewAcceptOrderCommand(orderID, courierID, notification.TypePickupAvailable)
//	if err != nil {
//	    return err
//	}
//
//	handler := NewAcceptOrderCommandHandler(uowFactory, publisher, producer, logger)
//	err = handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrAlreadyTaken) {
//	    // another courier won the leg first
//	}
type AcceptOrderCommand struct { //nolint:recvcheck //using for validation
	orderID          kernel.UUID
	courierID        kernel.UUID
	notificationType notification.Type

	guard guard.ConstructorGuard
}

// NewAcceptOrderCommand creates a command for a courier's acceptance attempt.
// Validates both identifiers and the notification type.
func NewAcceptOrderCommand(orderID, courierID kernel.UUID, t notification.Type) (AcceptOrderCommand, error) {
	acceptCommand := AcceptOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		acceptCommand.setOrderID(orderID),
		acceptCommand.setCourierID(courierID),
		acceptCommand.setNotificationType(t),
	); err != nil {
		return AcceptOrderCommand{}, err
	}

	return acceptCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c AcceptOrderCommand) Validate() error {
	return c.guard.Validate(ErrAcceptOrderCommandIsNotConstructed)
}

// OrderID returns the order whose leg is being claimed.
func (c AcceptOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CourierID returns the courier attempting the claim.
func (c AcceptOrderCommand) CourierID() kernel.UUID {
	return c.courierID
}

// NotificationType returns the leg being claimed.
func (c AcceptOrderCommand) NotificationType() notification.Type {
	return c.notificationType
}

func (c *AcceptOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *AcceptOrderCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("courierID", err)
	}

	c.courierID = courierID
	return nil
}

func (c *AcceptOrderCommand) setNotificationType(t notification.Type) error {
	if err := t.Validate(); err != nil {
		return err
	}

	c.notificationType = t
	return nil
}
