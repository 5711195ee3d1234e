package commands

import (
	"errors"
	"time"

	"washline/internal/core/domain/model/kernel"
	"washline/internal/pkg/errs"
	"washline/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrItemCountIsInvalid = errors.New("item count must be greater than 0")
)

// CreateOrderCommand represents a request to place a new laundry order.
// Encapsulates the customer, the pickup and delivery endpoints, the
// confirmed item count and the agreed charges.
//
// Example:
//
//	orderID := kernel.NewUUID()
//	cmd, err := NewCreateOrderCommand(orderID, customerID, pickupID, deliveryID,
//	    12, false, 2500, 500, 0, 240, pickupAt)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory, dispatcher)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID            kernel.UUID
	customerID         kernel.UUID
	pickupLocationID   kernel.UUID
	deliveryLocationID kernel.UUID
	itemCount          int
	isExpress          bool
	subtotalCents      int64
	deliveryFeeCents   int64
	expressFeeCents    int64
	taxCents           int64
	scheduledPickupAt  time.Time

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to place a new order.
// Validates that all identifiers are valid and the item count is positive.
// Charge amounts are validated by the order aggregate when the handler
// builds the Charges value object.
func NewCreateOrderCommand(
	orderID, customerID, pickupLocationID, deliveryLocationID kernel.UUID,
	itemCount int,
	isExpress bool,
	subtotalCents, deliveryFeeCents, expressFeeCents, taxCents int64,
	scheduledPickupAt time.Time,
) (CreateOrderCommand, error) {
	orderCommand := CreateOrderCommand{
		isExpress:         isExpress,
		subtotalCents:     subtotalCents,
		deliveryFeeCents:  deliveryFeeCents,
		expressFeeCents:   expressFeeCents,
		taxCents:          taxCents,
		scheduledPickupAt: scheduledPickupAt,
		guard:             guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderCommand.setOrderID(orderID),
		orderCommand.setCustomerID(customerID),
		orderCommand.setLocations(pickupLocationID, deliveryLocationID),
		orderCommand.setItemCount(itemCount),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return orderCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CustomerID returns the owning customer's identifier.
func (c CreateOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// PickupLocationID returns the pickup address identifier.
func (c CreateOrderCommand) PickupLocationID() kernel.UUID {
	return c.pickupLocationID
}

// DeliveryLocationID returns the delivery address identifier.
func (c CreateOrderCommand) DeliveryLocationID() kernel.UUID {
	return c.deliveryLocationID
}

// ItemCount returns the customer-confirmed number of items.
func (c CreateOrderCommand) ItemCount() int {
	return c.itemCount
}

// IsExpress reports whether the order requested express turnaround.
func (c CreateOrderCommand) IsExpress() bool {
	return c.isExpress
}

// SubtotalCents returns the service subtotal in cents.
func (c CreateOrderCommand) SubtotalCents() int64 {
	return c.subtotalCents
}

// DeliveryFeeCents returns the delivery fee in cents.
func (c CreateOrderCommand) DeliveryFeeCents() int64 {
	return c.deliveryFeeCents
}

// ExpressFeeCents returns the express surcharge in cents.
func (c CreateOrderCommand) ExpressFeeCents() int64 {
	return c.expressFeeCents
}

// TaxCents returns the tax amount in cents.
func (c CreateOrderCommand) TaxCents() int64 {
	return c.taxCents
}

// ScheduledPickupAt returns the agreed pickup time.
func (c CreateOrderCommand) ScheduledPickupAt() time.Time {
	return c.scheduledPickupAt
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("customerID", err)
	}

	c.customerID = customerID
	return nil
}

func (c *CreateOrderCommand) setLocations(pickupLocationID, deliveryLocationID kernel.UUID) error {
	if err := pickupLocationID.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("pickupLocationID", err)
	}
	if err := deliveryLocationID.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("deliveryLocationID", err)
	}

	c.pickupLocationID = pickupLocationID
	c.deliveryLocationID = deliveryLocationID
	return nil
}

func (c *CreateOrderCommand) setItemCount(itemCount int) error {
	if itemCount <= 0 {
		return ErrItemCountIsInvalid
	}

	c.itemCount = itemCount
	return nil
}
