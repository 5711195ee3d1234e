package commands

import (
	"errors"

	"washline/internal/core/domain/model/kernel"
	"washline/internal/pkg/errs"
	"washline/internal/pkg/guard"
)

var (
	ErrCreateLocationCommandIsNotConstructed = errors.New(
		"CreateLocationCommand must be created via NewCreateLocationCommand constructor",
	)
	ErrAddressIsRequired = errors.New("address is required")
)

// CreateLocationCommand represents a request to save a customer address.
type CreateLocationCommand struct { //nolint:recvcheck //using for validation
	locationID kernel.UUID
	customerID kernel.UUID
	label      string
	address    string
	latitude   *float64
	longitude  *float64

	guard guard.ConstructorGuard
}

// NewCreateLocationCommand creates a command to save a customer address.
// Coordinates are optional; range validation happens in the aggregate.
func NewCreateLocationCommand(
	locationID, customerID kernel.UUID,
	label, address string,
	latitude, longitude *float64,
) (CreateLocationCommand, error) {
	locationCommand := CreateLocationCommand{
		label:     label,
		latitude:  latitude,
		longitude: longitude,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		locationCommand.setLocationID(locationID),
		locationCommand.setCustomerID(customerID),
		locationCommand.setAddress(address),
	); err != nil {
		return CreateLocationCommand{}, err
	}

	return locationCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateLocationCommand) Validate() error {
	return c.guard.Validate(ErrCreateLocationCommandIsNotConstructed)
}

// LocationID returns the unique identifier for the location.
func (c CreateLocationCommand) LocationID() kernel.UUID {
	return c.locationID
}

// CustomerID returns the owning customer's identifier.
func (c CreateLocationCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// Label returns the customer-facing label.
func (c CreateLocationCommand) Label() string {
	return c.label
}

// Address returns the street address.
func (c CreateLocationCommand) Address() string {
	return c.address
}

// Latitude returns the optional latitude.
func (c CreateLocationCommand) Latitude() *float64 {
	return c.latitude
}

// Longitude returns the optional longitude.
func (c CreateLocationCommand) Longitude() *float64 {
	return c.longitude
}

func (c *CreateLocationCommand) setLocationID(locationID kernel.UUID) error {
	if err := locationID.Validate(); err != nil {
		return err
	}

	c.locationID = locationID
	return nil
}

func (c *CreateLocationCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("customerID", err)
	}

	c.customerID = customerID
	return nil
}

func (c *CreateLocationCommand) setAddress(address string) error {
	if address == "" {
		return ErrAddressIsRequired
	}

	c.address = address
	return nil
}
