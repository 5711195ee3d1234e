package commands

import (
	"errors"

	"washline/internal/core/domain/model/kernel"
	"washline/internal/pkg/guard"
)

var (
	ErrCreateCourierCommandIsNotConstructed = errors.New(
		"CreateCourierCommand must be created via NewCreateCourierCommand constructor",
	)
	ErrNameIsRequired = errors.New("name is required")
)

// CreateCourierCommand represents a request to register a new courier.
type CreateCourierCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	name      string
	phone     string

	guard guard.ConstructorGuard
}

// NewCreateCourierCommand creates a command to register a courier.
// Validates that the courier ID is valid and the name is not empty.
func NewCreateCourierCommand(courierID kernel.UUID, name, phone string) (CreateCourierCommand, error) {
	courierCommand := CreateCourierCommand{
		phone: phone,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		courierCommand.setCourierID(courierID),
		courierCommand.setName(name),
	); err != nil {
		return CreateCourierCommand{}, err
	}

	return courierCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateCourierCommand) Validate() error {
	return c.guard.Validate(ErrCreateCourierCommandIsNotConstructed)
}

// CourierID returns the unique identifier for the courier.
func (c CreateCourierCommand) CourierID() kernel.UUID {
	return c.courierID
}

// Name returns the courier's name.
func (c CreateCourierCommand) Name() string {
	return c.name
}

// Phone returns the courier's contact number.
func (c CreateCourierCommand) Phone() string {
	return c.phone
}

func (c *CreateCourierCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	c.courierID = courierID
	return nil
}

func (c *CreateCourierCommand) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}

	c.name = name
	return nil
}
