package courier

import (
	"errors"
	"strings"
	"time"

	"washline/internal/core/domain/model/kernel"
	"washline/internal/pkg/errs"
	"washline/internal/pkg/guard"
)

// Domain errors for courier operations.
var (
	// ErrNameIsRequired is returned when attempting to create a courier without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrCourierIsNotConstructed is returned when using an improperly initialized Courier.
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier or RestoreCourier")
)

// Courier represents a driver who can service pickup and delivery legs.
// It is an aggregate root that manages courier identity and eligibility.
//
// Couriers are eligible for fanout while active; deactivated couriers stop
// receiving notifications but keep the legs they already won. Eligibility
// beyond the active flag (proximity, shift windows) is a repository-level
// predicate, not courier state.
type Courier struct {
	// id uniquely identifies the courier
	id kernel.UUID
	// name is the human-readable name of the courier
	name string
	// phone is the courier's contact number
	phone string
	// isActive reports whether the courier takes part in fanout
	isActive bool
	// createdAt is when the courier was registered
	createdAt time.Time
	// guard ensures the courier was properly constructed
	guard guard.ConstructorGuard
}

// NewCourier creates a new active Courier with the specified identity.
// The name must be non-empty; phone is optional.
func NewCourier(id kernel.UUID, name, phone string) (*Courier, error) {
	c := &Courier{
		phone:     phone,
		isActive:  true,
		createdAt: time.Now().UTC(),
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(id),
		c.setName(name),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// RestoreCourier rebuilds a courier from persistence.
func RestoreCourier(id kernel.UUID, name, phone string, isActive bool, createdAt time.Time) (*Courier, error) {
	c := &Courier{
		phone:     phone,
		isActive:  isActive,
		createdAt: createdAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(id),
		c.setName(name),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate ensures the Courier was properly constructed through a factory method.
func (c *Courier) Validate() error {
	if c == nil {
		return ErrCourierIsNotConstructed
	}
	return c.guard.Validate(ErrCourierIsNotConstructed)
}

// ID returns the courier's unique identifier.
func (c *Courier) ID() kernel.UUID {
	return c.id
}

// Name returns the courier's name.
func (c *Courier) Name() string {
	return c.name
}

// Phone returns the courier's contact number.
func (c *Courier) Phone() string {
	return c.phone
}

// IsActive reports whether the courier takes part in notification fanout.
func (c *Courier) IsActive() bool {
	return c.isActive
}

// CreatedAt returns the registration timestamp.
func (c *Courier) CreatedAt() time.Time {
	return c.createdAt
}

// Activate puts the courier back into the fanout pool.
func (c *Courier) Activate() {
	c.isActive = true
}

// Deactivate removes the courier from the fanout pool.
// Legs the courier already won are unaffected.
func (c *Courier) Deactivate() {
	c.isActive = false
}

func (c *Courier) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Courier) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameIsRequired
	}
	c.name = name
	return nil
}
