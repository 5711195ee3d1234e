// Package location contains the Location aggregate: a saved customer address
// used as the pickup or delivery endpoint of an order.
package location

import (
	"errors"
	"strings"

	"washline/internal/core/domain/model/kernel"
	"washline/internal/pkg/errs"
	"washline/internal/pkg/guard"
)

// Coordinate bounds in decimal degrees.
const (
	minLatitude  = -90.0
	maxLatitude  = 90.0
	minLongitude = -180.0
	maxLongitude = 180.0
)

var (
	// ErrAddressIsRequired is returned when attempting to create a location without an address.
	ErrAddressIsRequired = errs.NewValueIsRequiredError("address")
	// ErrLocationIsNotConstructed is returned when using an improperly initialized Location.
	ErrLocationIsNotConstructed = errors.New("Location must be created via NewLocation or RestoreLocation")
)

// Location represents a saved address belonging to a customer.
// Coordinates are optional; when present both must be set and in range.
type Location struct {
	id         kernel.UUID
	customerID kernel.UUID
	label      string
	address    string
	latitude   *float64
	longitude  *float64
	guard      guard.ConstructorGuard
}

// NewLocation creates a new Location for the given customer.
func NewLocation(id, customerID kernel.UUID, label, address string, latitude, longitude *float64) (*Location, error) {
	l := &Location{
		label: label,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		l.setID(id),
		l.setCustomerID(customerID),
		l.setAddress(address),
		l.setCoordinates(latitude, longitude),
	); err != nil {
		return nil, err
	}

	return l, nil
}

// RestoreLocation rebuilds a location from persistence.
func RestoreLocation(id, customerID kernel.UUID, label, address string, latitude, longitude *float64) (*Location, error) {
	return NewLocation(id, customerID, label, address, latitude, longitude)
}

// Validate ensures the Location was properly constructed through a factory method.
func (l *Location) Validate() error {
	if l == nil {
		return ErrLocationIsNotConstructed
	}
	return l.guard.Validate(ErrLocationIsNotConstructed)
}

// ID returns the location's unique identifier.
func (l *Location) ID() kernel.UUID {
	return l.id
}

// CustomerID returns the owning customer's identifier.
func (l *Location) CustomerID() kernel.UUID {
	return l.customerID
}

// Label returns the customer-facing label ("home", "office").
func (l *Location) Label() string {
	return l.label
}

// Address returns the street address.
func (l *Location) Address() string {
	return l.address
}

// Latitude returns the latitude, or nil when no coordinates were saved.
func (l *Location) Latitude() *float64 {
	return l.latitude
}

// Longitude returns the longitude, or nil when no coordinates were saved.
func (l *Location) Longitude() *float64 {
	return l.longitude
}

func (l *Location) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	l.id = id
	return nil
}

func (l *Location) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("customerID", err)
	}
	l.customerID = id
	return nil
}

func (l *Location) setAddress(address string) error {
	if strings.TrimSpace(address) == "" {
		return ErrAddressIsRequired
	}
	l.address = address
	return nil
}

func (l *Location) setCoordinates(latitude, longitude *float64) error {
	if latitude == nil && longitude == nil {
		return nil
	}
	if latitude == nil || longitude == nil {
		return errs.NewValueIsInvalidError("coordinates")
	}
	if *latitude < minLatitude || *latitude > maxLatitude {
		return errs.NewValueIsOutOfRangeError("latitude", *latitude, minLatitude, maxLatitude)
	}
	if *longitude < minLongitude || *longitude > maxLongitude {
		return errs.NewValueIsOutOfRangeError("longitude", *longitude, minLongitude, maxLongitude)
	}
	l.latitude = latitude
	l.longitude = longitude
	return nil
}
