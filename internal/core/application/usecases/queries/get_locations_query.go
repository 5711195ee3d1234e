package queries

import (
	"errors"

	"washline/internal/core/domain/model/kernel"
	"washline/internal/pkg/guard"
)

var ErrGetLocationsQueryIsNotConstructed = errors.New(
	"GetLocationsQuery must be created via NewGetLocationsQuery constructor",
)

// GetLocationsQuery retrieves a customer's saved addresses.
type GetLocationsQuery struct { //nolint:recvcheck //using for validation
	customerID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetLocationsQuery creates a query for the customer's address book.
func NewGetLocationsQuery(customerID kernel.UUID) (GetLocationsQuery, error) {
	if err := customerID.Validate(); err != nil {
		return GetLocationsQuery{}, err
	}

	return GetLocationsQuery{
		customerID: customerID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetLocationsQuery) Validate() error {
	return q.guard.Validate(ErrGetLocationsQueryIsNotConstructed)
}

// CustomerID returns the owner whose addresses are requested.
func (q GetLocationsQuery) CustomerID() kernel.UUID {
	return q.customerID
}

// GetLocationsQueryResponse represents one saved address.
type GetLocationsQueryResponse struct {
	ID        kernel.UUID
	Label     string
	Address   string
	Latitude  *float64
	Longitude *float64
}
