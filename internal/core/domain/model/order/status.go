package order

import (
	"fmt"

	"washline/internal/pkg/errs"
)

// Status represents the lifecycle state of a laundry order.
// It implements a state machine with defined transitions to ensure
// orders follow the correct pickup -> processing -> delivery workflow.
//
// State transitions:
//
//	pending -> assigned -> driver_en_route_pickup -> arrived_pickup -> picked_up
//	        -> in_facility -> cleaning -> ready -> out_for_delivery
//	        -> arrived_delivery -> delivered
//
// with cancelled reachable from any non-terminal state. Transitions are
// monotonic along this ordering; delivered and cancelled are absorbing.
//
// Status is a value object that validates state transitions and provides
// string representations for persistence and display. Some client builds use
// legacy display names for a few states; those are accepted as parse-time
// aliases only and never stored.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status when an order is first created.
	// Orders in this status have a dispatchable pickup leg.
	Pending

	// Assigned indicates a courier has won the pickup leg.
	Assigned

	// DriverEnRoutePickup indicates the pickup courier is on the way to the customer.
	DriverEnRoutePickup

	// ArrivedPickup indicates the pickup courier has arrived at the customer.
	ArrivedPickup

	// PickedUp indicates the items have been collected from the customer.
	PickedUp

	// InFacility indicates the items have been received at the cleaning facility.
	InFacility

	// Cleaning indicates the facility is processing the items.
	Cleaning

	// Ready indicates the items are clean and the delivery leg is dispatchable.
	Ready

	// OutForDelivery indicates a courier has won the delivery leg and is carrying the items.
	OutForDelivery

	// ArrivedDelivery indicates the delivery courier has arrived at the customer.
	ArrivedDelivery

	// Delivered indicates the order has been handed back to the customer.
	// This is a final state with no further transitions allowed.
	Delivered

	// Cancelled indicates the order was aborted before delivery.
	// This is a final state reachable from any non-terminal status.
	Cancelled
)

// getStatusStrings returns a map of Status values to their canonical string
// representations. All statuses are included for string conversion.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:             "unknown",
		Pending:             "pending",
		Assigned:            "assigned",
		DriverEnRoutePickup: "driver_en_route_pickup",
		ArrivedPickup:       "arrived_pickup",
		PickedUp:            "picked_up",
		InFacility:          "in_facility",
		Cleaning:            "cleaning",
		Ready:               "ready",
		OutForDelivery:      "out_for_delivery",
		ArrivedDelivery:     "arrived_delivery",
		Delivered:           "delivered",
		Cancelled:           "cancelled",
	}
}

// getStatusAliases returns legacy display names still emitted by older client
// builds, mapped onto their canonical status. Aliases are accepted on parse
// only; String always returns the canonical name.
func getStatusAliases() map[string]Status {
	return map[string]Status{
		"received_at_base":         InFacility,
		"ready_for_delivery":       Ready,
		"driver_en_route_delivery": OutForDelivery,
	}
}

// ParseStatus converts a status string to its Status value.
// Canonical names and legacy display aliases are accepted.
//
// Returns an error if the string names no known status.
func ParseStatus(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if name == s && status != Unknown {
			return status, nil
		}
	}
	if status, ok := getStatusAliases()[s]; ok {
		return status, nil
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a known status", s))
}

// Validate checks if the Status value is valid.
//
// Returns:
//   - nil if the status is one of the defined lifecycle states
//   - error with details if the status is invalid
func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the canonical name of the status.
// This method implements the fmt.Stringer interface and is safe
// to call on any Status value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether the status admits no further transitions.
// Delivered and Cancelled are the two terminal states.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// Predecessor returns the status that must be stored for a transition into s
// to be legal, and whether such a predecessor exists. Pending (the initial
// state) and Cancelled (reachable from anywhere) have no single predecessor.
func (s Status) Predecessor() (Status, bool) {
	if s <= Pending || s == Cancelled || s > Delivered {
		return Unknown, false
	}
	return s - 1, true
}

// ValidateCanHaveDrivers validates the consistency between order status and
// driver assignment, enforcing the invariant that a leg's driver id is set
// if and only if the order has progressed at least to that leg's assignment.
//
// Parameters:
//   - pickupDriver: whether the order has a pickup driver assigned
//   - deliveryDriver: whether the order has a delivery driver assigned
//
// Returns:
//   - error: validation error if status and driver assignment are inconsistent
func (s Status) ValidateCanHaveDrivers(pickupDriver, deliveryDriver bool) error {
	if s == Cancelled {
		// A cancelled order keeps whatever assignments it had.
		return nil
	}

	if pickupDriver && s < Assigned {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a valid status to have a pickup driver", s))
	}
	if !pickupDriver && s >= Assigned {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a valid status to have no pickup driver", s))
	}
	if deliveryDriver && s < OutForDelivery {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a valid status to have a delivery driver", s))
	}
	if !deliveryDriver && s >= OutForDelivery {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a valid status to have no delivery driver", s))
	}

	return nil
}
