package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"washline/internal/core/domain/model/kernel"
	"washline/internal/pkg/errs"
	"washline/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// the NewOrder or RestoreOrder factory methods.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

	// ErrOrderNumberIsRequired is returned when attempting to create an order
	// without a human-readable order number.
	ErrOrderNumberIsRequired = errs.NewValueIsRequiredError("order_number")
)

// Order represents a laundry order in the system. It is the aggregate root
// owning the order's status, leg assignments, and observed item counts.
//
// Order follows these invariants:
//   - Must have a valid unique identifier and a non-empty order number
//   - Status transitions follow the monotonic lifecycle defined by Status
//   - The pickup driver id is set if and only if status is at least assigned;
//     the delivery driver id if and only if status is at least out_for_delivery
//   - Confirmed item count is positive; observed counts may diverge from it
//     (a divergence is recorded, never a hard failure)
//   - Can only be created through NewOrder or RestoreOrder
//
// The struct uses private fields to ensure encapsulation and maintains its
// invariants through validated methods.
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// orderNumber is the human-readable unique number printed on QR labels
	orderNumber string

	// status is the current state in the order lifecycle
	status Status

	// customerID identifies the customer who placed the order
	customerID kernel.UUID

	// pickupLocationID and deliveryLocationID reference customer-owned locations
	pickupLocationID   kernel.UUID
	deliveryLocationID kernel.UUID

	// confirmedItemCount is the item count declared by the customer at creation
	confirmedItemCount int

	// pickupItemCount and receptionItemCount are the counts observed at the
	// pickup and facility-reception checkpoints (nil until recorded)
	pickupItemCount    *int
	receptionItemCount *int

	// isExpress marks rush orders
	isExpress bool

	// charges is the monetary breakdown
	charges Charges

	// pickupDriverID and deliveryDriverID are the couriers that won each leg
	// (nil while the leg is unassigned, set exactly once by acceptance)
	pickupDriverID   *kernel.UUID
	deliveryDriverID *kernel.UUID

	// scheduledPickupAt is the slot the customer picked for collection
	scheduledPickupAt time.Time

	createdAt time.Time
	updatedAt time.Time

	// guard ensures the order was created via a factory method
	guard guard.ConstructorGuard
}

// NewOrder creates a new Order in pending status. This is the only way to
// create an order that has not been persisted before; persisted orders are
// rebuilt with RestoreOrder.
//
// Parameters:
//   - id: unique identifier (must be a valid UUID)
//   - orderNumber: human-readable unique number (must be non-empty)
//   - customerID: owner of the order
//   - pickupLocationID, deliveryLocationID: customer-owned locations
//   - confirmedItemCount: declared item count (must be positive)
//   - isExpress: rush flag
//   - charges: validated monetary breakdown
//   - scheduledPickupAt: requested collection slot
//
// Returns:
//   - *Order: the created order in pending status with no drivers assigned
//   - error: validation error if any parameter is invalid
func NewOrder(
	id kernel.UUID,
	orderNumber string,
	customerID kernel.UUID,
	pickupLocationID kernel.UUID,
	deliveryLocationID kernel.UUID,
	confirmedItemCount int,
	isExpress bool,
	charges Charges,
	scheduledPickupAt time.Time,
) (*Order, error) {
	now := time.Now().UTC()
	order := &Order{
		status:            Pending,
		isExpress:         isExpress,
		scheduledPickupAt: scheduledPickupAt,
		createdAt:         now,
		updatedAt:         now,
		guard:             guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		order.setID(id),
		order.setOrderNumber(orderNumber),
		order.setCustomerID(customerID),
		order.setLocations(pickupLocationID, deliveryLocationID),
		order.setConfirmedItemCount(confirmedItemCount),
		order.setCharges(charges),
	); err != nil {
		return nil, err
	}

	return order, nil
}

// RestoreOrder rebuilds an Order from persistence. It validates the same
// field-level rules as NewOrder plus the status/driver consistency invariant,
// so corrupted rows are rejected instead of flowing into the engine.
func RestoreOrder(
	id kernel.UUID,
	orderNumber string,
	status Status,
	customerID kernel.UUID,
	pickupLocationID kernel.UUID,
	deliveryLocationID kernel.UUID,
	confirmedItemCount int,
	pickupItemCount *int,
	receptionItemCount *int,
	isExpress bool,
	charges Charges,
	pickupDriverID *kernel.UUID,
	deliveryDriverID *kernel.UUID,
	scheduledPickupAt time.Time,
	createdAt time.Time,
	updatedAt time.Time,
) (*Order, error) {
	order := &Order{
		status:             status,
		pickupItemCount:    pickupItemCount,
		receptionItemCount: receptionItemCount,
		isExpress:          isExpress,
		pickupDriverID:     pickupDriverID,
		deliveryDriverID:   deliveryDriverID,
		scheduledPickupAt:  scheduledPickupAt,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
		guard:              guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		order.setID(id),
		order.setOrderNumber(orderNumber),
		order.setCustomerID(customerID),
		order.setLocations(pickupLocationID, deliveryLocationID),
		order.setConfirmedItemCount(confirmedItemCount),
		order.setCharges(charges),
		status.Validate(),
		status.ValidateCanHaveDrivers(pickupDriverID != nil, deliveryDriverID != nil),
	); err != nil {
		return nil, err
	}

	order.status = status
	return order, nil
}

// Validate ensures the Order instance was properly constructed through a factory method.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// OrderNumber returns the human-readable unique order number.
func (o *Order) OrderNumber() string {
	return o.orderNumber
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// CustomerID returns the id of the customer who placed the order.
func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// PickupLocationID returns the id of the collection address.
func (o *Order) PickupLocationID() kernel.UUID {
	return o.pickupLocationID
}

// DeliveryLocationID returns the id of the return address.
func (o *Order) DeliveryLocationID() kernel.UUID {
	return o.deliveryLocationID
}

// ConfirmedItemCount returns the item count declared at creation.
func (o *Order) ConfirmedItemCount() int {
	return o.confirmedItemCount
}

// PickupItemCount returns the count observed at the pickup checkpoint.
// Returns nil if the pickup checkpoint has not been recorded.
func (o *Order) PickupItemCount() *int {
	return o.pickupItemCount
}

// ReceptionItemCount returns the count observed at the facility reception checkpoint.
// Returns nil if the reception checkpoint has not been recorded.
func (o *Order) ReceptionItemCount() *int {
	return o.receptionItemCount
}

// IsExpress reports whether this is a rush order.
func (o *Order) IsExpress() bool {
	return o.isExpress
}

// Charges returns the monetary breakdown of the order.
func (o *Order) Charges() Charges {
	return o.charges
}

// PickupDriver returns the courier that won the pickup leg.
// Returns nil while the pickup leg is unassigned.
func (o *Order) PickupDriver() *kernel.UUID {
	return o.pickupDriverID
}

// DeliveryDriver returns the courier that won the delivery leg.
// Returns nil while the delivery leg is unassigned.
func (o *Order) DeliveryDriver() *kernel.UUID {
	return o.deliveryDriverID
}

// ScheduledPickupAt returns the requested collection slot.
func (o *Order) ScheduledPickupAt() time.Time {
	return o.scheduledPickupAt
}

// CreatedAt returns the creation timestamp.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt returns the last mutation timestamp.
func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// ChangeStatus applies a direct (non-checkpoint) status transition.
//
// Rules enforced:
//   - The stored status must be the canonical predecessor of next; a stored
//     status already equal to next means the transition was applied before,
//     and any other mismatch means the caller acted on stale state. Both
//     cases fail with a ConflictError, which makes retries idempotent.
//   - Cancelled is reachable from any non-terminal status; cancelling a
//     delivered order fails with an InvalidTransitionError.
//   - Transitions into assigned or out_for_delivery are rejected here: those
//     states are only entered through AcceptPickup / AcceptDelivery, which
//     write the winning driver id atomically with the status change.
//
// Example:
//
//	if err := order.ChangeStatus(order.DriverEnRoutePickup); err != nil {
//	    // Conflict: stale client, or InvalidTransition: illegal target
//	}
func (o *Order) ChangeStatus(next Status) error {
	if err := next.Validate(); err != nil {
		return err
	}

	if next == Cancelled {
		return o.cancel()
	}

	if next == Assigned || next == OutForDelivery {
		return errs.NewValidationFailedErrorWithCause("status",
			fmt.Errorf("%s is only entered through courier acceptance", next))
	}

	if o.status == next {
		return errs.NewConflictError("status", (next - 1).String(), o.status.String())
	}

	pred, ok := next.Predecessor()
	if !ok {
		return errs.NewInvalidTransitionError(o.status.String(), next.String())
	}
	if o.status != pred {
		if o.status.IsTerminal() {
			return errs.NewInvalidTransitionError(o.status.String(), next.String())
		}
		return errs.NewConflictError("status", pred.String(), o.status.String())
	}

	o.status = next
	o.touch()
	return nil
}

// ApplyCheckpointTransition advances the order to next, provided the stored
// status is one of the admissible source statuses for the checkpoint that
// requested the transition.
//
// Unlike ChangeStatus this accepts a set of source statuses, because couriers
// may legitimately skip intermediate taps (e.g. scanning pickup while still
// marked assigned). A stored status equal to next fails with ConflictError
// (duplicate scan); any other status outside the set fails with
// InvalidTransitionError.
func (o *Order) ApplyCheckpointTransition(next Status, from ...Status) error {
	if err := next.Validate(); err != nil {
		return err
	}

	if o.status == next {
		return errs.NewConflictError("status", statusSetString(from), o.status.String())
	}
	if o.status.IsTerminal() {
		return errs.NewInvalidTransitionError(o.status.String(), next.String())
	}

	for _, f := range from {
		if o.status == f {
			o.status = next
			o.touch()
			return nil
		}
	}

	return errs.NewInvalidTransitionError(o.status.String(), next.String())
}

// AcceptPickup commits the given courier as the pickup-leg winner and moves
// the order to assigned. The driver id and the status change are a single
// domain mutation so they persist atomically.
//
// Fails with ConflictError if the order is no longer pending. The acceptance
// arbiter translates that into AlreadyTaken for the losing courier.
func (o *Order) AcceptPickup(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	if o.status != Pending {
		return errs.NewConflictError("status", Pending.String(), o.status.String())
	}

	o.pickupDriverID = &driverID
	o.status = Assigned
	o.touch()
	return nil
}

// AcceptDelivery commits the given courier as the delivery-leg winner and
// moves the order to out_for_delivery. See AcceptPickup for the atomicity
// contract.
func (o *Order) AcceptDelivery(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	if o.status != Ready {
		return errs.NewConflictError("status", Ready.String(), o.status.String())
	}

	o.deliveryDriverID = &driverID
	o.status = OutForDelivery
	o.touch()
	return nil
}

// RecordPickupCount stores the item count observed at the pickup checkpoint.
// Returns true if the observed count diverges from the declared count; the
// divergence is recorded, never rejected, so a human can reconcile it.
func (o *Order) RecordPickupCount(count int) (bool, error) {
	if count < 0 {
		return false, errs.NewValueIsInvalidErrorWithCause("item_count",
			fmt.Errorf("%d is negative", count))
	}
	o.pickupItemCount = &count
	o.touch()
	return count != o.confirmedItemCount, nil
}

// RecordReceptionCount stores the item count observed at the facility
// reception checkpoint. The mismatch is computed against the pickup count
// when one was recorded, falling back to the declared count.
func (o *Order) RecordReceptionCount(count int) (bool, error) {
	if count < 0 {
		return false, errs.NewValueIsInvalidErrorWithCause("item_count",
			fmt.Errorf("%d is negative", count))
	}

	expected := o.confirmedItemCount
	if o.pickupItemCount != nil {
		expected = *o.pickupItemCount
	}

	o.receptionItemCount = &count
	o.touch()
	return count != expected, nil
}

// cancel aborts the order. Cancelled is absorbing; a delivered order can no
// longer be cancelled.
func (o *Order) cancel() error {
	if o.status == Cancelled {
		return errs.NewConflictError("status", "any non-terminal status", o.status.String())
	}
	if o.status == Delivered {
		return errs.NewInvalidTransitionError(o.status.String(), Cancelled.String())
	}

	o.status = Cancelled
	o.touch()
	return nil
}

func (o *Order) touch() {
	o.updatedAt = time.Now().UTC()
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setOrderNumber(orderNumber string) error {
	if strings.TrimSpace(orderNumber) == "" {
		return ErrOrderNumberIsRequired
	}
	o.orderNumber = orderNumber
	return nil
}

func (o *Order) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customer_id", err)
	}
	o.customerID = customerID
	return nil
}

func (o *Order) setLocations(pickupLocationID, deliveryLocationID kernel.UUID) error {
	if err := pickupLocationID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("pickup_location_id", err)
	}
	if err := deliveryLocationID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("delivery_location_id", err)
	}
	o.pickupLocationID = pickupLocationID
	o.deliveryLocationID = deliveryLocationID
	return nil
}

func (o *Order) setConfirmedItemCount(count int) error {
	if count <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("confirmed_item_count",
			fmt.Errorf("%d is not greater than 0", count))
	}
	o.confirmedItemCount = count
	return nil
}

func (o *Order) setCharges(charges Charges) error {
	if err := charges.Validate(); err != nil {
		return err
	}
	o.charges = charges
	return nil
}

// statusSetString formats a set of statuses for conflict messages.
func statusSetString(statuses []Status) string {
	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, s.String())
	}
	return strings.Join(names, "|")
}
