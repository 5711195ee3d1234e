// Package checkpoint provides the Checkpoint aggregate, the immutable record
// of one scan event in an order's custody chain.
//
// Checkpoints are append-only: once recorded they are never mutated, so the
// sequence of checkpoints for an order is its full audit history. Each
// checkpoint type knows which order statuses it may be scanned from and which
// status it advances the order to; the verifier in the services package uses
// that to validate scans against the state machine.
package checkpoint

import (
	"errors"
	"fmt"
	"time"

	"washline/internal/core/domain/model/kernel"
	"washline/internal/core/domain/model/order"
	"washline/internal/pkg/errs"
	"washline/internal/pkg/guard"
)

// ErrCheckpointIsNotConstructed is returned when a Checkpoint instance was not
// created through a factory method.
var ErrCheckpointIsNotConstructed = errors.New(
	"Checkpoint must be created via NewCheckpoint or RestoreCheckpoint",
)

// Type identifies the scan event in the order's custody chain.
type Type int

const (
	// TypeUnknown represents an invalid or undefined checkpoint type.
	TypeUnknown Type = iota

	// TypePickedUp is the courier's scan when collecting items from the customer.
	TypePickedUp

	// TypeReceived is the facility's scan when items arrive at the base.
	TypeReceived

	// TypeReady is the facility's scan when cleaning is finished.
	TypeReady

	// TypeDelivered is the courier's scan when handing items back to the customer.
	TypeDelivered
)

func getTypeStrings() map[Type]string {
	return map[Type]string{
		TypePickedUp:  "picked_up",
		TypeReceived:  "received",
		TypeReady:     "ready",
		TypeDelivered: "delivered",
	}
}

// ParseType converts a checkpoint type string to its Type value.
func ParseType(s string) (Type, error) {
	for t, name := range getTypeStrings() {
		if name == s {
			return t, nil
		}
	}
	return TypeUnknown, errs.NewValueIsInvalidErrorWithCause("checkpoint",
		fmt.Errorf("%q is not a known checkpoint type", s))
}

// Validate checks if the Type value is valid.
func (t Type) Validate() error {
	if _, ok := getTypeStrings()[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("checkpoint",
			fmt.Errorf("%d is not a valid checkpoint type", t))
	}
	return nil
}

// String returns the wire name of the checkpoint type.
func (t Type) String() string {
	if s, ok := getTypeStrings()[t]; ok {
		return s
	}
	return "unknown"
}

// TargetStatus returns the order status the checkpoint advances the order to.
func (t Type) TargetStatus() order.Status {
	switch t {
	case TypePickedUp:
		return order.PickedUp
	case TypeReceived:
		return order.InFacility
	case TypeReady:
		return order.Ready
	case TypeDelivered:
		return order.Delivered
	default:
		return order.Unknown
	}
}

// SourceStatuses returns the order statuses the checkpoint may be scanned
// from. The sets are wider than the strict predecessor where field reality
// demands it: couriers routinely scan pickup without having tapped the
// en-route and arrived buttons, and facilities may scan ready without an
// explicit cleaning tap.
func (t Type) SourceStatuses() []order.Status {
	switch t {
	case TypePickedUp:
		return []order.Status{order.Assigned, order.DriverEnRoutePickup, order.ArrivedPickup}
	case TypeReceived:
		return []order.Status{order.PickedUp}
	case TypeReady:
		return []order.Status{order.InFacility, order.Cleaning}
	case TypeDelivered:
		return []order.Status{order.OutForDelivery, order.ArrivedDelivery}
	default:
		return nil
	}
}

// RequiresSignature reports whether the checkpoint is a custody handover that
// must carry the counterparty's signature.
func (t Type) RequiresSignature() bool {
	return t == TypePickedUp || t == TypeDelivered
}

// RequiresItemCount reports whether the checkpoint must record an observed
// item count. Pickup and reception establish the counts the rest of the
// chain reconciles against.
func (t Type) RequiresItemCount() bool {
	return t == TypePickedUp || t == TypeReceived
}

// Checkpoint is the immutable record of one scan event for one order.
type Checkpoint struct {
	// id is the unique identifier of the checkpoint record
	id kernel.UUID

	// orderID is the order the scan belongs to
	orderID kernel.UUID

	// checkpointType identifies the scan event
	checkpointType Type

	// actorID is the courier or cleaner who performed the scan
	actorID kernel.UUID

	// itemCount is the count observed at the scan (nil when not applicable)
	itemCount *int

	// signatureData is the captured signature for custody handovers
	signatureData *string

	// photos holds references to photos captured at the scan
	photos []string

	// notes is free-text entered by the actor
	notes string

	// recordedAt is when the scan was recorded
	recordedAt time.Time

	guard guard.ConstructorGuard
}

// NewCheckpoint creates a checkpoint record for a scan event.
//
// Validation applied:
//   - the checkpoint type must be valid
//   - custody handovers (picked_up, delivered) must carry a signature,
//     otherwise the scan fails with ValidationFailed
//   - pickup and reception scans must carry an item count
//   - a present item count must be non-negative
func NewCheckpoint(
	id, orderID kernel.UUID,
	t Type,
	actorID kernel.UUID,
	itemCount *int,
	signatureData *string,
	photos []string,
	notes string,
) (*Checkpoint, error) {
	c := &Checkpoint{
		checkpointType: t,
		itemCount:      itemCount,
		signatureData:  signatureData,
		photos:         photos,
		notes:          notes,
		recordedAt:     time.Now().UTC(),
		guard:          guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(id),
		c.setOrderID(orderID),
		c.setActorID(actorID),
		t.Validate(),
	); err != nil {
		return nil, err
	}

	if t.RequiresSignature() && (signatureData == nil || *signatureData == "") {
		return nil, errs.NewValidationFailedError("signature_data")
	}
	if t.RequiresItemCount() && itemCount == nil {
		return nil, errs.NewValidationFailedError("item_count")
	}
	if itemCount != nil && *itemCount < 0 {
		return nil, errs.NewValidationFailedErrorWithCause("item_count",
			fmt.Errorf("%d is negative", *itemCount))
	}

	return c, nil
}

// RestoreCheckpoint rebuilds a checkpoint record from persistence.
func RestoreCheckpoint(
	id, orderID kernel.UUID,
	t Type,
	actorID kernel.UUID,
	itemCount *int,
	signatureData *string,
	photos []string,
	notes string,
	recordedAt time.Time,
) (*Checkpoint, error) {
	c := &Checkpoint{
		checkpointType: t,
		itemCount:      itemCount,
		signatureData:  signatureData,
		photos:         photos,
		notes:          notes,
		recordedAt:     recordedAt,
		guard:          guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(id),
		c.setOrderID(orderID),
		c.setActorID(actorID),
		t.Validate(),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate ensures the Checkpoint was properly constructed through a factory method.
func (c *Checkpoint) Validate() error {
	if c == nil {
		return ErrCheckpointIsNotConstructed
	}
	return c.guard.Validate(ErrCheckpointIsNotConstructed)
}

// ID returns the checkpoint record's unique identifier.
func (c *Checkpoint) ID() kernel.UUID {
	return c.id
}

// OrderID returns the order the scan belongs to.
func (c *Checkpoint) OrderID() kernel.UUID {
	return c.orderID
}

// Type returns the checkpoint type of the scan.
func (c *Checkpoint) Type() Type {
	return c.checkpointType
}

// ActorID returns the courier or cleaner who performed the scan.
func (c *Checkpoint) ActorID() kernel.UUID {
	return c.actorID
}

// ItemCount returns the observed item count, or nil when not applicable.
func (c *Checkpoint) ItemCount() *int {
	return c.itemCount
}

// SignatureData returns the captured signature, or nil for scans without one.
func (c *Checkpoint) SignatureData() *string {
	return c.signatureData
}

// Photos returns references to photos captured at the scan.
func (c *Checkpoint) Photos() []string {
	return c.photos
}

// Notes returns the actor's free-text notes.
func (c *Checkpoint) Notes() string {
	return c.notes
}

// RecordedAt returns when the scan was recorded.
func (c *Checkpoint) RecordedAt() time.Time {
	return c.recordedAt
}

func (c *Checkpoint) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Checkpoint) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("order_id", err)
	}
	c.orderID = orderID
	return nil
}

func (c *Checkpoint) setActorID(actorID kernel.UUID) error {
	if err := actorID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("actor_id", err)
	}
	c.actorID = actorID
	return nil
}
