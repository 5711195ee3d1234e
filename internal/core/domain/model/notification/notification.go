// Package notification provides the CourierNotification aggregate, the record
// of one courier being offered one dispatchable leg of an order.
//
// Many notifications exist per (order, type) pair, one per eligible courier at
// fanout time, but at most one of them is ever accepted. The acceptance
// arbiter flips the winner's is_accepted flag exactly once; losing rows stay
// false and drop out of courier listings once the order leaves the window in
// which the notification type applies.
package notification

import (
	"errors"
	"fmt"
	"time"

	"washline/internal/core/domain/model/kernel"
	"washline/internal/core/domain/model/order"
	"washline/internal/pkg/errs"
	"washline/internal/pkg/guard"
)

// ErrNotificationIsNotConstructed is returned when a Notification instance was
// not created through a factory method.
var ErrNotificationIsNotConstructed = errors.New(
	"Notification must be created via NewNotification or RestoreNotification",
)

// Type identifies which leg of an order a notification offers.
type Type int

const (
	// TypeUnknown represents an invalid or undefined notification type.
	TypeUnknown Type = iota

	// TypePickupAvailable offers the pickup leg of a pending order.
	TypePickupAvailable

	// TypeDeliveryAvailable offers the delivery leg of a ready order.
	TypeDeliveryAvailable
)

func getTypeStrings() map[Type]string {
	return map[Type]string{
		TypePickupAvailable:   "pickup_available",
		TypeDeliveryAvailable: "delivery_available",
	}
}

// ParseType converts a notification type string to its Type value.
func ParseType(s string) (Type, error) {
	for t, name := range getTypeStrings() {
		if name == s {
			return t, nil
		}
	}
	return TypeUnknown, errs.NewValueIsInvalidErrorWithCause("notification_type",
		fmt.Errorf("%q is not a known notification type", s))
}

// Validate checks if the Type value is valid.
func (t Type) Validate() error {
	if _, ok := getTypeStrings()[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("notification_type",
			fmt.Errorf("%d is not a valid notification type", t))
	}
	return nil
}

// String returns the wire name of the notification type.
func (t Type) String() string {
	if s, ok := getTypeStrings()[t]; ok {
		return s
	}
	return "unknown"
}

// WindowStatus returns the order status during which this notification type
// can still be accepted. Once the order leaves this status the offer is gone:
// either another courier won the leg or the order was cancelled.
func (t Type) WindowStatus() order.Status {
	switch t {
	case TypeDeliveryAvailable:
		return order.Ready
	default:
		return order.Pending
	}
}

// Notification is the aggregate root for a single courier's offer of a single
// order leg. Its only mutation is Accept, performed once, by the arbiter, for
// the winning courier.
type Notification struct {
	// id is the unique identifier of the notification row
	id kernel.UUID

	// orderID is the order whose leg is offered
	orderID kernel.UUID

	// sentTo is the courier the offer was fanned out to
	sentTo kernel.UUID

	// notificationType identifies the offered leg
	notificationType Type

	// isAccepted is flipped false -> true exactly once, for the winner
	isAccepted bool

	// sentAt is the fanout timestamp
	sentAt time.Time

	guard guard.ConstructorGuard
}

// NewNotification creates an unaccepted notification for the given courier and leg.
func NewNotification(id, orderID, sentTo kernel.UUID, t Type) (*Notification, error) {
	n := &Notification{
		notificationType: t,
		sentAt:           time.Now().UTC(),
		guard:            guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		n.setID(id),
		n.setOrderID(orderID),
		n.setSentTo(sentTo),
		t.Validate(),
	); err != nil {
		return nil, err
	}

	return n, nil
}

// RestoreNotification rebuilds a notification from persistence.
func RestoreNotification(
	id, orderID, sentTo kernel.UUID,
	t Type,
	isAccepted bool,
	sentAt time.Time,
) (*Notification, error) {
	n := &Notification{
		notificationType: t,
		isAccepted:       isAccepted,
		sentAt:           sentAt,
		guard:            guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		n.setID(id),
		n.setOrderID(orderID),
		n.setSentTo(sentTo),
		t.Validate(),
	); err != nil {
		return nil, err
	}

	return n, nil
}

// Validate ensures the Notification was properly constructed through a factory method.
func (n *Notification) Validate() error {
	if n == nil {
		return ErrNotificationIsNotConstructed
	}
	return n.guard.Validate(ErrNotificationIsNotConstructed)
}

// ID returns the notification's unique identifier.
func (n *Notification) ID() kernel.UUID {
	return n.id
}

// OrderID returns the order whose leg is offered.
func (n *Notification) OrderID() kernel.UUID {
	return n.orderID
}

// SentTo returns the courier the offer was fanned out to.
func (n *Notification) SentTo() kernel.UUID {
	return n.sentTo
}

// Type returns the offered leg's notification type.
func (n *Notification) Type() Type {
	return n.notificationType
}

// IsAccepted reports whether this courier won the offered leg.
func (n *Notification) IsAccepted() bool {
	return n.isAccepted
}

// SentAt returns the fanout timestamp.
func (n *Notification) SentAt() time.Time {
	return n.sentAt
}

// Accept marks this notification as the winning acceptance for its
// (order, type) pair. Accepting an already accepted notification fails with
// AlreadyTaken; the uniqueness of the winner across the pair is enforced by
// the arbiter under the order row lock.
func (n *Notification) Accept() error {
	if n.isAccepted {
		return errs.NewAlreadyTakenError(n.orderID.String(), n.notificationType.String())
	}
	n.isAccepted = true
	return nil
}

func (n *Notification) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	n.id = id
	return nil
}

func (n *Notification) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("order_id", err)
	}
	n.orderID = orderID
	return nil
}

func (n *Notification) setSentTo(sentTo kernel.UUID) error {
	if err := sentTo.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("sent_to", err)
	}
	n.sentTo = sentTo
	return nil
}
