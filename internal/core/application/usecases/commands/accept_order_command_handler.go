package commands

import (
	"context"
	"errors"
	"log/slog"

	"washline/internal/core/domain/model/notification"
	"washline/internal/core/domain/model/order"
	"washline/internal/core/ports"
	"washline/internal/pkg/errs"
)

// AcceptOrderCommandHandler is the acceptance arbiter. It decides, under a
// row lock on the order, which courier wins an open leg.
//
// Arbitration protocol:
//  1. Lock the order row (SELECT ... FOR UPDATE); competing couriers for
//     the same order serialize here.
//  2. Reject with AlreadyTaken when any courier already accepted this leg.
//  3. Flip this courier's notification to accepted.
//  4. Assign the courier to the leg; the order moves to assigned or
//     out_for_delivery and records the driver id in the same transaction.
//
// A courier who loses the race observes AlreadyTaken, never a partial
// assignment: either all four steps commit or none do.
type AcceptOrderCommandHandler struct {
	uowFactory AcceptUoWFactory
	publisher  ports.EventPublisher
	producer   ports.OrderStreamProducer
	log        *slog.Logger
}

// NewAcceptOrderCommandHandler creates the acceptance arbiter handler.
func NewAcceptOrderCommandHandler(
	uowFactory AcceptUoWFactory,
	publisher ports.EventPublisher,
	producer ports.OrderStreamProducer,
	log *slog.Logger,
) AcceptOrderCommandHandler {
	return AcceptOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		producer:   producer,
		log:        log,
	}
}

// Handle processes an acceptance attempt.
//
// Returns errs.ErrAlreadyTaken when another courier won the leg first,
// errs.ErrObjectNotFound when the order or the courier's notification does
// not exist, and errs.ErrConflict when the order left the acceptance window
// without the leg being taken (e.g. the order was cancelled).
func (h *AcceptOrderCommandHandler) Handle(ctx context.Context, cmd AcceptOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ord, err := uow.OrderRepository().GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	notificationRepo := uow.NotificationRepository()

	taken, err := notificationRepo.HasAccepted(ctx, cmd.OrderID(), cmd.NotificationType())
	if err != nil {
		return err
	}
	if taken {
		return errs.NewAlreadyTakenError(cmd.OrderID().String(), cmd.NotificationType().String())
	}

	courierNotification, err := notificationRepo.Get(ctx, cmd.OrderID(), cmd.NotificationType(), cmd.CourierID())
	if err != nil {
		return err
	}

	if err = courierNotification.Accept(); err != nil {
		return err
	}

	if err = h.assignLeg(ord, cmd); err != nil {
		return err
	}

	if err = notificationRepo.Update(ctx, courierNotification); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, ord); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.PublishStatusUpdated(ord.ID(), ord.OrderNumber(), ord.Status())

	if err = h.producer.ProduceOrderChanged(ctx, ord.ID(), ord.OrderNumber(), ord.Status()); err != nil {
		h.log.WarnContext(ctx, "order stream publish failed",
			"orderID", ord.ID().String(), "error", err)
	}

	return nil
}

// assignLeg applies the leg assignment to the order. A Conflict from the
// order means the acceptance window closed after the notification went out;
// when the window closed because a winner advanced the order, the courier
// sees AlreadyTaken.
func (h *AcceptOrderCommandHandler) assignLeg(ord *order.Order, cmd AcceptOrderCommand) error {
	var err error
	switch cmd.NotificationType() {
	case notification.TypePickupAvailable:
		err = ord.AcceptPickup(cmd.CourierID())
	case notification.TypeDeliveryAvailable:
		err = ord.AcceptDelivery(cmd.CourierID())
	default:
		return errs.NewValueIsInvalidError("notificationType")
	}

	if errors.Is(err, errs.ErrConflict) && ord.Status() > cmd.NotificationType().WindowStatus() && ord.Status() != order.Cancelled {
		return errs.NewAlreadyTakenError(cmd.OrderID().String(), cmd.NotificationType().String())
	}

	return err
}
