package commands

import (
	"context"
	"log/slog"

	"washline/internal/core/domain/model/order"
	"washline/internal/core/ports"
)

// ChangeOrderStatusCommandHandler handles direct status changes.
// Enforces the one-step predecessor rule through the order aggregate:
// a stale client fails with Conflict, an illegal target with
// InvalidTransition.
//
// When the change lands the order on "ready" the delivery leg opens up,
// so the handler triggers delivery fanout after commit.
type ChangeOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	dispatcher NotificationDispatcher
	publisher  ports.EventPublisher
	producer   ports.OrderStreamProducer
	log        *slog.Logger
}

// NewChangeOrderStatusCommandHandler creates a handler for direct status changes.
func NewChangeOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	dispatcher NotificationDispatcher,
	publisher ports.EventPublisher,
	producer ports.OrderStreamProducer,
	log *slog.Logger,
) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
		publisher:  publisher,
		producer:   producer,
		log:        log,
	}
}

// Handle processes a direct status change under a row lock on the order.
func (h *ChangeOrderStatusCommandHandler) Handle(ctx context.Context, cmd ChangeOrderStatusCommand) error {
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

	if err = ord.ChangeStatus(cmd.Next()); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, ord); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.log.InfoContext(ctx, "order status changed",
		"orderID", ord.ID().String(), "status", ord.Status().String(), "notes", cmd.Notes())

	h.publisher.PublishStatusUpdated(ord.ID(), ord.OrderNumber(), ord.Status())

	if err = h.producer.ProduceOrderChanged(ctx, ord.ID(), ord.OrderNumber(), ord.Status()); err != nil {
		h.log.WarnContext(ctx, "order stream publish failed",
			"orderID", ord.ID().String(), "error", err)
	}

	if ord.Status() == order.Ready {
		if err = h.dispatcher.Dispatch(ctx, ord.ID()); err != nil {
			h.log.WarnContext(ctx, "delivery fanout failed, sweep will retry",
				"orderID", ord.ID().String(), "error", err)
		}
	}

	return nil
}
