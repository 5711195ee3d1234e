package commands

import (
	"context"
	"log/slog"
	"strings"

	"washline/internal/core/domain/model/kernel"
	"washline/internal/core/domain/model/order"
	"washline/internal/core/ports"
)

// CreateOrderCommandHandler handles the business logic for placing orders.
// Creates the order in "pending" status and fans out pickup notifications
// to eligible couriers once the order is committed.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, dispatcher, producer, logger)
//	cmd, _ := NewCreateOrderCommand(...)
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("order creation failed: %w", err)
//	}
//	// Order is now pending and couriers are being notified
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	dispatcher NotificationDispatcher
	producer   ports.OrderStreamProducer
	log        *slog.Logger
}

// NewCreateOrderCommandHandler creates a handler for order placement.
// Requires an OrderUoWFactory for transactional persistence; dispatcher
// and producer run after commit and are best effort.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	dispatcher NotificationDispatcher,
	producer ports.OrderStreamProducer,
	log *slog.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
		producer:   producer,
		log:        log,
	}
}

// Handle processes the order placement command.
// Generates the human-readable order number, persists the order in
// "pending" status and triggers the pickup fanout. Fanout and stream
// publishing failures do not fail the placement; the sweep job retries
// fanout on the next tick.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	charges, err := order.NewCharges(
		cmd.SubtotalCents(), cmd.DeliveryFeeCents(), cmd.ExpressFeeCents(), cmd.TaxCents())
	if err != nil {
		return err
	}

	newOrder, err := order.NewOrder(
		cmd.OrderID(),
		newOrderNumber(cmd.OrderID()),
		cmd.CustomerID(),
		cmd.PickupLocationID(),
		cmd.DeliveryLocationID(),
		cmd.ItemCount(),
		cmd.IsExpress(),
		charges,
		cmd.ScheduledPickupAt(),
	)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, newOrder); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if err = h.dispatcher.Dispatch(ctx, newOrder.ID()); err != nil {
		h.log.WarnContext(ctx, "pickup fanout failed, sweep will retry",
			"orderID", newOrder.ID().String(), "error", err)
	}

	if err = h.producer.ProduceOrderChanged(ctx, newOrder.ID(), newOrder.OrderNumber(), newOrder.Status()); err != nil {
		h.log.WarnContext(ctx, "order stream publish failed",
			"orderID", newOrder.ID().String(), "error", err)
	}

	return nil
}

// newOrderNumber derives the customer-facing order number from the order
// identifier: "ORD-" followed by the first eight hex digits, uppercased.
func newOrderNumber(id kernel.UUID) string {
	hex := strings.ReplaceAll(id.String(), "-", "")
	return "ORD-" + strings.ToUpper(hex[:8])
}
