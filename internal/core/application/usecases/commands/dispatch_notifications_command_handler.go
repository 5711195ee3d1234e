package commands

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"washline/internal/core/domain/model/courier"
	"washline/internal/core/domain/model/kernel"
	"washline/internal/core/domain/model/notification"
	"washline/internal/core/domain/model/order"
	"washline/internal/core/ports"
	"washline/internal/pkg/metrics"
)

// fanoutConcurrency caps parallel notification inserts per dispatch.
const fanoutConcurrency = 8

// DispatchNotificationsCommandHandler fans out acceptance notifications to
// every eligible courier for an order's open leg.
//
// Fanout is idempotent: each notification is inserted with its own short
// transaction and the storage layer ignores duplicates, so re-dispatching
// the same order (handler retry, sweep job) only tops up couriers that were
// missed before. Couriers who already accepted are never re-notified.
type DispatchNotificationsCommandHandler struct {
	uowFactory DispatchUoWFactory
	publisher  ports.EventPublisher
	log        *slog.Logger
}

// NewDispatchNotificationsCommandHandler creates the fanout handler.
func NewDispatchNotificationsCommandHandler(
	uowFactory DispatchUoWFactory,
	publisher ports.EventPublisher,
	log *slog.Logger,
) DispatchNotificationsCommandHandler {
	return DispatchNotificationsCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		log:        log,
	}
}

// Dispatch is a convenience wrapper so the handler satisfies
// NotificationDispatcher for the command handlers that trigger fanout.
func (h *DispatchNotificationsCommandHandler) Dispatch(ctx context.Context, orderID kernel.UUID) error {
	cmd, err := NewDispatchNotificationsCommand(orderID)
	if err != nil {
		return err
	}
	return h.Handle(ctx, cmd)
}

// Handle fans out notifications for the order's open leg.
//
// An order whose status opens no leg (anything but pending or ready) is a
// no-op, not an error: the sweep job calls this for whole status buckets
// and individual orders may have moved on since they were listed.
func (h *DispatchNotificationsCommandHandler) Handle(ctx context.Context, cmd DispatchNotificationsCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	ord, couriers, err := h.loadTargets(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	t, open := openLeg(ord.Status())
	if !open {
		return nil
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(fanoutConcurrency)

	for _, eligible := range couriers {
		group.Go(func() error {
			return h.notifyCourier(groupCtx, ord, eligible, t)
		})
	}

	if err = group.Wait(); err != nil {
		return err
	}

	h.log.InfoContext(ctx, "notification fanout completed",
		"orderID", ord.ID().String(),
		"notificationType", t.String(),
		"couriers", len(couriers))

	return nil
}

// loadTargets reads the order and the eligible couriers in one read-only
// transaction.
func (h *DispatchNotificationsCommandHandler) loadTargets(ctx context.Context, orderID kernel.UUID) (*order.Order, []*courier.Courier, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ord, err := uow.OrderRepository().Get(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	couriers, err := uow.CourierRepository().GetAllEligible(ctx)
	if err != nil {
		return nil, nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, nil, err
	}

	return ord, couriers, nil
}

// notifyCourier inserts one courier's notification in its own transaction
// and pushes the realtime event. The insert is a no-op when the courier was
// already notified.
func (h *DispatchNotificationsCommandHandler) notifyCourier(ctx context.Context, ord *order.Order, eligible *courier.Courier, t notification.Type) error {
	courierNotification, err := notification.NewNotification(kernel.NewUUID(), ord.ID(), eligible.ID(), t)
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

	if err = uow.NotificationRepository().Add(ctx, courierNotification); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.PublishLegAvailable(eligible.ID(), ord.ID(), ord.OrderNumber(), t)
	metrics.NotificationsDispatchedTotal.Inc()
	return nil
}

// openLeg maps an order status to the notification type it opens.
func openLeg(s order.Status) (notification.Type, bool) {
	switch s {
	case order.Pending:
		return notification.TypePickupAvailable, true
	case order.Ready:
		return notification.TypeDeliveryAvailable, true
	default:
		return notification.TypeUnknown, false
	}
}
