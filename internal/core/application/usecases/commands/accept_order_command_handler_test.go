package commands_test

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"washline/internal/core/application/usecases/commands"
	"washline/internal/core/domain/model/kernel"
	"washline/internal/core/domain/model/notification"
	"washline/internal/core/domain/model/order"
	"washline/internal/pkg/errs"
)

func newAcceptHandler(uow commands.AcceptUoW, publisher *StubPublisher, producer *StubProducer) commands.AcceptOrderCommandHandler {
	return commands.NewAcceptOrderCommandHandler(
		FuncAcceptUoWFactory(func() commands.AcceptUoW { return uow }),
		publisher, producer, discardLogger())
}

func TestAcceptOrderCommandHandler_Handle_PickupWin(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	courierID := kernel.NewUUID()
	ord := restoreOrderInStatus(t, orderID, order.Pending)
	pending, err := notification.NewNotification(kernel.NewUUID(), orderID, courierID, notification.TypePickupAvailable)
	require.NoError(t, err)

	cmd, err := commands.NewAcceptOrderCommand(orderID, courierID, notification.TypePickupAvailable)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	notificationRepo := new(MockNotificationRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetForUpdate", mock.Anything, orderID).Return(ord, nil).Once(),
		uow.On("NotificationRepository").Return(notificationRepo).Once(),
		notificationRepo.On("HasAccepted", mock.Anything, orderID, notification.TypePickupAvailable).Return(false, nil).Once(),
		notificationRepo.On("Get", mock.Anything, orderID, notification.TypePickupAvailable, courierID).Return(pending, nil).Once(),
		notificationRepo.On("Update", mock.Anything, pending).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Update", mock.Anything, ord).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	publisher := &StubPublisher{}
	producer := &StubProducer{}
	h := newAcceptHandler(uow, publisher, producer)

	require.NoError(t, h.Handle(ctx, cmd))
	uow.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
	notificationRepo.AssertExpectations(t)

	require.Equal(t, order.Assigned, ord.Status())
	require.NotNil(t, ord.PickupDriver())
	require.True(t, courierID.IsEqual(*ord.PickupDriver()))
	require.True(t, pending.IsAccepted())
	require.Equal(t, []order.Status{order.Assigned}, publisher.StatusUpdates)
	require.Equal(t, []order.Status{order.Assigned}, producer.Produced)
}

func TestAcceptOrderCommandHandler_Handle_DeliveryWin(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	courierID := kernel.NewUUID()
	ord := restoreOrderInStatus(t, orderID, order.Ready)
	pending, err := notification.NewNotification(kernel.NewUUID(), orderID, courierID, notification.TypeDeliveryAvailable)
	require.NoError(t, err)

	cmd, err := commands.NewAcceptOrderCommand(orderID, courierID, notification.TypeDeliveryAvailable)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	notificationRepo := new(MockNotificationRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("NotificationRepository").Return(notificationRepo)
	orderRepo.On("GetForUpdate", mock.Anything, orderID).Return(ord, nil).Once()
	notificationRepo.On("HasAccepted", mock.Anything, orderID, notification.TypeDeliveryAvailable).Return(false, nil).Once()
	notificationRepo.On("Get", mock.Anything, orderID, notification.TypeDeliveryAvailable, courierID).Return(pending, nil).Once()
	notificationRepo.On("Update", mock.Anything, pending).Return(nil).Once()
	orderRepo.On("Update", mock.Anything, ord).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	h := newAcceptHandler(uow, &StubPublisher{}, &StubProducer{})

	require.NoError(t, h.Handle(ctx, cmd))
	require.Equal(t, order.OutForDelivery, ord.Status())
	require.NotNil(t, ord.DeliveryDriver())
	require.True(t, courierID.IsEqual(*ord.DeliveryDriver()))
}

func TestAcceptOrderCommandHandler_Handle_LegAlreadyTaken(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	courierID := kernel.NewUUID()
	ord := restoreOrderInStatus(t, orderID, order.Assigned)

	cmd, err := commands.NewAcceptOrderCommand(orderID, courierID, notification.TypePickupAvailable)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	notificationRepo := new(MockNotificationRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("NotificationRepository").Return(notificationRepo)
	orderRepo.On("GetForUpdate", mock.Anything, orderID).Return(ord, nil).Once()
	notificationRepo.On("HasAccepted", mock.Anything, orderID, notification.TypePickupAvailable).Return(true, nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	publisher := &StubPublisher{}
	h := newAcceptHandler(uow, publisher, &StubProducer{})

	err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrAlreadyTaken)
	require.Empty(t, publisher.StatusUpdates)
	uow.AssertExpectations(t)
}

func TestAcceptOrderCommandHandler_Handle_WindowClosedByWinner(t *testing.T) {
	// The winner advanced the order past the window but this courier's read
	// of the acceptance flag raced ahead; the order state is authoritative.
	ctx := t.Context()
	orderID := kernel.NewUUID()
	courierID := kernel.NewUUID()
	ord := restoreOrderInStatus(t, orderID, order.PickedUp)
	pending, err := notification.NewNotification(kernel.NewUUID(), orderID, courierID, notification.TypePickupAvailable)
	require.NoError(t, err)

	cmd, err := commands.NewAcceptOrderCommand(orderID, courierID, notification.TypePickupAvailable)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	notificationRepo := new(MockNotificationRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("NotificationRepository").Return(notificationRepo)
	orderRepo.On("GetForUpdate", mock.Anything, orderID).Return(ord, nil).Once()
	notificationRepo.On("HasAccepted", mock.Anything, orderID, notification.TypePickupAvailable).Return(false, nil).Once()
	notificationRepo.On("Get", mock.Anything, orderID, notification.TypePickupAvailable, courierID).Return(pending, nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	h := newAcceptHandler(uow, &StubPublisher{}, &StubProducer{})

	err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrAlreadyTaken)
}

func TestAcceptOrderCommandHandler_Handle_CancelledOrderIsConflict(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	courierID := kernel.NewUUID()
	ord := restoreOrderInStatus(t, orderID, order.Cancelled)
	pending, err := notification.NewNotification(kernel.NewUUID(), orderID, courierID, notification.TypePickupAvailable)
	require.NoError(t, err)

	cmd, err := commands.NewAcceptOrderCommand(orderID, courierID, notification.TypePickupAvailable)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	notificationRepo := new(MockNotificationRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("NotificationRepository").Return(notificationRepo)
	orderRepo.On("GetForUpdate", mock.Anything, orderID).Return(ord, nil).Once()
	notificationRepo.On("HasAccepted", mock.Anything, orderID, notification.TypePickupAvailable).Return(false, nil).Once()
	notificationRepo.On("Get", mock.Anything, orderID, notification.TypePickupAvailable, courierID).Return(pending, nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	h := newAcceptHandler(uow, &StubPublisher{}, &StubProducer{})

	err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrConflict)
	require.NotErrorIs(t, err, errs.ErrAlreadyTaken)
}

func TestAcceptOrderCommandHandler_Handle_UnknownNotification(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	courierID := kernel.NewUUID()
	ord := restoreOrderInStatus(t, orderID, order.Pending)

	cmd, err := commands.NewAcceptOrderCommand(orderID, courierID, notification.TypePickupAvailable)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	notificationRepo := new(MockNotificationRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("NotificationRepository").Return(notificationRepo)
	orderRepo.On("GetForUpdate", mock.Anything, orderID).Return(ord, nil).Once()
	notificationRepo.On("HasAccepted", mock.Anything, orderID, notification.TypePickupAvailable).Return(false, nil).Once()
	notificationRepo.On("Get", mock.Anything, orderID, notification.TypePickupAvailable, courierID).
		Return(nil, errs.NewObjectNotFoundError("notification", orderID.String())).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	h := newAcceptHandler(uow, &StubPublisher{}, &StubProducer{})

	err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}
