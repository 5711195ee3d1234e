package commands_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"washline/internal/core/application/usecases/commands"
	"washline/internal/core/domain/model/kernel"
	"washline/internal/core/domain/model/order"
)

func newCreateOrderCommand(t *testing.T, orderID kernel.UUID) commands.CreateOrderCommand {
	t.Helper()
	cmd, err := commands.NewCreateOrderCommand(
		orderID, kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		10, false, 2500, 500, 0, 240,
		time.Now().Add(2*time.Hour),
	)
	require.NoError(t, err)
	return cmd
}

func TestCreateOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	cmd := newCreateOrderCommand(t, orderID)

	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	dispatcher := &StubDispatcher{}
	producer := &StubProducer{}

	h := commands.NewCreateOrderCommandHandler(
		FuncOrderUoWFactory(func() commands.OrderUoW { return uow }),
		dispatcher, producer, discardLogger())

	err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)

	require.Equal(t, []kernel.UUID{orderID}, dispatcher.Dispatched)
	require.Equal(t, []order.Status{order.Pending}, producer.Produced)
}

func TestCreateOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	cmd := commands.CreateOrderCommand{} // not constructed properly
	h := commands.NewCreateOrderCommandHandler(nil, nil, nil, discardLogger())
	err := h.Handle(t.Context(), cmd)
	require.Error(t, err)
}

func TestCreateOrderCommandHandler_Handle_AddError(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateOrderCommand(t, kernel.NewUUID())

	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).Return(errors.New("add error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	dispatcher := &StubDispatcher{}

	h := commands.NewCreateOrderCommandHandler(
		FuncOrderUoWFactory(func() commands.OrderUoW { return uow }),
		dispatcher, &StubProducer{}, discardLogger())

	err := h.Handle(ctx, cmd)
	require.Error(t, err)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	require.Empty(t, dispatcher.Dispatched, "fanout must not run for an uncommitted order")
}

func TestCreateOrderCommandHandler_Handle_FanoutFailureDoesNotFailPlacement(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateOrderCommand(t, kernel.NewUUID())

	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	repo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	dispatcher := &StubDispatcher{Err: errors.New("fanout down")}
	producer := &StubProducer{Err: errors.New("broker down")}

	h := commands.NewCreateOrderCommandHandler(
		FuncOrderUoWFactory(func() commands.OrderUoW { return uow }),
		dispatcher, producer, discardLogger())

	err := h.Handle(ctx, cmd)
	require.NoError(t, err)
}
