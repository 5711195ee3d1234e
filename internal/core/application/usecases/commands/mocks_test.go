package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"washline/internal/core/application/usecases/commands"
	"washline/internal/core/domain/model/checkpoint"
	"washline/internal/core/domain/model/courier"
	"washline/internal/core/domain/model/kernel"
	"washline/internal/core/domain/model/location"
	"washline/internal/core/domain/model/notification"
	"washline/internal/core/domain/model/order"
	"washline/internal/core/ports"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllInStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockNotificationRepository struct{ mock.Mock }

func (m *MockNotificationRepository) Add(ctx context.Context, aggregate *notification.Notification) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockNotificationRepository) Update(ctx context.Context, aggregate *notification.Notification) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockNotificationRepository) Get(ctx context.Context, orderID kernel.UUID, t notification.Type, sentTo kernel.UUID) (*notification.Notification, error) {
	args := m.Called(ctx, orderID, t, sentTo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Notification), args.Error(1)
}

func (m *MockNotificationRepository) HasAccepted(ctx context.Context, orderID kernel.UUID, t notification.Type) (bool, error) {
	args := m.Called(ctx, orderID, t)
	return args.Bool(0), args.Error(1)
}

type MockCheckpointRepository struct{ mock.Mock }

func (m *MockCheckpointRepository) Add(ctx context.Context, aggregate *checkpoint.Checkpoint) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockCheckpointRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*checkpoint.Checkpoint, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*checkpoint.Checkpoint), args.Error(1)
}

type MockCourierRepository struct{ mock.Mock }

func (m *MockCourierRepository) Add(ctx context.Context, aggregate *courier.Courier) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockCourierRepository) Update(ctx context.Context, aggregate *courier.Courier) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockCourierRepository) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.Courier), args.Error(1)
}

func (m *MockCourierRepository) GetAllEligible(ctx context.Context) ([]*courier.Courier, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*courier.Courier), args.Error(1)
}

type MockLocationRepository struct{ mock.Mock }

func (m *MockLocationRepository) Add(ctx context.Context, aggregate *location.Location) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockLocationRepository) Get(ctx context.Context, id kernel.UUID) (*location.Location, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*location.Location), args.Error(1)
}

func (m *MockLocationRepository) GetAllByCustomer(ctx context.Context, customerID kernel.UUID) ([]*location.Location, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*location.Location), args.Error(1)
}

// MockUoW satisfies every narrowed unit of work interface the handlers use.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) NotificationRepository() ports.NotificationRepository {
	args := m.Called()
	return args.Get(0).(ports.NotificationRepository)
}

func (m *MockUoW) CheckpointRepository() ports.CheckpointRepository {
	args := m.Called()
	return args.Get(0).(ports.CheckpointRepository)
}

func (m *MockUoW) CourierRepository() ports.CourierRepository {
	args := m.Called()
	return args.Get(0).(ports.CourierRepository)
}

func (m *MockUoW) LocationRepository() ports.LocationRepository {
	args := m.Called()
	return args.Get(0).(ports.LocationRepository)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW { return f() }

type FuncAcceptUoWFactory func() commands.AcceptUoW

func (f FuncAcceptUoWFactory) Create() commands.AcceptUoW { return f() }

type FuncCheckpointUoWFactory func() commands.CheckpointUoW

func (f FuncCheckpointUoWFactory) Create() commands.CheckpointUoW { return f() }

type FuncCourierUoWFactory func() commands.CourierUoW

func (f FuncCourierUoWFactory) Create() commands.CourierUoW { return f() }

type FuncLocationUoWFactory func() commands.LocationUoW

func (f FuncLocationUoWFactory) Create() commands.LocationUoW { return f() }

type FuncDispatchUoWFactory func() commands.DispatchUoW

func (f FuncDispatchUoWFactory) Create() commands.DispatchUoW { return f() }

// StubDispatcher records dispatched order ids.
type StubDispatcher struct {
	Dispatched []kernel.UUID
	Err        error
}

func (s *StubDispatcher) Dispatch(_ context.Context, orderID kernel.UUID) error {
	s.Dispatched = append(s.Dispatched, orderID)
	return s.Err
}

// StubPublisher records realtime events.
type StubPublisher struct {
	StatusUpdates []order.Status
	LegsOffered   []kernel.UUID
}

func (s *StubPublisher) PublishStatusUpdated(_ kernel.UUID, _ string, status order.Status) {
	s.StatusUpdates = append(s.StatusUpdates, status)
}

func (s *StubPublisher) PublishLegAvailable(courierID, _ kernel.UUID, _ string, _ notification.Type) {
	s.LegsOffered = append(s.LegsOffered, courierID)
}

// StubProducer records stream events.
type StubProducer struct {
	Produced []order.Status
	Err      error
}

func (s *StubProducer) ProduceOrderChanged(_ context.Context, _ kernel.UUID, _ string, status order.Status) error {
	s.Produced = append(s.Produced, status)
	return s.Err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCharges(t *testing.T) order.Charges {
	t.Helper()
	charges, err := order.NewCharges(2500, 500, 0, 240)
	require.NoError(t, err)
	return charges
}

func restoreOrderInStatus(t *testing.T, id kernel.UUID, status order.Status) *order.Order {
	t.Helper()

	var pickupDriverID, deliveryDriverID *kernel.UUID
	if status >= order.Assigned && status != order.Cancelled {
		driverID := kernel.NewUUID()
		pickupDriverID = &driverID
	}
	if status >= order.OutForDelivery && status != order.Cancelled {
		driverID := kernel.NewUUID()
		deliveryDriverID = &driverID
	}

	now := time.Now().UTC()
	ord, err := order.RestoreOrder(
		id, "ORD-TEST0001", status,
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		10, nil, nil, false, testCharges(t),
		pickupDriverID, deliveryDriverID,
		now, now, now,
	)
	require.NoError(t, err)
	return ord
}
