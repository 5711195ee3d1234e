package notificationrepo_test

import (
	"context"
	"testing"
	"time"

	"washline/internal/adapters/out/postgres/notificationrepo"
	"washline/internal/core/domain/model/kernel"
	"washline/internal/core/domain/model/notification"
	"washline/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

// NotificationRepositoryIntegrationTestSuite verifies the persistence of
// acceptance notifications, in particular the partial unique indexes the
// fanout and single-winner guarantees depend on.
type NotificationRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *notificationrepo.GormNotificationRepository
	tracker    *MockAggregateTracker
}

func (suite *NotificationRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&notificationrepo.NotificationDTO{}))
}

func (suite *NotificationRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE notifications").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = notificationrepo.NewGormNotificationRepository(suite.db, suite.tracker)
}

func (suite *NotificationRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *NotificationRepositoryIntegrationTestSuite) TestAdd_DuplicatePendingOffer_IsNoOp() {
	ctx := context.Background()
	orderID := kernel.NewUUID()
	courierID := kernel.NewUUID()

	first, err := notification.NewNotification(
		kernel.NewUUID(), orderID, courierID, notification.TypePickupAvailable)
	suite.Require().NoError(err)

	// A retried fanout produces a second insert with a fresh id but the
	// same (order, type, courier) pending key.
	retry, err := notification.NewNotification(
		kernel.NewUUID(), orderID, courierID, notification.TypePickupAvailable)
	suite.Require().NoError(err)

	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything).Times(2)

	suite.Require().NoError(suite.repository.Add(ctx, first))
	suite.Require().NoError(suite.repository.Add(ctx, retry))

	suite.assertNotificationCount(1)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *NotificationRepositoryIntegrationTestSuite) TestAdd_SameOrderDifferentCouriers_AllPersist() {
	ctx := context.Background()
	orderID := kernel.NewUUID()

	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything).Times(3)

	for range 3 {
		n, err := notification.NewNotification(
			kernel.NewUUID(), orderID, kernel.NewUUID(), notification.TypePickupAvailable)
		suite.Require().NoError(err)
		suite.Require().NoError(suite.repository.Add(ctx, n))
	}

	suite.assertNotificationCount(3)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *NotificationRepositoryIntegrationTestSuite) TestGet_RoundTripsByCompositeKey() {
	ctx := context.Background()
	orderID := kernel.NewUUID()
	courierID := kernel.NewUUID()

	original, err := notification.NewNotification(
		kernel.NewUUID(), orderID, courierID, notification.TypeDeliveryAvailable)
	suite.Require().NoError(err)

	suite.tracker.On("TrackAggregate", original.ID(), original).Once()
	suite.Require().NoError(suite.repository.Add(ctx, original))

	retrieved, err := suite.repository.Get(ctx, orderID, notification.TypeDeliveryAvailable, courierID)
	suite.Require().NoError(err)
	suite.Equal(original.ID(), retrieved.ID())
	suite.Equal(notification.TypeDeliveryAvailable, retrieved.Type())
	suite.False(retrieved.IsAccepted())

	// The pickup leg for the same order is a different notification.
	_, err = suite.repository.Get(ctx, orderID, notification.TypePickupAvailable, courierID)
	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *NotificationRepositoryIntegrationTestSuite) TestHasAccepted_TracksWinnerPerLeg() {
	ctx := context.Background()
	orderID := kernel.NewUUID()
	winnerID := kernel.NewUUID()

	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything)

	winner, err := notification.NewNotification(
		kernel.NewUUID(), orderID, winnerID, notification.TypePickupAvailable)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(ctx, winner))

	loser, err := notification.NewNotification(
		kernel.NewUUID(), orderID, kernel.NewUUID(), notification.TypePickupAvailable)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(ctx, loser))

	taken, err := suite.repository.HasAccepted(ctx, orderID, notification.TypePickupAvailable)
	suite.Require().NoError(err)
	suite.False(taken)

	suite.Require().NoError(winner.Accept())
	suite.Require().NoError(suite.repository.Update(ctx, winner))

	taken, err = suite.repository.HasAccepted(ctx, orderID, notification.TypePickupAvailable)
	suite.Require().NoError(err)
	suite.True(taken)

	// The delivery leg is still open.
	taken, err = suite.repository.HasAccepted(ctx, orderID, notification.TypeDeliveryAvailable)
	suite.Require().NoError(err)
	suite.False(taken)
}

func (suite *NotificationRepositoryIntegrationTestSuite) TestWinnerIndex_RejectsSecondAcceptedRow() {
	ctx := context.Background()
	orderID := kernel.NewUUID()

	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything)

	first, err := notification.NewNotification(
		kernel.NewUUID(), orderID, kernel.NewUUID(), notification.TypePickupAvailable)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(ctx, first))
	suite.Require().NoError(first.Accept())
	suite.Require().NoError(suite.repository.Update(ctx, first))

	second, err := notification.NewNotification(
		kernel.NewUUID(), orderID, kernel.NewUUID(), notification.TypePickupAvailable)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(ctx, second))
	suite.Require().NoError(second.Accept())

	err = suite.repository.Update(ctx, second)
	suite.Require().Error(err, "winner index must admit one accepted row per leg")
}

// assertNotificationCount verifies the number of notifications in the database.
func (suite *NotificationRepositoryIntegrationTestSuite) assertNotificationCount(expected int) {
	var count int64
	err := suite.db.Model(&notificationrepo.NotificationDTO{}).Count(&count).Error
	suite.Require().NoError(err)
	suite.Equal(int64(expected), count)
}

func TestNotificationRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(NotificationRepositoryIntegrationTestSuite))
}
