package cmd

import (
	"log/slog"
	"os"
	"time"

	"gorm.io/gorm"

	"washline/internal/adapters/out/kafka"
	"washline/internal/adapters/out/postgres"
	"washline/internal/adapters/out/socket"
	"washline/internal/core/application/usecases/commands"
	"washline/internal/core/application/usecases/queries"
	"washline/internal/core/domain/services"
	"washline/internal/jobs"
	"washline/internal/pkg/auth"
)

const tokenTTL = 24 * time.Hour

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	hub        *socket.Hub
	producer   *kafka.OrderProducer
	issuer     *auth.TokenIssuer
	logger     *slog.Logger

	dispatchHandler commands.DispatchNotificationsCommandHandler
}

func NewCompositionRoot(configs Config, gormDB *gorm.DB) CompositionRoot {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	root := CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		hub:        socket.NewHub(logger),
		producer:   kafka.NewOrderProducer(configs.KafkaHost, configs.KafkaOrderChangedTopic),
		issuer:     auth.NewTokenIssuer(configs.JWTSecret, tokenTTL),
		logger:     logger,
	}

	root.dispatchHandler = commands.NewDispatchNotificationsCommandHandler(
		root.dispatchUoWFactory(), root.hub, logger)

	return root
}

func (c *CompositionRoot) Logger() *slog.Logger {
	return c.logger
}

func (c *CompositionRoot) Hub() *socket.Hub {
	return c.hub
}

func (c *CompositionRoot) TokenIssuer() *auth.TokenIssuer {
	return c.issuer
}

func (c *CompositionRoot) OrderProducer() *kafka.OrderProducer {
	return c.producer
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(
		c.orderUoWFactory(), c.NotificationDispatcher(), c.producer, c.logger)
}

func (c *CompositionRoot) CreateCreateCourierCommandHandler() commands.CreateCourierCommandHandler {
	var f commands.CourierUoWFactory = FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateCourierCommandHandler(f)
}

func (c *CompositionRoot) CreateCreateLocationCommandHandler() commands.CreateLocationCommandHandler {
	var f commands.LocationUoWFactory = FuncLocationUoWFactory(func() commands.LocationUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateLocationCommandHandler(f)
}

func (c *CompositionRoot) CreateAcceptOrderCommandHandler() commands.AcceptOrderCommandHandler {
	var f commands.AcceptUoWFactory = FuncAcceptUoWFactory(func() commands.AcceptUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAcceptOrderCommandHandler(f, c.hub, c.producer, c.logger)
}

func (c *CompositionRoot) CreateRecordCheckpointCommandHandler() commands.RecordCheckpointCommandHandler {
	var f commands.CheckpointUoWFactory = FuncCheckpointUoWFactory(func() commands.CheckpointUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRecordCheckpointCommandHandler(
		f, services.CheckpointVerifier{}, c.NotificationDispatcher(), c.hub, c.producer, c.logger)
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	return commands.NewChangeOrderStatusCommandHandler(
		c.orderUoWFactory(), c.NotificationDispatcher(), c.hub, c.producer, c.logger)
}

func (c *CompositionRoot) NotificationDispatcher() commands.NotificationDispatcher {
	return &c.dispatchHandler
}

func (c *CompositionRoot) CreateJobManager(sweepSpec string) *jobs.JobManager {
	return jobs.NewJobManager(c.NotificationDispatcher(), c.orderUoWFactory(), sweepSpec, c.logger)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAvailableOrdersQueryHandler() queries.GetAvailableOrdersQueryHandler {
	return queries.NewGetAvailableOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateValidateQRQueryHandler() queries.ValidateQRQueryHandler {
	return queries.NewValidateQRQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAllCouriersQueryHandler() queries.GetAllCouriersQueryHandler {
	return queries.NewGetAllCouriersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetLocationsQueryHandler() queries.GetLocationsQueryHandler {
	return queries.NewGetLocationsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) dispatchUoWFactory() commands.DispatchUoWFactory {
	return FuncDispatchUoWFactory(func() commands.DispatchUoW {
		return c.uowFactory.Create()
	})
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncCourierUoWFactory func() commands.CourierUoW

func (f FuncCourierUoWFactory) Create() commands.CourierUoW {
	return f()
}

type FuncLocationUoWFactory func() commands.LocationUoW

func (f FuncLocationUoWFactory) Create() commands.LocationUoW {
	return f()
}

type FuncAcceptUoWFactory func() commands.AcceptUoW

func (f FuncAcceptUoWFactory) Create() commands.AcceptUoW {
	return f()
}

type FuncCheckpointUoWFactory func() commands.CheckpointUoW

func (f FuncCheckpointUoWFactory) Create() commands.CheckpointUoW {
	return f()
}

type FuncDispatchUoWFactory func() commands.DispatchUoW

func (f FuncDispatchUoWFactory) Create() commands.DispatchUoW {
	return f()
}
