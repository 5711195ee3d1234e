package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"washline/cmd"
	httpin "washline/internal/adapters/in/http"
	"washline/internal/adapters/out/postgres/checkpointrepo"
	"washline/internal/adapters/out/postgres/courierrepo"
	"washline/internal/adapters/out/postgres/locationrepo"
	"washline/internal/adapters/out/postgres/notificationrepo"
	"washline/internal/adapters/out/postgres/orderrepo"
	"washline/internal/pkg/metrics"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configs := getConfigs()

	gormDB, err := openDatabase(configs)
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	if err = migrateDatabase(gormDB); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	metrics.Register()

	app := cmd.NewCompositionRoot(configs, gormDB)
	defer app.OrderProducer().Close()

	jobManager := app.CreateJobManager(configs.SweepCronSpec)
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:               goDotEnvVariable("HTTP_PORT"),
		DBHost:                 goDotEnvVariable("DB_HOST"),
		DBPort:                 goDotEnvVariable("DB_PORT"),
		DBUser:                 goDotEnvVariable("DB_USER"),
		DBPassword:             goDotEnvVariable("DB_PASSWORD"),
		DBName:                 goDotEnvVariable("DB_NAME"),
		DBSslMode:              goDotEnvVariable("DB_SSLMODE"),
		KafkaHost:              goDotEnvVariable("KAFKA_HOST"),
		KafkaOrderChangedTopic: goDotEnvVariable("KAFKA_ORDER_CHANGED_TOPIC"),
		JWTSecret:              goDotEnvVariable("JWT_SECRET"),
		SweepCronSpec:          goDotEnvVariable("SWEEP_CRON_SPEC"),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func openDatabase(configs cmd.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

func migrateDatabase(gormDB *gorm.DB) error {
	return gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&notificationrepo.NotificationDTO{},
		&checkpointrepo.CheckpointDTO{},
		&courierrepo.CourierDTO{},
		&locationrepo.LocationDTO{},
	)
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()

	wsHandler := httpin.NewWebSocketHandler(app.Hub(), app.TokenIssuer(), app.Logger())

	server := httpin.NewServer(
		app.CreateCreateOrderCommandHandler(),
		app.CreateCreateCourierCommandHandler(),
		app.CreateCreateLocationCommandHandler(),
		app.CreateAcceptOrderCommandHandler(),
		app.CreateRecordCheckpointCommandHandler(),
		app.CreateChangeOrderStatusCommandHandler(),
		app.CreateGetAvailableOrdersQueryHandler(),
		app.CreateGetOrderQueryHandler(),
		app.CreateValidateQRQueryHandler(),
		app.CreateGetAllCouriersQueryHandler(),
		app.CreateGetLocationsQueryHandler(),
		wsHandler,
	)
	server.RegisterRoutes(e, app.TokenIssuer())

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil {
			e.Logger.Info("Web server stopped: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal(err)
	}
}
