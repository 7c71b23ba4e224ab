package app

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"farmfeed-api/internal/common"
	"farmfeed-api/internal/controller"
	"farmfeed-api/internal/notifier"
	"farmfeed-api/internal/repo"
	"farmfeed-api/internal/service"
	"farmfeed-api/pkg/http_server"
	"farmfeed-api/pkg/postgres"
	"farmfeed-api/pkg/rabbitmq"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	"github.com/labstack/echo"
	"github.com/shopspring/decimal"
)

func runMigrations(postgresDB *postgres.Postgres, databaseName string) {
	driver, err := pgmigrate.WithInstance(postgresDB.Database, &pgmigrate.Config{DatabaseName: databaseName})
	if err != nil {
		log.Fatal(err)
	}

	migrations, err := migrate.NewWithDatabaseInstance("file://migrations", databaseName, driver)
	if err != nil {
		log.Fatal(err)
	}

	if err := migrations.Up(); err != nil {
		if err == migrate.ErrNoChange {
			log.Println("no change made by migration scripts")
		} else {
			log.Fatal(err)
		}
	}
}

func feeScheduleFromEnv() common.FeeSchedule {
	fees := common.DefaultFeeSchedule()
	if v := os.Getenv("DEAL_FEE_PER_TON"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			fees.DealFeePerTon = d
		}
	}
	if v := os.Getenv("TRANSPORT_REQUEST_FEE"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			fees.TransportRequestFee = d
		}
	}
	if v := os.Getenv("TRANSPORT_QUOTE_FEE"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			fees.TransportQuoteFee = d
		}
	}

	return fees
}

func newNotifier() notifier.Notifier {
	amqpUrl := os.Getenv("RABBITMQ_URL")
	if amqpUrl == "" {
		log.Println("RABBITMQ_URL is not set, notifications go to the log")

		return notifier.NewLogNotifier()
	}

	exchange := os.Getenv("RABBITMQ_EXCHANGE")
	if exchange == "" {
		exchange = "farmfeed.notifications"
	}

	publisher, err := rabbitmq.NewPublisher(amqpUrl, exchange)
	if err != nil {
		log.Printf("Warning: can't connect to RabbitMQ, notifications go to the log: %v", err)

		return notifier.NewLogNotifier()
	}

	return notifier.NewAMQPNotifier(publisher)
}

func Run() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, reading configuration from environment")
	}

	serverAddressEnv := os.Getenv("SERVER_ADDRESS")
	dbConnEnv := os.Getenv("POSTGRES_CONN")
	databaseEnv := os.Getenv("POSTGRES_DATABASE")

	log.Println("Connecting database...")
	postgresDB, err := postgres.NewDB(dbConnEnv)
	if err != nil {
		log.Fatal("Error occurred while connecting to db: ", err)
	}
	defer postgresDB.Close()

	log.Println("Running migrations...")
	runMigrations(postgresDB, databaseEnv)

	repositories := repo.NewRepositories(postgresDB)
	services := service.NewServices(repositories, newNotifier(), feeScheduleFromEnv())
	handler := echo.New()

	log.Println("Setup routes...")
	controller.SetupRoutesHandlers(handler, services)

	log.Println("Starting server...")
	httpServer := http_server.New(handler, serverAddressEnv)

	log.Println("Ready to process requests...")

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		log.Println("Got signal: " + s.String())
	case err = <-httpServer.Notify():
		log.Fatal("Notify error: %w", err)
	}

	log.Println("Shutting down...")
	err = httpServer.Shutdown()
	if err != nil {
		log.Fatal("Shutdown error: %w", err)
	} else {
		log.Println("Successful shutdown")
	}
}
