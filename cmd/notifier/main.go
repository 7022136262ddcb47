// Command notifier consumes domain events from RabbitMQ and delivers push
// notifications and SMS to clientes and motoristas.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"fletes/internal/bootstrap"
	"fletes/internal/config"
	"fletes/pkg/events"
	"fletes/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadFrom(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLog, err := bootstrap.NewLogger(cfg.App)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	appLog = appLog.WithField("service", "notifier")

	if !cfg.Messaging.Enabled {
		appLog.Fatal("AMQP_ENABLED is false; the API server delivers notifications in-process")
	}

	if err := run(cfg, appLog); err != nil {
		appLog.WithError(err).Fatal("Notifier stopped with error")
	}
	appLog.Info("Notifier stopped")
}

func run(cfg *config.Config, appLog *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := bootstrap.NewMongoDB(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	notifier, err := bootstrap.NewNotifier(cfg, db, appLog)
	if err != nil {
		return err
	}

	appLog.WithField("queue", cfg.Messaging.Queue).Info("Notifier started")
	err = events.ConsumeWithRetry(ctx, bootstrap.AMQPConfig(cfg.Messaging), notifier.Handle, appLog)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
