package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/tutor-marketplace/internal/config"
	"github.com/BruksfildServices01/tutor-marketplace/internal/logger"
	"github.com/BruksfildServices01/tutor-marketplace/internal/notify"
)

// worker consumes notification events and renders one e-mail per event.
func main() {

	cfg := config.Load()

	zl, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zl.Sync()

	if len(cfg.Kafka.Brokers) == 0 {
		zl.Fatal("KAFKA_BROKERS is required for the worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := notify.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, zl)
	defer consumer.Close()

	mailer := notify.NewMailer(cfg.MailFrom, zl)

	zl.Info("worker consuming",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("topic", cfg.Kafka.NotificationsTopic),
		zap.String("group", cfg.Kafka.GroupID),
	)

	if err := consumer.Consume(ctx, mailer.Send); err != nil {
		zl.Error("consumer stopped", zap.Error(err))
	}
	zl.Info("worker stopped")
}
