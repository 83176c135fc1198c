package app

import (
	"context"

	"hris-leave/internal/config"
	"hris-leave/internal/messaging/kafka"
	"hris-leave/internal/messaging/kafka/producer"
	"hris-leave/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker relays the notification outbox to Kafka until ctx is cancelled.
func RunWorker(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	logger = logger.Named("app.worker")

	_, sqlDB, err := connectPostgres(cfg, logger)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.Kafka.Broker, cfg.Kafka.MaxRetries, logger)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	worker := producer.NewWorker(kafka.NewOutboxRepository(sqlDB), kafkaWriter, producer.Options{
		PollInterval: cfg.Worker.PollInterval,
		BatchSize:    cfg.Worker.BatchSize,
		Retention:    cfg.Worker.Retention,
	}, logger)

	worker.Run(ctx)
	logger.Info("worker shutting down")
	return nil
}
