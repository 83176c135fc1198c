package app

import (
	"context"

	"hris-leave/internal/config"
	"hris-leave/internal/messaging/kafka/consumer"
	"hris-leave/internal/notification"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer fills notification inboxes from the leave notification topic
// until ctx is cancelled.
func RunConsumer(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	logger = logger.Named("app.consumer")

	gormDB, sqlDB, err := connectPostgres(cfg, logger)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.Kafka.Broker},
		Topic:          cfg.Kafka.NotificationTopic,
		GroupID:        cfg.Kafka.ConsumerGroup,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	store := notification.NewService(notification.NewRepository(gormDB), logger)
	consumer.ConsumeLeaveNotifications(ctx, reader, store, consumer.Options{}, logger)

	logger.Info("consumer shutting down")
	return nil
}
