package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"hris-leave/internal/events"
	"hris-leave/internal/shared/apperror"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// NotificationStore persists one inbox item per event.
type NotificationStore interface {
	Store(ctx context.Context, event events.LeaveNotificationEvent) (bool, error)
}

const (
	defaultRetryBackoff    = 500 * time.Millisecond
	defaultMaxRetryBackoff = 30 * time.Second
)

type Options struct {
	// RetryBackoff is the first wait after a storage failure. It doubles per
	// attempt up to MaxRetryBackoff.
	RetryBackoff    time.Duration
	MaxRetryBackoff time.Duration
}

// ConsumeLeaveNotifications stores every event in the recipient's inbox and
// commits the offset once it is durable. Undecodable or invalid messages are
// committed and dropped. A storage failure blocks the partition: the same
// message is retried with backoff until it is stored or ctx is done, and
// nothing after it is fetched or committed.
func ConsumeLeaveNotifications(
	ctx context.Context,
	reader MessageReader,
	store NotificationStore,
	opts Options,
	logger *zap.Logger,
) {
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = defaultRetryBackoff
	}
	if opts.MaxRetryBackoff < opts.RetryBackoff {
		opts.MaxRetryBackoff = max(defaultMaxRetryBackoff, opts.RetryBackoff)
	}

	log := logger.Named("kafka.consumer.leave_notifications")
	log.Info("leave notification consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave notification consumer stopped")
				return
			}
			log.Error("fetch leave notification message failed", zap.Error(err))
			continue
		}

		if !handleMessage(ctx, reader, store, msg, opts, log) {
			log.Info("leave notification consumer stopped")
			return
		}
	}
}

// handleMessage returns false only when ctx ended while the message was
// still unstored.
func handleMessage(ctx context.Context, reader MessageReader, store NotificationStore, msg kafkago.Message, opts Options, log *zap.Logger) bool {
	var event events.LeaveNotificationEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error("decode leave notification event failed",
			zap.Int("partition", msg.Partition),
			zap.Int64("offset", msg.Offset),
			zap.Error(err),
		)
		_ = reader.CommitMessages(ctx, msg)
		return true
	}

	log = log.With(
		zap.String("event_id", event.EventID),
		zap.String("event_type", event.EventType),
		zap.String("leave_id", event.RequestID),
		zap.Int64("offset", msg.Offset),
	)

	backoff := opts.RetryBackoff
	for attempt := 1; ; attempt++ {
		stored, err := store.Store(ctx, event)
		if err == nil {
			if !stored {
				log.Warn("leave notification already stored, skipping")
			}
			if err := reader.CommitMessages(ctx, msg); err != nil {
				log.Error("commit leave notification message failed", zap.Error(err))
				return true
			}
			if stored {
				log.Info("leave notification stored", zap.String("recipient_id", event.RecipientID))
			}
			return true
		}

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			log.Warn("invalid leave notification event, skipping", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			return true
		}

		log.Error("store leave notification failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}
		backoff = min(backoff*2, opts.MaxRetryBackoff)
	}
}
