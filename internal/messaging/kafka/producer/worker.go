package producer

import (
	"context"
	"time"

	"hris-leave/internal/messaging/kafka"

	"go.uber.org/zap"
)

const (
	defaultPollInterval  = 3 * time.Second
	defaultBatchSize     = 50
	defaultPurgeInterval = time.Hour
)

type Options struct {
	PollInterval time.Duration
	BatchSize    int
	// Retention is how long sent rows are kept. Zero disables purging.
	Retention time.Duration
}

// Worker relays pending outbox rows to Kafka.
type Worker struct {
	repo         kafka.OutboxRepository
	writer       MessageWriter
	pollInterval time.Duration
	batchSize    int
	retention    time.Duration
	now          func() time.Time
	logger       *zap.Logger
}

func NewWorker(repo kafka.OutboxRepository, writer MessageWriter, opts Options, logger *zap.Logger) *Worker {
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	if logger == nil {
		logger = zap.L()
	}
	return &Worker{
		repo:         repo,
		writer:       writer,
		pollInterval: opts.PollInterval,
		batchSize:    opts.BatchSize,
		retention:    opts.Retention,
		now:          time.Now,
		logger:       logger.Named("kafka.producer.worker"),
	}
}

// Run polls until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	var purge <-chan time.Time
	if w.retention > 0 {
		purgeTicker := time.NewTicker(defaultPurgeInterval)
		defer purgeTicker.Stop()
		purge = purgeTicker.C
	}

	w.logger.Info("outbox worker started",
		zap.Duration("poll_interval", w.pollInterval),
		zap.Int("batch_size", w.batchSize),
		zap.Duration("retention", w.retention),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("outbox worker stopped")
			return
		case <-ticker.C:
			if _, err := w.ProcessOnce(ctx); err != nil {
				w.logger.Error("process outbox events failed", zap.Error(err))
			}
		case <-purge:
			if _, err := w.Purge(ctx); err != nil {
				w.logger.Error("purge sent outbox events failed", zap.Error(err))
			}
		}
	}
}

// ProcessOnce publishes one batch and returns how many events were sent.
// A failed publish is recorded on the row and does not stop the batch.
func (w *Worker) ProcessOnce(ctx context.Context) (int, error) {
	events, err := w.repo.ListPending(ctx, w.batchSize)
	if err != nil {
		return 0, err
	}
	if len(events) == 0 {
		return 0, nil
	}

	w.logger.Debug("processing pending outbox events", zap.Int("count", len(events)))

	sent := 0
	for _, event := range events {
		log := w.logger.With(
			zap.String("outbox_id", event.ID),
			zap.String("event_type", event.EventType),
			zap.String("topic", event.Topic),
		)

		if err := publishEvent(ctx, w.writer, event); err != nil {
			log.Error("publish outbox event failed", zap.Int("retry_count", event.RetryCount), zap.Error(err))
			if markErr := w.repo.MarkFailed(ctx, event.ID, err.Error()); markErr != nil {
				log.Error("mark outbox failed failed", zap.Error(markErr))
			}
			continue
		}

		if err := w.repo.MarkSent(ctx, event.ID); err != nil {
			log.Error("mark outbox sent failed", zap.Error(err))
			continue
		}

		sent++
		log.Info("outbox event sent")
	}
	return sent, nil
}

// Purge deletes sent rows older than the retention window.
func (w *Worker) Purge(ctx context.Context) (int64, error) {
	if w.retention <= 0 {
		return 0, nil
	}
	n, err := w.repo.PurgeSent(ctx, w.now().Add(-w.retention))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		w.logger.Info("purged sent outbox events", zap.Int64("count", n))
	}
	return n, nil
}
