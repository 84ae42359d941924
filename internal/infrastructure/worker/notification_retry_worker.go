package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// NotificationRetrier redelivers failed notifications
type NotificationRetrier interface {
	RetryFailed(ctx context.Context, limit int) (int, error)
}

// NotificationRetryWorkerConfig holds configuration for the retry worker
type NotificationRetryWorkerConfig struct {
	PollInterval time.Duration
	BatchSize    int
}

// DefaultNotificationRetryWorkerConfig returns default configuration
func DefaultNotificationRetryWorkerConfig() NotificationRetryWorkerConfig {
	return NotificationRetryWorkerConfig{
		PollInterval: 5 * time.Minute,
		BatchSize:    50,
	}
}

// NotificationRetryWorker periodically retries failed role notifications
type NotificationRetryWorker struct {
	*poller
	retrier   NotificationRetrier
	batchSize int
}

// NewNotificationRetryWorker creates a new notification retry worker
func NewNotificationRetryWorker(config NotificationRetryWorkerConfig, retrier NotificationRetrier, logger *zap.Logger) *NotificationRetryWorker {
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultNotificationRetryWorkerConfig().BatchSize
	}

	w := &NotificationRetryWorker{
		retrier:   retrier,
		batchSize: config.BatchSize,
	}
	w.poller = newPoller("NotificationRetryWorker", config.PollInterval, w.process, logger)
	return w
}

func (w *NotificationRetryWorker) process(ctx context.Context) (int, error) {
	delivered, err := w.retrier.RetryFailed(ctx, w.batchSize)
	if delivered > 0 {
		w.logger.Info("Failed notifications redelivered", zap.Int("count", delivered))
	}
	return delivered, err
}
