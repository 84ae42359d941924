package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// OverdueMarker moves past-due sent invoices to overdue
type OverdueMarker interface {
	MarkOverdue(ctx context.Context, now time.Time, limit int) (int, error)
}

// OverdueInvoiceWorkerConfig holds configuration for the overdue invoice worker
type OverdueInvoiceWorkerConfig struct {
	PollInterval time.Duration
	BatchSize    int
}

// DefaultOverdueInvoiceWorkerConfig returns default configuration
func DefaultOverdueInvoiceWorkerConfig() OverdueInvoiceWorkerConfig {
	return OverdueInvoiceWorkerConfig{
		PollInterval: time.Hour,
		BatchSize:    100,
	}
}

// OverdueInvoiceWorker periodically marks sent invoices past their due date as overdue
type OverdueInvoiceWorker struct {
	*poller
	marker    OverdueMarker
	batchSize int
	now       func() time.Time
}

// NewOverdueInvoiceWorker creates a new overdue invoice worker
func NewOverdueInvoiceWorker(config OverdueInvoiceWorkerConfig, marker OverdueMarker, logger *zap.Logger) *OverdueInvoiceWorker {
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultOverdueInvoiceWorkerConfig().BatchSize
	}

	w := &OverdueInvoiceWorker{
		marker:    marker,
		batchSize: config.BatchSize,
		now:       time.Now,
	}
	w.poller = newPoller("OverdueInvoiceWorker", config.PollInterval, w.process, logger)
	return w
}

func (w *OverdueInvoiceWorker) process(ctx context.Context) (int, error) {
	marked, err := w.marker.MarkOverdue(ctx, w.now(), w.batchSize)
	if marked > 0 {
		w.logger.Info("Invoices marked overdue", zap.Int("count", marked))
	}
	return marked, err
}
