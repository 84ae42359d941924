package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Worker defines the interface for background workers
type Worker interface {
	Start(ctx context.Context) error
	Stop() error
	Name() string
}

type statsReporter interface {
	Stats() Stats
}

// WorkerManager starts and stops the registered workers as a group
type WorkerManager struct {
	workers []Worker
	logger  *zap.Logger

	mu        sync.RWMutex
	isRunning bool
	cancel    context.CancelFunc
}

// NewWorkerManager creates a new worker manager
func NewWorkerManager(logger *zap.Logger) *WorkerManager {
	return &WorkerManager{logger: logger}
}

// Register adds a worker. Workers registered while running are started on
// the next StartAll.
func (m *WorkerManager) Register(w Worker) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.workers = append(m.workers, w)
	m.logger.Debug("Worker registered", zap.String("worker_name", w.Name()))
}

// StartAll starts every registered worker. If one fails, the workers
// already started are stopped again and the error is returned.
func (m *WorkerManager) StartAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.isRunning {
		return fmt.Errorf("workers already running")
	}

	workerCtx, cancel := context.WithCancel(ctx)
	started := make([]Worker, 0, len(m.workers))
	for _, w := range m.workers {
		if err := w.Start(workerCtx); err != nil {
			cancel()
			m.stop(started)
			return fmt.Errorf("start %s: %w", w.Name(), err)
		}
		started = append(started, w)
	}

	m.cancel = cancel
	m.isRunning = true
	m.logger.Info("Workers started", zap.Int("count", len(started)))
	return nil
}

// StopAll cancels the workers' context and waits for each to stop
func (m *WorkerManager) StopAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.isRunning {
		return nil
	}
	m.isRunning = false
	m.cancel()

	if err := m.stop(m.workers); err != nil {
		return err
	}
	m.logger.Info("Workers stopped", zap.Int("count", len(m.workers)))
	return nil
}

func (m *WorkerManager) stop(workers []Worker) error {
	var errs []error
	for _, w := range workers {
		if err := w.Stop(); err != nil {
			m.logger.Error("Failed to stop worker",
				zap.String("worker_name", w.Name()),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", w.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// Stats returns a snapshot per worker name for workers that report progress
func (m *WorkerManager) Stats() map[string]Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]Stats, len(m.workers))
	for _, w := range m.workers {
		if r, ok := w.(statsReporter); ok {
			out[w.Name()] = r.Stats()
		}
	}
	return out
}

// GetWorkerCount returns the number of registered workers
func (m *WorkerManager) GetWorkerCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.workers)
}

// IsRunning returns whether workers are running
func (m *WorkerManager) IsRunning() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.isRunning
}
