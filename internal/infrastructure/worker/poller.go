package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Stats reports a polling worker's progress
type Stats struct {
	Running      bool
	Runs         int
	Processed    int
	LastRun      time.Time
	LastError    string
	StartedAt    time.Time
	PollInterval time.Duration
}

// poller runs a batch function on a fixed interval until stopped. The
// first batch runs immediately after Start.
type poller struct {
	name     string
	interval time.Duration
	run      func(ctx context.Context) (int, error)
	logger   *zap.Logger

	mu        sync.RWMutex
	cancel    context.CancelFunc
	done      chan struct{}
	isRunning bool
	stats     Stats
}

func newPoller(name string, interval time.Duration, run func(ctx context.Context) (int, error), logger *zap.Logger) *poller {
	return &poller{
		name:     name,
		interval: interval,
		run:      run,
		logger:   logger,
	}
}

// Start begins the polling loop
func (p *poller) Start(ctx context.Context) error {
	if p.interval <= 0 {
		return fmt.Errorf("%s: poll interval must be positive", p.name)
	}

	p.mu.Lock()
	if p.isRunning {
		p.mu.Unlock()
		return fmt.Errorf("%s already running", p.name)
	}

	loopCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.isRunning = true
	p.stats.StartedAt = time.Now()
	p.stats.PollInterval = p.interval
	done := p.done
	p.mu.Unlock()

	p.logger.Info(p.name+" started", zap.Duration("poll_interval", p.interval))

	go p.pollLoop(loopCtx, done)
	return nil
}

// Stop cancels the loop and waits for the current batch to finish
func (p *poller) Stop() error {
	p.mu.Lock()
	if !p.isRunning {
		p.mu.Unlock()
		return nil
	}
	p.isRunning = false
	cancel, done := p.cancel, p.done
	p.mu.Unlock()

	cancel()
	<-done

	stats := p.Stats()
	p.logger.Info(p.name+" stopped",
		zap.Int("runs", stats.Runs),
		zap.Int("processed", stats.Processed))
	return nil
}

// Name returns the worker name for identification
func (p *poller) Name() string {
	return p.name
}

// Stats returns a snapshot of the worker's progress
func (p *poller) Stats() Stats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s := p.stats
	s.Running = p.isRunning
	return s
}

func (p *poller) pollLoop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.runOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			p.logger.Debug("Poll loop context cancelled", zap.String("worker", p.name))
			return
		case <-ticker.C:
			p.runOnce(ctx)
		}
	}
}

func (p *poller) runOnce(ctx context.Context) {
	n, err := p.run(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.stats.Runs++
	p.stats.Processed += n
	p.stats.LastRun = time.Now()
	p.stats.LastError = ""
	if err != nil {
		p.stats.LastError = err.Error()
	}

	if err != nil && ctx.Err() == nil {
		p.logger.Error(p.name+" batch failed", zap.Error(err))
	}
}
