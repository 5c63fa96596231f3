package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ReloadWorker periodically re-reads the record store so writes made outside
// this process show up in the snapshot
type ReloadWorker struct {
	snapshots *SnapshotService
	logger    zerolog.Logger
	interval  time.Duration
	timeout   time.Duration
	stopCh    chan struct{}
	doneCh    chan struct{}
	mu        sync.Mutex
	running   bool
}

// ReloadWorkerConfig holds configuration for the reload worker
type ReloadWorkerConfig struct {
	Interval time.Duration // How often to reload
	Timeout  time.Duration // Bound on a single reload
}

// DefaultReloadWorkerConfig returns the defaults
func DefaultReloadWorkerConfig() ReloadWorkerConfig {
	return ReloadWorkerConfig{
		Interval: 15 * time.Minute,
		Timeout:  30 * time.Second,
	}
}

// NewReloadWorker creates a new reload worker
func NewReloadWorker(snapshots *SnapshotService, logger zerolog.Logger, config ReloadWorkerConfig) *ReloadWorker {
	defaults := DefaultReloadWorkerConfig()
	if config.Interval <= 0 {
		config.Interval = defaults.Interval
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}

	return &ReloadWorker{
		snapshots: snapshots,
		logger:    logger.With().Str("component", "reload_worker").Logger(),
		interval:  config.Interval,
		timeout:   config.Timeout,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start begins the periodic reload
func (w *ReloadWorker) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	w.logger.Info().Dur("interval", w.interval).Msg("Starting reload worker")

	go w.run(ctx)
}

// Stop stops the worker and waits for an in-flight reload to finish
func (w *ReloadWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	w.logger.Info().Msg("Stopping reload worker")
	close(w.stopCh)
	<-w.doneCh
	w.logger.Info().Msg("Reload worker stopped")
}

func (w *ReloadWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.setStopped()
			return
		case <-w.stopCh:
			w.setStopped()
			return
		case <-ticker.C:
			w.ReloadOnce(ctx)
		}
	}
}

func (w *ReloadWorker) setStopped() {
	w.mu.Lock()
	w.running = false
	w.mu.Unlock()
}

// ReloadOnce runs a single reload. Failures are logged and the previous
// snapshot stays in place.
func (w *ReloadWorker) ReloadOnce(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	start := time.Now()
	snapshot, err := w.snapshots.Load(ctx)
	if err != nil {
		w.logger.Error().Err(err).Msg("Periodic snapshot reload failed")
		return false
	}

	w.logger.Debug().
		Uint64("version", snapshot.Version).
		Dur("elapsed", time.Since(start)).
		Msg("Periodic snapshot reload completed")
	return true
}

// IsRunning returns whether the worker is currently running
func (w *ReloadWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
