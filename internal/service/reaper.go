package service

import (
	"context"
	"log"
	"sync"
	"time"
)

// EmptyPruner is implemented by inventory backends that can drop empty,
// stale service files. The file store implements it; the reaper is skipped
// for backends that do not.
type EmptyPruner interface {
	PruneEmpty(ctx context.Context, olderThan time.Duration) (int, error)
}

// ReaperConfig holds configuration for the reaper scheduler.
type ReaperConfig struct {
	// Threshold is how long an empty service file must sit untouched
	// before it is removed. Default: 30 days.
	Threshold time.Duration

	// Interval is how often the reaper runs. Default: 24 hours.
	Interval time.Duration
}

// Reaper periodically removes empty service files that nobody has touched
// in a long while.
type Reaper struct {
	pruner    EmptyPruner
	config    ReaperConfig
	ticker    *time.Ticker
	stopCh    chan struct{}
	stopOnce  sync.Once
	isRunning bool
	mu        sync.Mutex
}

// NewReaper creates a reaper over the given pruner.
func NewReaper(pruner EmptyPruner, config ReaperConfig) *Reaper {
	if config.Threshold == 0 {
		config.Threshold = 30 * 24 * time.Hour
	}
	if config.Interval == 0 {
		config.Interval = 24 * time.Hour
	}

	return &Reaper{
		pruner: pruner,
		config: config,
		stopCh: make(chan struct{}),
	}
}

// Start begins the reaper loop.
func (r *Reaper) Start() {
	r.mu.Lock()
	if r.isRunning {
		r.mu.Unlock()
		return
	}
	r.isRunning = true
	r.ticker = time.NewTicker(r.config.Interval)
	r.mu.Unlock()

	log.Printf("[Reaper] Started - Interval: %v, Threshold: %v",
		r.config.Interval, r.config.Threshold)

	go r.run()
}

func (r *Reaper) run() {
	for {
		select {
		case <-r.ticker.C:
			r.runOnce()
		case <-r.stopCh:
			log.Printf("[Reaper] Stopped")
			return
		}
	}
}

func (r *Reaper) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pruned, err := r.pruner.PruneEmpty(ctx, r.config.Threshold)
	if err != nil {
		log.Printf("[Reaper] Error during prune: %v", err)
		return
	}

	if pruned > 0 {
		log.Printf("[Reaper] Removed %d stale empty services", pruned)
	}
}

// Stop stops the reaper.
func (r *Reaper) Stop() {
	r.stopOnce.Do(func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		if r.ticker != nil {
			r.ticker.Stop()
		}
		close(r.stopCh)
		r.isRunning = false
	})
}

// RunNow triggers an immediate prune.
func (r *Reaper) RunNow() (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	return r.pruner.PruneEmpty(ctx, r.config.Threshold)
}
