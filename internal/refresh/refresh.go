// Package refresh runs a reload task on a fixed interval with manual triggers.
package refresh

import (
	"context"
	"sync"
	"time"

	"github.com/gogoref/gogoref/internal/logger"
)

// DefaultInterval is how often the sheet pages reload
const DefaultInterval = 5 * time.Minute

// Task is one refresh run. It must return when ctx is cancelled.
type Task func(ctx context.Context) error

// Refresher runs a Task once at Start, then every interval and whenever
// Trigger is called. Runs may overlap; each run writes its own result, so the
// run that finishes last wins.
type Refresher struct {
	name     string
	interval time.Duration
	task     Task
	trigger  chan struct{}

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// New creates a Refresher. An interval <= 0 disables the periodic schedule,
// leaving the initial run and manual triggers.
func New(name string, interval time.Duration, task Task) *Refresher {
	return &Refresher{
		name:     name,
		interval: interval,
		task:     task,
		trigger:  make(chan struct{}, 1),
	}
}

// Start launches the schedule. It returns immediately; the first run is
// already in progress. Calling Start on a running Refresher does nothing.
func (r *Refresher) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return
	}
	// the initial run covers anything requested before Start
	select {
	case <-r.trigger:
	default:
	}

	ctx, r.cancel = context.WithCancel(ctx)
	r.running = true

	r.wg.Add(1)
	go r.loop(ctx)

	logger.Info("Refresh schedule started", logger.Fields{
		"task":     r.name,
		"interval": r.interval.String(),
	})
}

// Trigger requests an extra run. Requests made while one is still queued are
// merged, and requests made before Start or after Stop are dropped.
func (r *Refresher) Trigger() {
	select {
	case r.trigger <- struct{}{}:
	default:
	}
}

// Stop cancels the schedule and every in-flight run, then waits for them
func (r *Refresher) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.cancel()
	r.running = false
	r.mu.Unlock()

	r.wg.Wait()

	// drop a trigger that arrived after the loop exited
	select {
	case <-r.trigger:
	default:
	}

	logger.Info("Refresh schedule stopped", logger.Fields{"task": r.name})
}

func (r *Refresher) loop(ctx context.Context) {
	defer r.wg.Done()

	r.spawn(ctx, "initial")

	var tick <-chan time.Time
	if r.interval > 0 {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
			r.spawn(ctx, "interval")
		case <-r.trigger:
			r.spawn(ctx, "manual")
		}
	}
}

func (r *Refresher) spawn(ctx context.Context, reason string) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.run(ctx, reason)
	}()
}

func (r *Refresher) run(ctx context.Context, reason string) {
	start := time.Now()
	err := r.task(ctx)
	logger.RecordTiming(r.name+".refresh", time.Since(start))

	if err != nil {
		if ctx.Err() != nil {
			logger.Debug("Refresh cancelled", logger.Fields{"task": r.name, "reason": reason})
			return
		}
		logger.Warn("Refresh failed", logger.Fields{
			"task":   r.name,
			"reason": reason,
			"error":  err.Error(),
		})
		logger.IncrCounter(r.name + ".refresh_error")
		return
	}

	logger.Debug("Refresh complete", logger.Fields{"task": r.name, "reason": reason})
	logger.IncrCounter(r.name + ".refresh")
}
