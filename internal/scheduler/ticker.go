// Package scheduler drives suspended runs forward on a wall-clock ticker.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mverett/fabula/internal/logging"
)

// DefaultInterval is the tick period used when none is configured.
const DefaultInterval = 100 * time.Millisecond

// Ticker is the interface the driver advances on each tick.
// Satisfied by session.Manager and engine.Traversal.
type Ticker interface {
	Tick(now time.Time)
}

// Driver runs a background loop that delivers clock ticks to a Ticker.
// Timed waits, gate predicates, and choice timeouts only make progress
// while a driver (or a manual Tick caller) is running.
type Driver struct {
	target   Ticker
	interval time.Duration
	logger   *slog.Logger
	cancel   context.CancelFunc
	done     chan struct{}
	mu       sync.Mutex
}

// NewDriver creates a driver for the target. A non-positive interval
// falls back to DefaultInterval; a nil logger discards.
func NewDriver(target Ticker, interval time.Duration, logger *slog.Logger) *Driver {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Driver{
		target:   target,
		interval: interval,
		logger:   logger,
	}
}

// Start launches the background tick loop.
func (d *Driver) Start(ctx context.Context) error {
	d.mu.Lock()
	if d.done != nil {
		d.mu.Unlock()
		return fmt.Errorf("driver already started")
	}

	loopCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.done = make(chan struct{})
	d.mu.Unlock()

	go d.loop(loopCtx)
	d.logger.Info("tick driver started", slog.Duration("interval", d.interval))
	return nil
}

func (d *Driver) loop(ctx context.Context) {
	defer close(d.done)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	// Deliver an initial tick immediately.
	d.target.Tick(time.Now())

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			d.target.Tick(now)
		}
	}
}

// Stop gracefully shuts down the driver.
func (d *Driver) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cancel == nil {
		return nil
	}

	d.cancel()
	<-d.done
	d.cancel = nil
	d.done = nil

	d.logger.Info("tick driver stopped")
	return nil
}
