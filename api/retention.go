/*
retention.go - Quote history retention sweeper

PURPOSE:

	Periodically deletes recorded quotes older than the retention window
	so the history store does not grow without bound.

DESIGN:
  - Runs a background goroutine with a configurable check interval
  - Sweeps once immediately on Start, then on every tick
  - A failed sweep is logged and retried on the next tick

CONFIGURATION:
  - Retention:     How long quotes are kept (0 disables the sweeper)
  - CheckInterval: How often to sweep (default: 1 hour)

USAGE:

	sweeper := NewRetentionSweeper(store, 30*24*time.Hour, logger)
	sweeper.Start()
	// ... later
	sweeper.Stop()

SEE ALSO:
  - pricing/store.go: DeleteQuotesBefore
*/
package api

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rts-ads/quote-engine/pricing"
)

// RetentionSweeper prunes the quote history.
type RetentionSweeper struct {
	Store         pricing.Store
	Retention     time.Duration
	CheckInterval time.Duration
	Logger        *zap.Logger

	// now is swapped in tests.
	now func() time.Time

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewRetentionSweeper creates a sweeper keeping quotes for retention.
func NewRetentionSweeper(store pricing.Store, retention time.Duration, logger *zap.Logger) *RetentionSweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetentionSweeper{
		Store:         store,
		Retention:     retention,
		CheckInterval: 1 * time.Hour,
		Logger:        logger,
		now:           time.Now,
	}
}

// Start begins sweeping. It does nothing when Retention is zero.
func (rs *RetentionSweeper) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.Retention <= 0 {
		rs.Logger.Info("retention sweeper disabled")
		return
	}
	if rs.ticker != nil {
		return
	}

	rs.ticker = time.NewTicker(rs.CheckInterval)
	rs.stop = make(chan struct{})
	rs.wg.Add(1)

	go rs.run()

	rs.Logger.Info("retention sweeper started",
		zap.Duration("retention", rs.Retention),
		zap.Duration("interval", rs.CheckInterval))
}

// Stop stops the sweeper and waits for an in-progress sweep.
func (rs *RetentionSweeper) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.ticker != nil {
		rs.ticker.Stop()
		close(rs.stop)
		rs.wg.Wait()
		rs.ticker = nil
		rs.Logger.Info("retention sweeper stopped")
	}
}

func (rs *RetentionSweeper) run() {
	defer rs.wg.Done()

	rs.Sweep(context.Background())

	for {
		select {
		case <-rs.ticker.C:
			rs.Sweep(context.Background())
		case <-rs.stop:
			return
		}
	}
}

// Sweep deletes quotes older than the retention window and returns how
// many were removed.
func (rs *RetentionSweeper) Sweep(ctx context.Context) int {
	cutoff := rs.now().Add(-rs.Retention)

	n, err := rs.Store.DeleteQuotesBefore(ctx, cutoff)
	if err != nil {
		rs.Logger.Error("retention sweep failed", zap.Time("cutoff", cutoff), zap.Error(err))
		return 0
	}
	if n > 0 {
		rs.Logger.Info("retention sweep", zap.Int("deleted", n), zap.Time("cutoff", cutoff))
	}
	return n
}
