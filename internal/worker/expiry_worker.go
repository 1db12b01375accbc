// Package worker runs background jobs of the booking engine.
package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Reclaimer expires PENDING bookings older than the hold window.
type Reclaimer interface {
	ReclaimExpired(ctx context.Context, olderThan time.Duration) (int, error)
}

// ExpiryWorkerConfig controls the reclaim loop.
type ExpiryWorkerConfig struct {
	// HoldTTL is how long a booking may stay PENDING.
	HoldTTL time.Duration
	// ScanInterval is the pause between scans.
	ScanInterval time.Duration
}

func DefaultExpiryWorkerConfig() ExpiryWorkerConfig {
	return ExpiryWorkerConfig{HoldTTL: 10 * time.Minute, ScanInterval: time.Minute}
}

// ExpiryWorker periodically returns the seats of abandoned bookings to
// the pool.
type ExpiryWorker struct {
	reclaimer Reclaimer
	cfg       ExpiryWorkerConfig
	log       *zap.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	totalExpired atomic.Int64
	lastScan     atomic.Int64 // unix nanos
}

func NewExpiryWorker(r Reclaimer, cfg ExpiryWorkerConfig, log *zap.Logger) *ExpiryWorker {
	def := DefaultExpiryWorkerConfig()
	if cfg.HoldTTL <= 0 {
		cfg.HoldTTL = def.HoldTTL
	}
	if cfg.ScanInterval <= 0 {
		cfg.ScanInterval = def.ScanInterval
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ExpiryWorker{reclaimer: r, cfg: cfg, log: log}
}

// Start launches the scan loop in the background.  Calling Start on a
// running worker is a no-op.
func (w *ExpiryWorker) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}
	ctx, w.cancel = context.WithCancel(ctx)
	w.running = true
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.Run(ctx)
	}()
	w.log.Info("expiry worker started",
		zap.Duration("hold_ttl", w.cfg.HoldTTL),
		zap.Duration("scan_interval", w.cfg.ScanInterval))
}

// Stop cancels the loop and waits for the current scan to finish.
func (w *ExpiryWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.cancel()
	w.mu.Unlock()

	w.wg.Wait()
	w.log.Info("expiry worker stopped", zap.Int64("total_expired", w.totalExpired.Load()))
}

// Run scans once immediately and then every ScanInterval until ctx is done.
func (w *ExpiryWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.ScanInterval)
	defer ticker.Stop()

	w.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single scan and returns how many bookings expired.
func (w *ExpiryWorker) RunOnce(ctx context.Context) int {
	n, err := w.reclaimer.ReclaimExpired(ctx, w.cfg.HoldTTL)
	w.lastScan.Store(time.Now().UnixNano())
	if err != nil {
		w.log.Error("reclaim expired bookings", zap.Error(err), zap.Int("expired", n))
	}
	w.totalExpired.Add(int64(n))
	return n
}

// TotalExpired reports the number of bookings expired since start.
func (w *ExpiryWorker) TotalExpired() int64 { return w.totalExpired.Load() }

// LastScan reports when the last scan completed; zero before the first.
func (w *ExpiryWorker) LastScan() time.Time {
	ns := w.lastScan.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}
