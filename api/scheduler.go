/*
scheduler.go - Periodic organization-wide alert scan

PURPOSE:
  Recomputes the urgent/expired accrual periods of the whole roster on a
  fixed interval and keeps the latest result for GET /api/alerts, so the
  listing does not derive every staff member's periods per request.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Scans immediately on Start, then on every tick
  - A failed scan is logged and the previous result is kept
  - Nothing is persisted; alerts are always derived

CONFIGURATION:
  - CheckInterval: How often to scan (default: 1 hour)
  - Enabled: Whether the scanner runs at all (default: true)

USAGE:
  scanner := NewAlertScanner(service, logger)
  scanner.Start()
  // ... later
  scanner.Stop()

SEE ALSO:
  - staff/service.go: ScanAlerts
  - handlers.go: ListAlerts
*/
package api

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/warp/staff-ledger/staff"
)

// AlertSource derives the current roster-wide alerts.
type AlertSource interface {
	ScanAlerts(ctx context.Context) ([]staff.StaffAlert, error)
}

// AlertScanner caches the latest roster-wide alert scan.
type AlertScanner struct {
	Source        AlertSource
	CheckInterval time.Duration
	Enabled       bool

	logger *zap.Logger

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex

	resultMu  sync.RWMutex
	latest    []staff.StaffAlert
	scannedAt time.Time
	lastRun   time.Time
}

// NewAlertScanner creates a scanner with a one-hour interval.
func NewAlertScanner(source AlertSource, logger *zap.Logger) *AlertScanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AlertScanner{
		Source:        source,
		CheckInterval: time.Hour,
		Enabled:       true,
		logger:        logger.Named("api.scanner"),
	}
}

// Start begins the scanner. Calling Start on a running scanner is a no-op.
func (s *AlertScanner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.Enabled {
		s.logger.Info("alert scanner disabled, not starting")
		return
	}
	if s.ticker != nil {
		return
	}

	s.ticker = time.NewTicker(s.CheckInterval)
	s.stop = make(chan struct{})
	s.wg.Add(1)

	go s.run(s.ticker, s.stop)

	s.logger.Info("alert scanner started", zap.Duration("interval", s.CheckInterval))
}

// Stop stops the scanner and waits for an in-flight scan to finish.
func (s *AlertScanner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker == nil {
		return
	}
	s.ticker.Stop()
	close(s.stop)
	s.wg.Wait()
	s.ticker = nil
	s.logger.Info("alert scanner stopped")
}

func (s *AlertScanner) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer s.wg.Done()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-stop
		cancel()
	}()

	// Run immediately on start
	s.scan(ctx)

	for {
		select {
		case <-ticker.C:
			s.scan(ctx)
		case <-stop:
			return
		}
	}
}

func (s *AlertScanner) scan(ctx context.Context) {
	started := time.Now()

	s.resultMu.Lock()
	s.lastRun = started
	s.resultMu.Unlock()

	alerts, err := s.Source.ScanAlerts(ctx)
	if err != nil {
		s.logger.Error("alert scan failed", zap.Error(err))
		return
	}

	s.resultMu.Lock()
	s.latest = alerts
	s.scannedAt = started
	s.resultMu.Unlock()

	s.logger.Info("alert scan completed",
		zap.Int("alerts", len(alerts)),
		zap.Duration("duration", time.Since(started)),
	)
}

// RunNow triggers an immediate scan on the caller's goroutine.
func (s *AlertScanner) RunNow(ctx context.Context) {
	s.scan(ctx)
}

// Latest returns the last successful scan. ok is false until one succeeds.
func (s *AlertScanner) Latest() (alerts []staff.StaffAlert, scannedAt time.Time, ok bool) {
	s.resultMu.RLock()
	defer s.resultMu.RUnlock()
	if s.scannedAt.IsZero() {
		return nil, time.Time{}, false
	}
	return s.latest, s.scannedAt, true
}

// NextRunTime returns when the next scheduled scan is due, or the zero time
// before the first scan.
func (s *AlertScanner) NextRunTime() time.Time {
	s.resultMu.RLock()
	defer s.resultMu.RUnlock()
	if s.lastRun.IsZero() {
		return time.Time{}
	}
	return s.lastRun.Add(s.CheckInterval)
}
