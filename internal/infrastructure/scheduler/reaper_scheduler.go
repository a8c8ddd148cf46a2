// Package scheduler runs background maintenance jobs on a timer.
package scheduler

import (
	"context"
	"sync"
	"time"

	apporder "github.com/orderdesk/backend/internal/application/order"
	"github.com/orderdesk/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

const (
	defaultCheckInterval = 1 * time.Hour
	defaultSweepTimeout  = 5 * time.Minute
)

// ReaperScheduler periodically sweeps stale draft orders using the
// DraftReaperService.
type ReaperScheduler struct {
	service   *apporder.DraftReaperService
	logger    *zap.Logger
	config    config.ReaperConfig
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewReaperScheduler creates a new reaper scheduler
func NewReaperScheduler(
	service *apporder.DraftReaperService,
	logger *zap.Logger,
	cfg config.ReaperConfig,
) *ReaperScheduler {
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = defaultCheckInterval
	}
	return &ReaperScheduler{
		service: service,
		logger:  logger,
		config:  cfg,
	}
}

// Start starts the periodic sweep loop
func (s *ReaperScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	if !s.config.Enabled {
		s.mu.Unlock()
		s.logger.Info("Draft reaper scheduler is disabled")
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.run(ctx)

	s.logger.Info("Draft reaper scheduler started",
		zap.Duration("check_interval", s.config.CheckInterval),
		zap.Duration("draft_max_age", s.config.DraftMaxAge),
	)

	return nil
}

// Stop gracefully stops the scheduler
func (s *ReaperScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Draft reaper scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Draft reaper scheduler stop timed out")
		return ctx.Err()
	}
}

// run sweeps on every tick until the context is cancelled
func (s *ReaperScheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Draft reaper loop stopping")
			return
		case <-ticker.C:
			s.executeSweep(ctx)
		}
	}
}

// executeSweep runs one bounded sweep
func (s *ReaperScheduler) executeSweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, defaultSweepTimeout)
	defer cancel()

	startTime := time.Now()
	stats, err := s.service.ReapStaleDrafts(sweepCtx)
	duration := time.Since(startTime)

	if err != nil {
		s.logger.Error("Stale draft sweep failed",
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return
	}

	if stats.TotalStale == 0 {
		return
	}

	s.logger.Info("Stale draft sweep completed",
		zap.Duration("duration", duration),
		zap.Int("total_stale", stats.TotalStale),
		zap.Int("deleted", stats.Deleted),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed),
	)
}

// TriggerImmediateSweep runs a sweep right away without waiting for the
// next tick
func (s *ReaperScheduler) TriggerImmediateSweep(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.wg.Add(1)
	s.mu.Unlock()

	s.logger.Info("Triggering immediate stale draft sweep")

	go func() {
		defer s.wg.Done()
		s.executeSweep(ctx)
	}()

	return nil
}

// IsRunning returns whether the scheduler is running
func (s *ReaperScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}
