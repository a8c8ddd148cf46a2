package order

import (
	"context"
	"errors"
	"time"

	"github.com/orderdesk/backend/internal/domain/order"
	"github.com/orderdesk/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const (
	// DefaultDraftMaxAge is how old a draft may grow before the reaper
	// deletes it, measured from creation
	DefaultDraftMaxAge = 24 * time.Hour
	// DefaultReapBatchSize bounds how many drafts one sweep processes
	DefaultReapBatchSize = 200
)

// DraftReaperService deletes abandoned draft orders. Drafts never held
// stock, so deletion is a plain cleanup with no ledger effect.
type DraftReaperService struct {
	orderRepo order.Repository
	logger    *zap.Logger
	maxAge    time.Duration
	batchSize int
}

// NewDraftReaperService creates a new DraftReaperService
func NewDraftReaperService(orderRepo order.Repository, logger *zap.Logger, maxAge time.Duration) *DraftReaperService {
	if maxAge <= 0 {
		maxAge = DefaultDraftMaxAge
	}
	return &DraftReaperService{
		orderRepo: orderRepo,
		logger:    logger,
		maxAge:    maxAge,
		batchSize: DefaultReapBatchSize,
	}
}

// SetBatchSize overrides how many drafts one sweep processes
func (s *DraftReaperService) SetBatchSize(size int) {
	if size > 0 {
		s.batchSize = size
	}
}

// ReapStats contains statistics about one reaper sweep
type ReapStats struct {
	TotalStale  int       `json:"total_stale"`
	Deleted     int       `json:"deleted"`
	Skipped     int       `json:"skipped"`
	Failed      int       `json:"failed"`
	ProcessedAt time.Time `json:"processed_at"`
}

// ReapStaleDrafts finds and deletes drafts created before the cutoff.
// Editing a draft does not extend its life; only confirming it does.
// Each delete is guarded on draft status, so a draft confirmed between
// the scan and the delete survives untouched. The sweep is idempotent:
// running it twice deletes nothing new. Per-row failures are logged and
// skipped; they never abort the sweep.
func (s *DraftReaperService) ReapStaleDrafts(ctx context.Context) (*ReapStats, error) {
	stats := &ReapStats{
		ProcessedAt: time.Now(),
	}
	cutoff := stats.ProcessedAt.Add(-s.maxAge)

	staleIDs, err := s.orderRepo.FindStaleDraftIDs(ctx, cutoff, s.batchSize)
	if err != nil {
		s.logger.Error("Failed to find stale drafts", zap.Error(err))
		return nil, err
	}

	stats.TotalStale = len(staleIDs)
	if stats.TotalStale == 0 {
		s.logger.Debug("No stale drafts found")
		return stats, nil
	}

	s.logger.Info("Found stale draft orders",
		zap.Int("count", stats.TotalStale),
		zap.Time("cutoff", cutoff),
	)

	for _, id := range staleIDs {
		err := s.orderRepo.DeleteDraft(ctx, id)
		switch {
		case err == nil:
			stats.Deleted++
		case errors.Is(err, shared.ErrNotFound):
			// The status guard did not match: confirmed or already gone
			stats.Skipped++
		default:
			s.logger.Error("Failed to delete stale draft",
				zap.String("order_id", id.String()),
				zap.Error(err),
			)
			stats.Failed++
		}
	}

	s.logger.Info("Completed stale draft sweep",
		zap.Int("total", stats.TotalStale),
		zap.Int("deleted", stats.Deleted),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed),
	)

	return stats, nil
}
