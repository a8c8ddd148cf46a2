package audit

import (
	"context"

	"github.com/orderdesk/backend/internal/domain/shared"
)

// Repository defines persistence operations for audit entries.
// The interface is append-only by construction: no update or delete
// operation exists, for any caller, on purpose.
type Repository interface {
	// Append inserts a new audit entry
	Append(ctx context.Context, entry *Entry) error
	// FindByEntity finds entries for one entity, newest first
	FindByEntity(ctx context.Context, entityType, entityID string, filter shared.Filter) ([]Entry, error)
	// FindAll finds entries matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Entry, error)
	// Count counts entries matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
