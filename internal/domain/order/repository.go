package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/orderdesk/backend/internal/domain/shared"
)

// Repository defines persistence operations for orders
type Repository interface {
	// FindByID finds an order by its ID, lines included
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	// FindByOrderNumber finds an order by its order number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)
	// FindAll finds orders matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)
	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// Save persists an order and its lines (insert or update)
	Save(ctx context.Context, order *Order) error
	// SaveWithLock persists an order using optimistic version checking
	SaveWithLock(ctx context.Context, order *Order) error
	// FindStaleDraftIDs returns IDs of draft orders created before the cutoff
	FindStaleDraftIDs(ctx context.Context, cutoff time.Time, limit int) ([]uuid.UUID, error)
	// DeleteDraft deletes an order and its lines only while its status is
	// still DRAFT; returns ErrNotFound when the guard does not match
	DeleteDraft(ctx context.Context, id uuid.UUID) error
	// GenerateOrderNumber generates a unique ORD-YYYY-NNNNN number
	GenerateOrderNumber(ctx context.Context) (string, error)
}
