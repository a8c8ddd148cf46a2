package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/orderdesk/backend/internal/domain/shared"
)

// StockMovementRepository is the append-only store of stock movements
type StockMovementRepository interface {
	// Append inserts a new movement record
	Append(ctx context.Context, movement *StockMovement) error
	// FindByProduct finds movements for a product, newest first
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]StockMovement, error)
	// Count counts movements matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
