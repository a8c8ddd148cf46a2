package returns

import (
	"context"

	"github.com/google/uuid"
	"github.com/orderdesk/backend/internal/domain/shared"
)

// Repository defines persistence operations for return requests
type Repository interface {
	// FindByID finds a return request by its ID, lines included
	FindByID(ctx context.Context, id uuid.UUID) (*ReturnRequest, error)
	// FindByOrderID finds all return requests for an order
	FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]ReturnRequest, error)
	// FindAll finds return requests matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]ReturnRequest, error)
	// Count counts return requests matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// Save persists a return request and its lines
	Save(ctx context.Context, request *ReturnRequest) error
	// SumReturnedPiecesByOrderLine returns, per order line of the given
	// order, the pieces already covered by pending or approved returns
	SumReturnedPiecesByOrderLine(ctx context.Context, orderID uuid.UUID) (map[uuid.UUID]int64, error)
	// GenerateReturnNumber generates a unique RET-YYYY-NNNNN number
	GenerateReturnNumber(ctx context.Context) (string, error)
}
