package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/orderdesk/backend/internal/domain/shared"
)

// ProductRepository defines persistence operations for products
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	// FindByIDForUpdate finds a product by ID holding an exclusive row lock
	// for the duration of the enclosing transaction
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Product, error)
	// FindBySKU finds a product by its SKU code
	FindBySKU(ctx context.Context, skuCode string) (*Product, error)
	// FindAll finds products matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)
	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// Save persists a product (insert or update)
	Save(ctx context.Context, product *Product) error
	// Delete removes a product; implementations must refuse while any
	// order line references it
	Delete(ctx context.Context, id uuid.UUID) error
	// IsReferencedByOrders reports whether any order line references the product
	IsReferencedByOrders(ctx context.Context, id uuid.UUID) (bool, error)
}
