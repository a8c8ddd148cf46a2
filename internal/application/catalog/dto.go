package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/orderdesk/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateProductRequest is the request to create a product
type CreateProductRequest struct {
	SKUCode           string           `json:"sku_code" binding:"required"`
	Name              string           `json:"name" binding:"required"`
	PricePerPiece     decimal.Decimal  `json:"price_per_piece" binding:"required"`
	WholesaleCost     *decimal.Decimal `json:"wholesale_cost_per_piece"`
	PiecesPerCase     int64            `json:"pieces_per_case" binding:"required,gt=0"`
	LowStockThreshold int64            `json:"low_stock_threshold" binding:"gte=0"`
}

// UpdateProductRequest is the request to update product attributes.
// Stock is never changed here; that is the stock ledger's job.
type UpdateProductRequest struct {
	Name              *string          `json:"name"`
	PricePerPiece     *decimal.Decimal `json:"price_per_piece"`
	WholesaleCost     *decimal.Decimal `json:"wholesale_cost_per_piece"`
	LowStockThreshold *int64           `json:"low_stock_threshold"`
}

// ProductListFilter contains filter options for listing products
type ProductListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Search   string `form:"search"`
	Active   *bool  `form:"active"`
	LowStock *bool  `form:"low_stock"`
}

// ProductResponse is the API representation of a product
type ProductResponse struct {
	ID                uuid.UUID        `json:"id"`
	SKUCode           string           `json:"sku_code"`
	Name              string           `json:"name"`
	PricePerPiece     decimal.Decimal  `json:"price_per_piece"`
	WholesaleCost     *decimal.Decimal `json:"wholesale_cost_per_piece,omitempty"`
	PiecesPerCase     int64            `json:"pieces_per_case"`
	OnHandPieces      int64            `json:"on_hand_pieces"`
	LowStockThreshold int64            `json:"low_stock_threshold"`
	LowStock          bool             `json:"low_stock"`
	Active            bool             `json:"active"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// ToProductResponse converts a domain product to a response
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:                p.ID,
		SKUCode:           p.SKUCode,
		Name:              p.Name,
		PricePerPiece:     p.PricePerPiece,
		WholesaleCost:     p.WholesaleCostPerPiece,
		PiecesPerCase:     p.PiecesPerCase,
		OnHandPieces:      p.OnHandPieces,
		LowStockThreshold: p.LowStockThreshold,
		LowStock:          p.IsLowStock(),
		Active:            p.Active,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}
