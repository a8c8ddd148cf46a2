package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/orderdesk/backend/internal/domain/catalog"
	"github.com/orderdesk/backend/internal/domain/inventory"
)

// AdjustStockRequest is the request to apply a signed manual correction
type AdjustStockRequest struct {
	Delta int64  `json:"delta" binding:"required"`
	Note  string `json:"note" binding:"required"`
}

// RestockRequest is the request to record received stock
type RestockRequest struct {
	Pieces int64  `json:"pieces" binding:"required,gt=0"`
	Note   string `json:"note"`
}

// MovementListFilter contains filter options for listing stock movements
type MovementListFilter struct {
	Page     int     `form:"page"`
	PageSize int     `form:"page_size"`
	Reason   *string `form:"reason"`
}

// StockMovementResponse is the API representation of a stock movement
type StockMovementResponse struct {
	ID           uuid.UUID  `json:"id"`
	ProductID    uuid.UUID  `json:"product_id"`
	Delta        int64      `json:"delta"`
	BeforePieces int64      `json:"before_pieces"`
	AfterPieces  int64      `json:"after_pieces"`
	Reason       string     `json:"reason"`
	ReferenceID  *uuid.UUID `json:"reference_id,omitempty"`
	ActorID      uuid.UUID  `json:"actor_id"`
	Note         string     `json:"note,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ToStockMovementResponse converts a domain movement to a response
func ToStockMovementResponse(m *inventory.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		ID:           m.ID,
		ProductID:    m.ProductID,
		Delta:        m.Delta,
		BeforePieces: m.BeforePieces,
		AfterPieces:  m.AfterPieces,
		Reason:       string(m.Reason),
		ReferenceID:  m.ReferenceID,
		ActorID:      m.ActorID,
		Note:         m.Note,
		CreatedAt:    m.CreatedAt,
	}
}

// StockLevelResponse is the API representation of a product's stock level
type StockLevelResponse struct {
	ProductID         uuid.UUID `json:"product_id"`
	SKUCode           string    `json:"sku_code"`
	Name              string    `json:"name"`
	OnHandPieces      int64     `json:"on_hand_pieces"`
	LowStockThreshold int64     `json:"low_stock_threshold"`
	LowStock          bool      `json:"low_stock"`
}

// ToStockLevelResponse converts a product to a stock level response
func ToStockLevelResponse(p *catalog.Product) StockLevelResponse {
	return StockLevelResponse{
		ProductID:         p.ID,
		SKUCode:           p.SKUCode,
		Name:              p.Name,
		OnHandPieces:      p.OnHandPieces,
		LowStockThreshold: p.LowStockThreshold,
		LowStock:          p.IsLowStock(),
	}
}
