package catalog

import (
	"github.com/orderdesk/backend/internal/domain/shared"
)

// Event types for the catalog context
const (
	EventTypeProductLowStock = "catalog.product.low_stock"
)

// ProductLowStockEvent is emitted when a deduction takes a product's
// on-hand count to or below its low stock threshold.
type ProductLowStockEvent struct {
	shared.BaseDomainEvent
	SKUCode      string `json:"sku_code"`
	ProductName  string `json:"product_name"`
	OnHandPieces int64  `json:"on_hand_pieces"`
	Threshold    int64  `json:"threshold"`
}

// NewProductLowStockEvent creates a new ProductLowStockEvent
func NewProductLowStockEvent(p *Product) *ProductLowStockEvent {
	return &ProductLowStockEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductLowStock, "Product", p.ID),
		SKUCode:         p.SKUCode,
		ProductName:     p.Name,
		OnHandPieces:    p.OnHandPieces,
		Threshold:       p.LowStockThreshold,
	}
}
