package catalog

import (
	"fmt"
	"time"

	"github.com/orderdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product represents a sellable product aggregate root.
// OnHandPieces is the single shared mutable counter in the system and is
// only ever changed through the methods below, inside a locked transaction.
type Product struct {
	shared.BaseAggregateRoot
	SKUCode               string
	Name                  string
	PricePerPiece         decimal.Decimal
	WholesaleCostPerPiece *decimal.Decimal
	PiecesPerCase         int64
	OnHandPieces          int64
	LowStockThreshold     int64
	Active                bool
}

// NewProduct creates a new product
func NewProduct(skuCode, name string, pricePerPiece decimal.Decimal, piecesPerCase int64) (*Product, error) {
	if skuCode == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if pricePerPiece.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price per piece cannot be negative")
	}
	if piecesPerCase <= 0 {
		return nil, shared.NewDomainError("INVALID_CASE_SIZE", "Pieces per case must be positive")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SKUCode:           skuCode,
		Name:              name,
		PricePerPiece:     pricePerPiece,
		PiecesPerCase:     piecesPerCase,
		OnHandPieces:      0,
		Active:            true,
	}, nil
}

// SetWholesaleCost sets the optional wholesale cost per piece
func (p *Product) SetWholesaleCost(cost decimal.Decimal) error {
	if cost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Wholesale cost cannot be negative")
	}
	p.WholesaleCostPerPiece = &cost
	p.Touch()
	return nil
}

// SetLowStockThreshold sets the threshold below which the product is flagged
func (p *Product) SetLowStockThreshold(threshold int64) error {
	if threshold < 0 {
		return shared.NewDomainError("INVALID_THRESHOLD", "Low stock threshold cannot be negative")
	}
	p.LowStockThreshold = threshold
	p.Touch()
	return nil
}

// Rename changes the display name
func (p *Product) Rename(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	p.Name = name
	p.Touch()
	return nil
}

// UpdatePrice updates the selling price per piece
func (p *Product) UpdatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price per piece cannot be negative")
	}
	p.PricePerPiece = price
	p.Touch()
	return nil
}

// Deactivate marks the product as inactive; inactive products cannot be
// added to new orders but historical orders keep referencing them.
func (p *Product) Deactivate() {
	p.Active = false
	p.Touch()
}

// Activate marks the product as active again
func (p *Product) Activate() {
	p.Active = true
	p.Touch()
}

// Deduct removes pieces from on-hand stock.
// Fails without mutating when the deduction would go below zero.
func (p *Product) Deduct(pieces int64) error {
	if pieces <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Pieces to deduct must be positive")
	}
	if p.OnHandPieces < pieces {
		return shared.NewDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Insufficient stock for product %s: have %d pieces, need %d", p.SKUCode, p.OnHandPieces, pieces))
	}

	wasLow := p.IsLowStock()
	p.OnHandPieces -= pieces
	p.Touch()

	if !wasLow && p.IsLowStock() {
		p.AddDomainEvent(NewProductLowStockEvent(p))
	}
	return nil
}

// Restore adds previously deducted pieces back onto on-hand stock
func (p *Product) Restore(pieces int64) error {
	if pieces <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Pieces to restore must be positive")
	}
	p.OnHandPieces += pieces
	p.Touch()
	return nil
}

// Restock adds newly received pieces onto on-hand stock
func (p *Product) Restock(pieces int64) error {
	if pieces <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Pieces to restock must be positive")
	}
	p.OnHandPieces += pieces
	p.Touch()
	return nil
}

// AdjustBy applies a signed manual correction to on-hand stock.
// A negative delta that would go below zero fails without mutating.
func (p *Product) AdjustBy(delta int64) error {
	if delta == 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Adjustment delta cannot be zero")
	}
	if delta < 0 && p.OnHandPieces+delta < 0 {
		return shared.NewDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Adjustment of %d would take product %s below zero (have %d pieces)", delta, p.SKUCode, p.OnHandPieces))
	}

	wasLow := p.IsLowStock()
	p.OnHandPieces += delta
	p.Touch()

	if delta < 0 && !wasLow && p.IsLowStock() {
		p.AddDomainEvent(NewProductLowStockEvent(p))
	}
	return nil
}

// IsLowStock reports whether on-hand stock is at or below the threshold
func (p *Product) IsLowStock() bool {
	return p.LowStockThreshold > 0 && p.OnHandPieces <= p.LowStockThreshold
}

// Touch updates the modification timestamp
func (p *Product) Touch() {
	p.UpdatedAt = time.Now()
}
