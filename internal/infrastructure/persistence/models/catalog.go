package models

import (
	"github.com/orderdesk/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product aggregate root.
type ProductModel struct {
	AggregateModel
	SKUCode               string           `gorm:"type:varchar(50);not null;uniqueIndex:idx_product_sku_code"`
	Name                  string           `gorm:"type:varchar(200);not null"`
	PricePerPiece         decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	WholesaleCostPerPiece *decimal.Decimal `gorm:"type:decimal(18,4)"`
	PiecesPerCase         int64            `gorm:"not null"`
	OnHandPieces          int64            `gorm:"not null;default:0"`
	LowStockThreshold     int64            `gorm:"not null;default:0"`
	Active                bool             `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseAggregateRoot:     m.ToDomainAggregateRoot(),
		SKUCode:               m.SKUCode,
		Name:                  m.Name,
		PricePerPiece:         m.PricePerPiece,
		WholesaleCostPerPiece: m.WholesaleCostPerPiece,
		PiecesPerCase:         m.PiecesPerCase,
		OnHandPieces:          m.OnHandPieces,
		LowStockThreshold:     m.LowStockThreshold,
		Active:                m.Active,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.SKUCode = p.SKUCode
	m.Name = p.Name
	m.PricePerPiece = p.PricePerPiece
	m.WholesaleCostPerPiece = p.WholesaleCostPerPiece
	m.PiecesPerCase = p.PiecesPerCase
	m.OnHandPieces = p.OnHandPieces
	m.LowStockThreshold = p.LowStockThreshold
	m.Active = p.Active
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}
