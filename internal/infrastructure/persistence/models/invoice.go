package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/orderdesk/backend/internal/domain/invoice"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for the Invoice record.
// The unique index on OrderID enforces the one-invoice-per-order rule
// at the database level.
type InvoiceModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key"`
	InvoiceNumber string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_invoice_number"`
	OrderID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_invoice_order_id"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DocumentRef   string          `gorm:"type:varchar(500);not null"`
	CreatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice entity.
func (m *InvoiceModel) ToDomain() *invoice.Invoice {
	return &invoice.Invoice{
		ID:            m.ID,
		InvoiceNumber: m.InvoiceNumber,
		OrderID:       m.OrderID,
		TotalAmount:   m.TotalAmount,
		DocumentRef:   m.DocumentRef,
		CreatedAt:     m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain Invoice entity.
func (m *InvoiceModel) FromDomain(inv *invoice.Invoice) {
	m.ID = inv.ID
	m.InvoiceNumber = inv.InvoiceNumber
	m.OrderID = inv.OrderID
	m.TotalAmount = inv.TotalAmount
	m.DocumentRef = inv.DocumentRef
	m.CreatedAt = inv.CreatedAt
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice entity.
func InvoiceModelFromDomain(inv *invoice.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}
