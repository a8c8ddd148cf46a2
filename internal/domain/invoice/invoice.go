package invoice

import (
	"time"

	"github.com/google/uuid"
	"github.com/orderdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Invoice is the immutable billing artifact for a committed order.
// Exactly one invoice exists per order; regeneration returns the
// existing record instead of creating another.
type Invoice struct {
	ID            uuid.UUID
	InvoiceNumber string
	OrderID       uuid.UUID
	TotalAmount   decimal.Decimal
	DocumentRef   string
	CreatedAt     time.Time
}

// NewInvoice creates an invoice record for an order
func NewInvoice(invoiceNumber string, orderID uuid.UUID, totalAmount decimal.Decimal, documentRef string) (*Invoice, error) {
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if totalAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Invoice total cannot be negative")
	}
	if documentRef == "" {
		return nil, shared.NewDomainError("INVALID_DOCUMENT_REF", "Document reference cannot be empty")
	}

	return &Invoice{
		ID:            uuid.New(),
		InvoiceNumber: invoiceNumber,
		OrderID:       orderID,
		TotalAmount:   totalAmount,
		DocumentRef:   documentRef,
		CreatedAt:     time.Now(),
	}, nil
}
