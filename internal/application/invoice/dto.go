package invoice

import (
	"time"

	"github.com/google/uuid"
	"github.com/orderdesk/backend/internal/domain/invoice"
	"github.com/shopspring/decimal"
)

// InvoiceResponse is the API representation of an invoice
type InvoiceResponse struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	OrderID       uuid.UUID       `json:"order_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	DocumentRef   string          `json:"document_ref"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToInvoiceResponse converts a domain invoice to a response
func ToInvoiceResponse(inv *invoice.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		OrderID:       inv.OrderID,
		TotalAmount:   inv.TotalAmount,
		DocumentRef:   inv.DocumentRef,
		CreatedAt:     inv.CreatedAt,
	}
}

// DocumentLine is one line of a rendered invoice document
type DocumentLine struct {
	SKUCode       string
	CasesOrdered  int64
	PiecesPerCase int64
	Pieces        int64
	UnitPrice     decimal.Decimal
	LineTotal     decimal.Decimal
}

// Document carries everything the renderer needs to produce an invoice
// document. Values come from order snapshots, never from client input.
type Document struct {
	InvoiceNumber  string
	OrderNumber    string
	IssuedAt       time.Time
	Lines          []DocumentLine
	Subtotal       decimal.Decimal
	DiscountKind   string
	DiscountAmount decimal.Decimal
	TotalAmount    decimal.Decimal
	PaymentMethod  string
}
