package invoice

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for invoices.
// Invoices are immutable: there is deliberately no update or delete.
type Repository interface {
	// FindByID finds an invoice by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	// FindByOrderID finds the invoice for an order, if any
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*Invoice, error)
	// Create inserts a new invoice; a second insert for the same order
	// fails with ErrAlreadyExists via the storage unique constraint
	Create(ctx context.Context, inv *Invoice) error
	// GenerateInvoiceNumber generates a unique INV-YYYY-NNNNN number
	GenerateInvoiceNumber(ctx context.Context) (string, error)
}
