package invoice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/orderdesk/backend/internal/domain/invoice"
	"github.com/orderdesk/backend/internal/domain/order"
	"github.com/orderdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DocumentRenderer produces the invoice document and returns an opaque
// reference to wherever it was stored.
type DocumentRenderer interface {
	// RenderInvoice renders and stores an invoice document
	RenderInvoice(ctx context.Context, doc Document) (string, error)
	// DiscardInvoice removes the stored document of an invoice number
	// that was never persisted
	DiscardInvoice(ctx context.Context, invoiceNumber string) error
}

// InvoiceService issues invoices for committed orders. Issuance is
// idempotent: the storage layer enforces one invoice per order, and a
// race loser returns the winner's record.
type InvoiceService struct {
	invoiceRepo invoice.Repository
	orderRepo   order.Repository
	renderer    DocumentRenderer
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo invoice.Repository,
	orderRepo order.Repository,
	renderer DocumentRenderer,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		orderRepo:   orderRepo,
		renderer:    renderer,
	}
}

// Issue creates the invoice for a confirmed or delivered order, or
// returns the existing one unchanged. Totals are recomputed from the
// order's line snapshots; client-supplied amounts are never used.
func (s *InvoiceService) Issue(ctx context.Context, orderID uuid.UUID) (*InvoiceResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.IsConfirmed() && !o.IsDelivered() {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot invoice a %s order", o.Status))
	}

	existing, err := s.invoiceRepo.FindByOrderID(ctx, orderID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		response := ToInvoiceResponse(existing)
		return &response, nil
	}

	invoiceNumber, err := s.invoiceRepo.GenerateInvoiceNumber(ctx)
	if err != nil {
		return nil, err
	}

	o.RecalculateTotal()

	documentRef, err := s.renderer.RenderInvoice(ctx, buildDocument(invoiceNumber, o))
	if err != nil {
		return nil, err
	}

	inv, err := invoice.NewInvoice(invoiceNumber, o.ID, o.TotalAmount, documentRef)
	if err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Create(ctx, inv); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			// Lost the race: another issue call got there first. The
			// losing number was never persisted, so its document must
			// not linger in the store.
			_ = s.renderer.DiscardInvoice(ctx, invoiceNumber)
			winner, findErr := s.invoiceRepo.FindByOrderID(ctx, orderID)
			if findErr != nil {
				return nil, findErr
			}
			response := ToInvoiceResponse(winner)
			return &response, nil
		}
		return nil, err
	}

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// GetByID retrieves an invoice
func (s *InvoiceService) GetByID(ctx context.Context, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(inv)
	return &response, nil
}

// GetByOrderID retrieves the invoice of an order
func (s *InvoiceService) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(inv)
	return &response, nil
}

// buildDocument assembles the renderer input from the order snapshots
func buildDocument(invoiceNumber string, o *order.Order) Document {
	lines := make([]DocumentLine, len(o.Lines))
	subtotal := decimal.Zero
	for i := range o.Lines {
		l := &o.Lines[i]
		lines[i] = DocumentLine{
			SKUCode:       l.SKUCodeSnapshot,
			CasesOrdered:  l.CasesOrdered,
			PiecesPerCase: l.PiecesPerCaseSnapshot,
			Pieces:        l.ComputedPieces(),
			UnitPrice:     l.UnitPriceSnapshot,
			LineTotal:     l.LineTotal(),
		}
		subtotal = subtotal.Add(l.LineTotal())
	}
	return Document{
		InvoiceNumber:  invoiceNumber,
		OrderNumber:    o.OrderNumber,
		IssuedAt:       time.Now(),
		Lines:          lines,
		Subtotal:       subtotal,
		DiscountKind:   string(o.DiscountKind),
		DiscountAmount: o.DiscountAmount,
		TotalAmount:    o.TotalAmount,
		PaymentMethod:  string(o.PaymentMethod),
	}
}
