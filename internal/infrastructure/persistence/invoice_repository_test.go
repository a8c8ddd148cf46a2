package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/orderdesk/backend/internal/domain/invoice"
	"github.com/orderdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInvoice(t *testing.T, invoiceNumber string, orderID uuid.UUID) *invoice.Invoice {
	t.Helper()
	inv, err := invoice.NewInvoice(invoiceNumber, orderID, decimal.NewFromFloat(240.00), "documents/"+invoiceNumber+".html")
	require.NoError(t, err)
	return inv
}

func TestInvoiceRepository_Create(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	t.Run("creates and finds by ID and order", func(t *testing.T) {
		orderID := uuid.New()
		inv := newTestInvoice(t, "INV-2026-00001", orderID)

		require.NoError(t, repo.Create(ctx, inv))

		found, err := repo.FindByID(ctx, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, "INV-2026-00001", found.InvoiceNumber)
		assert.True(t, decimal.NewFromFloat(240.00).Equal(found.TotalAmount))

		byOrder, err := repo.FindByOrderID(ctx, orderID)
		require.NoError(t, err)
		assert.Equal(t, inv.ID, byOrder.ID)
	})

	t.Run("second invoice for the same order fails with already exists", func(t *testing.T) {
		orderID := uuid.New()
		first := newTestInvoice(t, "INV-2026-00002", orderID)
		require.NoError(t, repo.Create(ctx, first))

		second := newTestInvoice(t, "INV-2026-00003", orderID)
		err := repo.Create(ctx, second)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)

		// The original record is untouched
		found, err := repo.FindByOrderID(ctx, orderID)
		require.NoError(t, err)
		assert.Equal(t, first.ID, found.ID)
	})

	t.Run("returns not found for an uninvoiced order", func(t *testing.T) {
		_, err := repo.FindByOrderID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestInvoiceRepository_GenerateInvoiceNumber(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	year := time.Now().Year()

	number, err := repo.GenerateInvoiceNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("INV-%d-00001", year), number)

	inv := newTestInvoice(t, number, uuid.New())
	require.NoError(t, repo.Create(ctx, inv))

	next, err := repo.GenerateInvoiceNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("INV-%d-00002", year), next)
}
