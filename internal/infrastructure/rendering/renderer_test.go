package rendering

import (
	"context"
	"testing"
	"time"

	appinvoice "github.com/orderdesk/backend/internal/application/invoice"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sampleDocument() appinvoice.Document {
	return appinvoice.Document{
		InvoiceNumber: "INV-2026-00042",
		OrderNumber:   "ORD-2026-00017",
		IssuedAt:      time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Lines: []appinvoice.DocumentLine{
			{
				SKUCode:       "COLA-330",
				CasesOrdered:  10,
				PiecesPerCase: 24,
				Pieces:        240,
				UnitPrice:     decimal.NewFromFloat(1.25),
				LineTotal:     decimal.NewFromFloat(300),
			},
			{
				SKUCode:       "WATER-500",
				CasesOrdered:  5,
				PiecesPerCase: 12,
				Pieces:        60,
				UnitPrice:     decimal.NewFromFloat(0.80),
				LineTotal:     decimal.NewFromFloat(48),
			},
		},
		Subtotal:       decimal.NewFromFloat(348),
		DiscountKind:   "PERCENT",
		DiscountAmount: decimal.NewFromFloat(34.80),
		TotalAmount:    decimal.NewFromFloat(313.20),
		PaymentMethod:  "BANK_TRANSFER",
	}
}

func TestHTMLInvoiceRenderer_RenderInvoice(t *testing.T) {
	store := NewStubStore()
	renderer, err := NewHTMLInvoiceRenderer(store, zap.NewNop())
	require.NoError(t, err)

	ref, err := renderer.RenderInvoice(context.Background(), sampleDocument())
	require.NoError(t, err)
	assert.Equal(t, "stub://invoices/INV-2026-00042.html", ref)

	content, ok := store.Get("invoices/INV-2026-00042.html")
	require.True(t, ok)
	html := string(content)

	assert.Contains(t, html, "INV-2026-00042")
	assert.Contains(t, html, "ORD-2026-00017")
	assert.Contains(t, html, "2026-03-14 09:30:00")
	assert.Contains(t, html, "COLA-330")
	assert.Contains(t, html, "WATER-500")
	assert.Contains(t, html, "1.25")
	assert.Contains(t, html, "348.00")
	assert.Contains(t, html, "34.80")
	assert.Contains(t, html, "313.20")
	assert.Contains(t, html, "Bank transfer")
	assert.Contains(t, html, "Percent")
}

func TestHTMLInvoiceRenderer_NoDiscountSection(t *testing.T) {
	store := NewStubStore()
	renderer, err := NewHTMLInvoiceRenderer(store, zap.NewNop())
	require.NoError(t, err)

	doc := sampleDocument()
	doc.DiscountKind = "NONE"
	doc.DiscountAmount = decimal.Zero

	_, err = renderer.RenderInvoice(context.Background(), doc)
	require.NoError(t, err)

	content, ok := store.Get("invoices/INV-2026-00042.html")
	require.True(t, ok)
	assert.NotContains(t, string(content), "Discount")
}

func TestHTMLInvoiceRenderer_EscapesContent(t *testing.T) {
	store := NewStubStore()
	renderer, err := NewHTMLInvoiceRenderer(store, zap.NewNop())
	require.NoError(t, err)

	doc := sampleDocument()
	doc.Lines[0].SKUCode = `<script>alert("x")</script>`

	_, err = renderer.RenderInvoice(context.Background(), doc)
	require.NoError(t, err)

	content, ok := store.Get("invoices/INV-2026-00042.html")
	require.True(t, ok)
	assert.NotContains(t, string(content), "<script>")
	assert.Contains(t, string(content), "&lt;script&gt;")
}

func TestHTMLInvoiceRenderer_DiscardInvoice(t *testing.T) {
	store := NewStubStore()
	renderer, err := NewHTMLInvoiceRenderer(store, zap.NewNop())
	require.NoError(t, err)

	_, err = renderer.RenderInvoice(context.Background(), sampleDocument())
	require.NoError(t, err)
	require.Equal(t, 1, store.Len())

	require.NoError(t, renderer.DiscardInvoice(context.Background(), "INV-2026-00042"))
	assert.Equal(t, 0, store.Len())

	// Discarding a number that was never rendered is a no-op
	assert.NoError(t, renderer.DiscardInvoice(context.Background(), "INV-2026-09999"))
}

func TestNewHTMLInvoiceRenderer_Validation(t *testing.T) {
	_, err := NewHTMLInvoiceRenderer(nil, zap.NewNop())
	assert.Error(t, err)

	_, err = NewHTMLInvoiceRendererWithTemplate(NewStubStore(), zap.NewNop(), "{{.Broken")
	assert.Error(t, err)
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"0", "0.00"},
		{"5", "5.00"},
		{"1234.5", "1,234.50"},
		{"1000000", "1,000,000.00"},
		{"-9876.54", "-9,876.54"},
		{"999.999", "1,000.00"},
	}

	for _, tt := range tests {
		d, err := decimal.NewFromString(tt.input)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, formatMoney(d), "input %s", tt.input)
	}
}

func TestStatusText(t *testing.T) {
	assert.Equal(t, "Cash", statusText("CASH"))
	assert.Equal(t, "Cheque", statusText("CHEQUE"))
	assert.Equal(t, "Fixed amount", statusText("FIXED"))
	assert.Equal(t, "SOMETHING_ELSE", statusText("SOMETHING_ELSE"))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "", formatDate(time.Time{}))
	assert.Equal(t, "2026-01-02", formatDate(time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)))
	assert.Equal(t, "", formatDateTime(time.Time{}))
}
