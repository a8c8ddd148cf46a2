package rendering

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	appinvoice "github.com/orderdesk/backend/internal/application/invoice"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// HTMLInvoiceRenderer renders invoice documents from an HTML template and
// hands the result to a DocumentStore.
type HTMLInvoiceRenderer struct {
	tmpl   *template.Template
	store  DocumentStore
	logger *zap.Logger
}

// NewHTMLInvoiceRenderer creates a renderer with the default invoice
// template
func NewHTMLInvoiceRenderer(store DocumentStore, logger *zap.Logger) (*HTMLInvoiceRenderer, error) {
	return NewHTMLInvoiceRendererWithTemplate(store, logger, defaultInvoiceTemplate)
}

// NewHTMLInvoiceRendererWithTemplate creates a renderer with a custom
// template body
func NewHTMLInvoiceRendererWithTemplate(store DocumentStore, logger *zap.Logger, templateBody string) (*HTMLInvoiceRenderer, error) {
	if store == nil {
		return nil, fmt.Errorf("document store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	tmpl, err := template.New("invoice").Funcs(templateFuncs()).Parse(templateBody)
	if err != nil {
		return nil, fmt.Errorf("failed to parse invoice template: %w", err)
	}

	return &HTMLInvoiceRenderer{
		tmpl:   tmpl,
		store:  store,
		logger: logger,
	}, nil
}

// RenderInvoice renders the document and stores it, returning the
// storage reference
func (r *HTMLInvoiceRenderer) RenderInvoice(ctx context.Context, doc appinvoice.Document) (string, error) {
	start := time.Now()

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("failed to render invoice %s: %w", doc.InvoiceNumber, err)
	}

	key := fmt.Sprintf("invoices/%s.html", doc.InvoiceNumber)
	ref, err := r.store.Put(ctx, key, buf.Bytes(), "text/html; charset=utf-8")
	if err != nil {
		return "", err
	}

	r.logger.Info("Rendered invoice document",
		zap.String("invoice_number", doc.InvoiceNumber),
		zap.String("document_ref", ref),
		zap.Duration("duration", time.Since(start)))

	return ref, nil
}

// DiscardInvoice removes the stored document of an invoice number that
// never made it into the database
func (r *HTMLInvoiceRenderer) DiscardInvoice(ctx context.Context, invoiceNumber string) error {
	key := fmt.Sprintf("invoices/%s.html", invoiceNumber)
	if err := r.store.Delete(ctx, key); err != nil {
		r.logger.Warn("Failed to discard invoice document",
			zap.String("invoice_number", invoiceNumber),
			zap.Error(err))
		return err
	}

	r.logger.Info("Discarded invoice document",
		zap.String("invoice_number", invoiceNumber))
	return nil
}

// templateFuncs returns the formatting helpers available to invoice
// templates
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatMoney":    formatMoney,
		"formatDate":     formatDate,
		"formatDateTime": formatDateTime,
		"statusText":     statusText,
	}
}

// formatMoney formats a decimal amount with thousand separators
// Example: 1234.5 -> "1,234.50"
func formatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	parts := strings.Split(d.StringFixed(2), ".")
	intPart := parts[0]
	decPart := "00"
	if len(parts) > 1 {
		decPart = parts[1]
	}

	var result strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(c)
	}

	return sign + result.String() + "." + decPart
}

// formatDate formats a time value as a date string
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// formatDateTime formats a time value as a datetime string
func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}

// statusText converts wire constants to display text
func statusText(value string) string {
	display := map[string]string{
		"CASH":          "Cash",
		"BANK_TRANSFER": "Bank transfer",
		"CHEQUE":        "Cheque",
		"NONE":          "None",
		"PERCENT":       "Percent",
		"FIXED":         "Fixed amount",
	}
	if text, ok := display[value]; ok {
		return text
	}
	return value
}

var _ appinvoice.DocumentRenderer = (*HTMLInvoiceRenderer)(nil)
