package inventory

import (
	"context"

	"github.com/orderdesk/backend/internal/domain/catalog"
	"github.com/orderdesk/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LowStockNotifier is the interface for delivering low stock alerts.
// Implementations can support different channels (in-app, email, etc.)
type LowStockNotifier interface {
	// Notify delivers a low stock alert
	Notify(ctx context.Context, event *catalog.ProductLowStockEvent) error
}

// LowStockAlertHandler handles ProductLowStock events. It always logs
// the alert; a notifier, when configured, additionally delivers it.
type LowStockAlertHandler struct {
	logger   *zap.Logger
	notifier LowStockNotifier
}

// NewLowStockAlertHandler creates a new handler for product low stock events
func NewLowStockAlertHandler(logger *zap.Logger) *LowStockAlertHandler {
	return &LowStockAlertHandler{
		logger: logger,
	}
}

// WithNotifier sets the notifier for delivering alerts
func (h *LowStockAlertHandler) WithNotifier(notifier LowStockNotifier) *LowStockAlertHandler {
	h.notifier = notifier
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *LowStockAlertHandler) EventTypes() []string {
	return []string{catalog.EventTypeProductLowStock}
}

// Handle processes a ProductLowStock event
func (h *LowStockAlertHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	lowStock, ok := event.(*catalog.ProductLowStockEvent)
	if !ok {
		return nil
	}

	h.logger.Warn("product stock at or below threshold",
		zap.String("product_id", lowStock.AggregateID().String()),
		zap.String("sku_code", lowStock.SKUCode),
		zap.String("product_name", lowStock.ProductName),
		zap.Int64("on_hand_pieces", lowStock.OnHandPieces),
		zap.Int64("threshold", lowStock.Threshold),
	)

	if h.notifier != nil {
		if err := h.notifier.Notify(ctx, lowStock); err != nil {
			h.logger.Error("failed to deliver low stock alert",
				zap.String("sku_code", lowStock.SKUCode),
				zap.Error(err),
			)
		}
	}
	return nil
}

var _ shared.EventHandler = (*LowStockAlertHandler)(nil)
