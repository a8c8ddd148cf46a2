package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/orderdesk/backend/internal/domain/order"
	"github.com/shopspring/decimal"
)

// CreateOrderLineRequest is one line of a new draft order
type CreateOrderLineRequest struct {
	ProductID    uuid.UUID `json:"product_id" binding:"required"`
	CasesOrdered int64     `json:"cases_ordered" binding:"required,gt=0"`
}

// CreateOrderRequest is the request to create a draft order
type CreateOrderRequest struct {
	PaymentMethod   string                   `json:"payment_method" binding:"required"`
	ReferenceNumber string                   `json:"reference_number"`
	Lines           []CreateOrderLineRequest `json:"lines" binding:"omitempty,dive"`
}

// AddLineRequest is the request to add a line to a draft order
type AddLineRequest struct {
	ProductID    uuid.UUID `json:"product_id" binding:"required"`
	CasesOrdered int64     `json:"cases_ordered" binding:"required,gt=0"`
}

// UpdateLineRequest is the request to change a line's quantity
type UpdateLineRequest struct {
	CasesOrdered int64 `json:"cases_ordered" binding:"required,gt=0"`
}

// ApplyDiscountRequest is the request to set the order-level discount
type ApplyDiscountRequest struct {
	Kind   string          `json:"kind" binding:"required"`
	Amount decimal.Decimal `json:"amount"`
}

// SetPaymentMethodRequest is the request to change the payment method
type SetPaymentMethodRequest struct {
	PaymentMethod   string `json:"payment_method" binding:"required"`
	ReferenceNumber string `json:"reference_number"`
}

// OrderListFilter contains filter options for listing orders
type OrderListFilter struct {
	Page      int        `form:"page"`
	PageSize  int        `form:"page_size"`
	Status    *string    `form:"status"`
	CreatedBy *uuid.UUID `form:"created_by"`
	Search    string     `form:"search"`
}

// OrderLineResponse is the API representation of an order line
type OrderLineResponse struct {
	ID             uuid.UUID       `json:"id"`
	ProductID      uuid.UUID       `json:"product_id"`
	SKUCode        string          `json:"sku_code"`
	CasesOrdered   int64           `json:"cases_ordered"`
	PiecesPerCase  int64           `json:"pieces_per_case"`
	ComputedPieces int64           `json:"computed_pieces"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	LineTotal      decimal.Decimal `json:"line_total"`
}

// OrderResponse is the API representation of an order
type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	OrderNumber     string              `json:"order_number"`
	CreatedBy       uuid.UUID           `json:"created_by"`
	Status          string              `json:"status"`
	Lines           []OrderLineResponse `json:"lines"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	DiscountKind    string              `json:"discount_kind"`
	DiscountAmount  decimal.Decimal     `json:"discount_amount"`
	PaymentMethod   string              `json:"payment_method"`
	ReferenceNumber string              `json:"reference_number,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	ConfirmedAt     *time.Time          `json:"confirmed_at,omitempty"`
	DeliveredAt     *time.Time          `json:"delivered_at,omitempty"`
	CancelledAt     *time.Time          `json:"cancelled_at,omitempty"`
}

// OrderListItemResponse is the compact representation used in lists
type OrderListItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	OrderNumber string          `json:"order_number"`
	CreatedBy   uuid.UUID       `json:"created_by"`
	Status      string          `json:"status"`
	LineCount   int             `json:"line_count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToOrderLineResponse converts a domain line to a response
func ToOrderLineResponse(l *order.Line) OrderLineResponse {
	return OrderLineResponse{
		ID:             l.ID,
		ProductID:      l.ProductID,
		SKUCode:        l.SKUCodeSnapshot,
		CasesOrdered:   l.CasesOrdered,
		PiecesPerCase:  l.PiecesPerCaseSnapshot,
		ComputedPieces: l.ComputedPieces(),
		UnitPrice:      l.UnitPriceSnapshot,
		LineTotal:      l.LineTotal(),
	}
}

// ToOrderResponse converts a domain order to a response
func ToOrderResponse(o *order.Order) OrderResponse {
	lines := make([]OrderLineResponse, len(o.Lines))
	for i := range o.Lines {
		lines[i] = ToOrderLineResponse(&o.Lines[i])
	}
	return OrderResponse{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		CreatedBy:       o.CreatedByUserID,
		Status:          string(o.Status),
		Lines:           lines,
		TotalAmount:     o.TotalAmount,
		DiscountKind:    string(o.DiscountKind),
		DiscountAmount:  o.DiscountAmount,
		PaymentMethod:   string(o.PaymentMethod),
		ReferenceNumber: o.ReferenceNumber,
		CreatedAt:       o.CreatedAt,
		ConfirmedAt:     o.ConfirmedAt,
		DeliveredAt:     o.DeliveredAt,
		CancelledAt:     o.CancelledAt,
	}
}

// ToOrderListItemResponse converts a domain order to a list item
func ToOrderListItemResponse(o *order.Order) OrderListItemResponse {
	return OrderListItemResponse{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		CreatedBy:   o.CreatedByUserID,
		Status:      string(o.Status),
		LineCount:   len(o.Lines),
		TotalAmount: o.TotalAmount,
		CreatedAt:   o.CreatedAt,
	}
}
