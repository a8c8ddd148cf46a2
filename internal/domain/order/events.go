package order

import (
	"github.com/google/uuid"
	"github.com/orderdesk/backend/internal/domain/shared"
)

// Event types for the order context
const (
	EventTypeOrderCreated   = "order.created"
	EventTypeOrderConfirmed = "order.confirmed"
	EventTypeOrderDelivered = "order.delivered"
	EventTypeOrderCancelled = "order.cancelled"
)

// EventLine carries the line data needed by event consumers
type EventLine struct {
	ProductID uuid.UUID `json:"product_id"`
	SKUCode   string    `json:"sku_code"`
	Pieces    int64     `json:"pieces"`
}

func eventLines(o *Order) []EventLine {
	lines := make([]EventLine, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = EventLine{
			ProductID: l.ProductID,
			SKUCode:   l.SKUCodeSnapshot,
			Pieces:    l.ComputedPieces(),
		}
	}
	return lines
}

// OrderCreatedEvent is emitted when a draft order is created
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string    `json:"order_number"`
	CreatedBy   uuid.UUID `json:"created_by"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, "Order", o.ID),
		OrderNumber:     o.OrderNumber,
		CreatedBy:       o.CreatedByUserID,
	}
}

// OrderConfirmedEvent is emitted when an order transitions to CONFIRMED
type OrderConfirmedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string      `json:"order_number"`
	Lines       []EventLine `json:"lines"`
}

// NewOrderConfirmedEvent creates a new OrderConfirmedEvent
func NewOrderConfirmedEvent(o *Order) *OrderConfirmedEvent {
	return &OrderConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderConfirmed, "Order", o.ID),
		OrderNumber:     o.OrderNumber,
		Lines:           eventLines(o),
	}
}

// OrderDeliveredEvent is emitted when an order transitions to DELIVERED
type OrderDeliveredEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
}

// NewOrderDeliveredEvent creates a new OrderDeliveredEvent
func NewOrderDeliveredEvent(o *Order) *OrderDeliveredEvent {
	return &OrderDeliveredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderDelivered, "Order", o.ID),
		OrderNumber:     o.OrderNumber,
	}
}

// OrderCancelledEvent is emitted when an order transitions to CANCELLED
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderNumber  string      `json:"order_number"`
	WasConfirmed bool        `json:"was_confirmed"`
	Lines        []EventLine `json:"lines"`
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(o *Order, wasConfirmed bool) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, "Order", o.ID),
		OrderNumber:     o.OrderNumber,
		WasConfirmed:    wasConfirmed,
		Lines:           eventLines(o),
	}
}
