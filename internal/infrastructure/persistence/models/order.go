package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/orderdesk/backend/internal/domain/order"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order aggregate root.
type OrderModel struct {
	AggregateModel
	OrderNumber     string               `gorm:"type:varchar(50);not null;uniqueIndex:idx_order_number"`
	CreatedByUserID uuid.UUID            `gorm:"type:uuid;not null;index"`
	Status          order.Status         `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	Lines           []OrderLineModel     `gorm:"foreignKey:OrderID;references:ID"`
	TotalAmount     decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountKind    order.DiscountKind   `gorm:"type:varchar(20);not null;default:'NONE'"`
	DiscountAmount  decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	PaymentMethod   order.PaymentMethod  `gorm:"type:varchar(20);not null"`
	ReferenceNumber string               `gorm:"type:varchar(100)"`
	ConfirmedAt     *time.Time           `gorm:"index"`
	DeliveredAt     *time.Time
	CancelledAt     *time.Time
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order entity.
func (m *OrderModel) ToDomain() *order.Order {
	o := &order.Order{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		OrderNumber:       m.OrderNumber,
		CreatedByUserID:   m.CreatedByUserID,
		Status:            m.Status,
		TotalAmount:       m.TotalAmount,
		DiscountKind:      m.DiscountKind,
		DiscountAmount:    m.DiscountAmount,
		PaymentMethod:     m.PaymentMethod,
		ReferenceNumber:   m.ReferenceNumber,
		ConfirmedAt:       m.ConfirmedAt,
		DeliveredAt:       m.DeliveredAt,
		CancelledAt:       m.CancelledAt,
		Lines:             make([]order.Line, len(m.Lines)),
	}
	for i, line := range m.Lines {
		o.Lines[i] = *line.ToDomain()
	}
	return o
}

// FromDomain populates the persistence model from a domain Order entity.
func (m *OrderModel) FromDomain(o *order.Order) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.OrderNumber = o.OrderNumber
	m.CreatedByUserID = o.CreatedByUserID
	m.Status = o.Status
	m.TotalAmount = o.TotalAmount
	m.DiscountKind = o.DiscountKind
	m.DiscountAmount = o.DiscountAmount
	m.PaymentMethod = o.PaymentMethod
	m.ReferenceNumber = o.ReferenceNumber
	m.ConfirmedAt = o.ConfirmedAt
	m.DeliveredAt = o.DeliveredAt
	m.CancelledAt = o.CancelledAt
	m.Lines = make([]OrderLineModel, len(o.Lines))
	for i, line := range o.Lines {
		m.Lines[i] = *OrderLineModelFromDomain(&line)
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order entity.
func OrderModelFromDomain(o *order.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderLineModel is the persistence model for the order Line entity.
type OrderLineModel struct {
	ID                    uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID               uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID             uuid.UUID       `gorm:"type:uuid;not null;index"`
	SKUCodeSnapshot       string          `gorm:"type:varchar(50);not null"`
	CasesOrdered          int64           `gorm:"not null"`
	PiecesPerCaseSnapshot int64           `gorm:"not null"`
	UnitPriceSnapshot     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt             time.Time       `gorm:"not null"`
	UpdatedAt             time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderLineModel) TableName() string {
	return "order_lines"
}

// ToDomain converts the persistence model to a domain Line entity.
func (m *OrderLineModel) ToDomain() *order.Line {
	return &order.Line{
		ID:                    m.ID,
		OrderID:               m.OrderID,
		ProductID:             m.ProductID,
		SKUCodeSnapshot:       m.SKUCodeSnapshot,
		CasesOrdered:          m.CasesOrdered,
		PiecesPerCaseSnapshot: m.PiecesPerCaseSnapshot,
		UnitPriceSnapshot:     m.UnitPriceSnapshot,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Line entity.
func (m *OrderLineModel) FromDomain(l *order.Line) {
	m.ID = l.ID
	m.OrderID = l.OrderID
	m.ProductID = l.ProductID
	m.SKUCodeSnapshot = l.SKUCodeSnapshot
	m.CasesOrdered = l.CasesOrdered
	m.PiecesPerCaseSnapshot = l.PiecesPerCaseSnapshot
	m.UnitPriceSnapshot = l.UnitPriceSnapshot
	m.CreatedAt = l.CreatedAt
	m.UpdatedAt = l.UpdatedAt
}

// OrderLineModelFromDomain creates a new persistence model from a domain Line entity.
func OrderLineModelFromDomain(l *order.Line) *OrderLineModel {
	m := &OrderLineModel{}
	m.FromDomain(l)
	return m
}
