package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/orderdesk/backend/internal/domain/returns"
)

// ReturnRequestModel is the persistence model for the ReturnRequest aggregate root.
type ReturnRequestModel struct {
	AggregateModel
	ReturnNumber string            `gorm:"type:varchar(50);not null;uniqueIndex:idx_return_number"`
	OrderID      uuid.UUID         `gorm:"type:uuid;not null;index"`
	Status       returns.Status    `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	Reason       string            `gorm:"type:text;not null"`
	Lines        []ReturnLineModel `gorm:"foreignKey:ReturnID;references:ID"`
	ResolvedAt   *time.Time
	ResolvedBy   *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (ReturnRequestModel) TableName() string {
	return "return_requests"
}

// ToDomain converts the persistence model to a domain ReturnRequest entity.
func (m *ReturnRequestModel) ToDomain() *returns.ReturnRequest {
	r := &returns.ReturnRequest{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		ReturnNumber:      m.ReturnNumber,
		OrderID:           m.OrderID,
		Status:            m.Status,
		Reason:            m.Reason,
		ResolvedAt:        m.ResolvedAt,
		ResolvedBy:        m.ResolvedBy,
		Lines:             make([]returns.Line, len(m.Lines)),
	}
	for i, line := range m.Lines {
		r.Lines[i] = *line.ToDomain()
	}
	return r
}

// FromDomain populates the persistence model from a domain ReturnRequest entity.
func (m *ReturnRequestModel) FromDomain(r *returns.ReturnRequest) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.ReturnNumber = r.ReturnNumber
	m.OrderID = r.OrderID
	m.Status = r.Status
	m.Reason = r.Reason
	m.ResolvedAt = r.ResolvedAt
	m.ResolvedBy = r.ResolvedBy
	m.Lines = make([]ReturnLineModel, len(r.Lines))
	for i, line := range r.Lines {
		m.Lines[i] = *ReturnLineModelFromDomain(&line)
	}
}

// ReturnRequestModelFromDomain creates a new persistence model from a domain ReturnRequest entity.
func ReturnRequestModelFromDomain(r *returns.ReturnRequest) *ReturnRequestModel {
	m := &ReturnRequestModel{}
	m.FromDomain(r)
	return m
}

// ReturnLineModel is the persistence model for the return Line entity.
type ReturnLineModel struct {
	ID             uuid.UUID         `gorm:"type:uuid;primary_key"`
	ReturnID       uuid.UUID         `gorm:"type:uuid;not null;index"`
	OrderLineID    uuid.UUID         `gorm:"type:uuid;not null;index"`
	ProductID      uuid.UUID         `gorm:"type:uuid;not null"`
	PiecesReturned int64             `gorm:"not null"`
	Condition      returns.Condition `gorm:"type:varchar(20);not null"`
	CreatedAt      time.Time         `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ReturnLineModel) TableName() string {
	return "return_lines"
}

// ToDomain converts the persistence model to a domain Line entity.
func (m *ReturnLineModel) ToDomain() *returns.Line {
	return &returns.Line{
		ID:             m.ID,
		ReturnID:       m.ReturnID,
		OrderLineID:    m.OrderLineID,
		ProductID:      m.ProductID,
		PiecesReturned: m.PiecesReturned,
		Condition:      m.Condition,
		CreatedAt:      m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain Line entity.
func (m *ReturnLineModel) FromDomain(l *returns.Line) {
	m.ID = l.ID
	m.ReturnID = l.ReturnID
	m.OrderLineID = l.OrderLineID
	m.ProductID = l.ProductID
	m.PiecesReturned = l.PiecesReturned
	m.Condition = l.Condition
	m.CreatedAt = l.CreatedAt
}

// ReturnLineModelFromDomain creates a new persistence model from a domain Line entity.
func ReturnLineModelFromDomain(l *returns.Line) *ReturnLineModel {
	m := &ReturnLineModel{}
	m.FromDomain(l)
	return m
}
