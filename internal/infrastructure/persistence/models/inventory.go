package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/orderdesk/backend/internal/domain/inventory"
)

// StockMovementModel is the persistence model for the StockMovement record.
type StockMovementModel struct {
	ID           uuid.UUID        `gorm:"type:uuid;primary_key"`
	ProductID    uuid.UUID        `gorm:"type:uuid;not null;index"`
	Delta        int64            `gorm:"not null"`
	BeforePieces int64            `gorm:"not null"`
	AfterPieces  int64            `gorm:"not null"`
	Reason       inventory.Reason `gorm:"type:varchar(30);not null;index"`
	ReferenceID  *uuid.UUID       `gorm:"type:uuid;index"`
	ActorID      uuid.UUID        `gorm:"type:uuid;not null"`
	Note         string           `gorm:"type:varchar(500)"`
	CreatedAt    time.Time        `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (StockMovementModel) TableName() string {
	return "stock_movements"
}

// ToDomain converts the persistence model to a domain StockMovement entity.
func (m *StockMovementModel) ToDomain() *inventory.StockMovement {
	return &inventory.StockMovement{
		ID:           m.ID,
		ProductID:    m.ProductID,
		Delta:        m.Delta,
		BeforePieces: m.BeforePieces,
		AfterPieces:  m.AfterPieces,
		Reason:       m.Reason,
		ReferenceID:  m.ReferenceID,
		ActorID:      m.ActorID,
		Note:         m.Note,
		CreatedAt:    m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain StockMovement entity.
func (m *StockMovementModel) FromDomain(sm *inventory.StockMovement) {
	m.ID = sm.ID
	m.ProductID = sm.ProductID
	m.Delta = sm.Delta
	m.BeforePieces = sm.BeforePieces
	m.AfterPieces = sm.AfterPieces
	m.Reason = sm.Reason
	m.ReferenceID = sm.ReferenceID
	m.ActorID = sm.ActorID
	m.Note = sm.Note
	m.CreatedAt = sm.CreatedAt
}

// StockMovementModelFromDomain creates a new persistence model from a domain StockMovement entity.
func StockMovementModelFromDomain(sm *inventory.StockMovement) *StockMovementModel {
	m := &StockMovementModel{}
	m.FromDomain(sm)
	return m
}
