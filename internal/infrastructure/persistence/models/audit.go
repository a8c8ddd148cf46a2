package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/orderdesk/backend/internal/domain/audit"
)

// AuditEntryModel is the persistence model for the append-only audit Entry.
type AuditEntryModel struct {
	ID             uuid.UUID    `gorm:"type:uuid;primary_key"`
	ActorID        *uuid.UUID   `gorm:"type:uuid;index"`
	Action         audit.Action `gorm:"type:varchar(10);not null"`
	EntityType     string       `gorm:"type:varchar(50);not null;index:idx_audit_entity"`
	EntityID       string       `gorm:"type:varchar(100);not null;index:idx_audit_entity"`
	BeforeSnapshot []byte       `gorm:"type:jsonb"`
	AfterSnapshot  []byte       `gorm:"type:jsonb"`
	ActorIP        string       `gorm:"type:varchar(45)"`
	CreatedAt      time.Time    `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (AuditEntryModel) TableName() string {
	return "audit_entries"
}

// ToDomain converts the persistence model to a domain Entry.
func (m *AuditEntryModel) ToDomain() *audit.Entry {
	return &audit.Entry{
		ID:             m.ID,
		ActorID:        m.ActorID,
		Action:         m.Action,
		EntityType:     m.EntityType,
		EntityID:       m.EntityID,
		BeforeSnapshot: m.BeforeSnapshot,
		AfterSnapshot:  m.AfterSnapshot,
		ActorIP:        m.ActorIP,
		CreatedAt:      m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain Entry.
func (m *AuditEntryModel) FromDomain(e *audit.Entry) {
	m.ID = e.ID
	m.ActorID = e.ActorID
	m.Action = e.Action
	m.EntityType = e.EntityType
	m.EntityID = e.EntityID
	m.BeforeSnapshot = e.BeforeSnapshot
	m.AfterSnapshot = e.AfterSnapshot
	m.ActorIP = e.ActorIP
	m.CreatedAt = e.CreatedAt
}

// AuditEntryModelFromDomain creates a new persistence model from a domain Entry.
func AuditEntryModelFromDomain(e *audit.Entry) *AuditEntryModel {
	m := &AuditEntryModel{}
	m.FromDomain(e)
	return m
}
