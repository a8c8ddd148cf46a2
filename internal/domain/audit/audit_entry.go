package audit

import (
	"time"

	"github.com/google/uuid"
)

// Action is the kind of mutation an audit entry records
type Action string

const (
	ActionCreate Action = "CREATE"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

// Entry is one append-only audit record. Entries are written by the
// persistence layer for every mutation of a monitored entity and are
// never updated or deleted afterwards.
type Entry struct {
	ID             uuid.UUID
	ActorID        *uuid.UUID
	Action         Action
	EntityType     string
	EntityID       string
	BeforeSnapshot []byte
	AfterSnapshot  []byte
	ActorIP        string
	CreatedAt      time.Time
}

// NewEntry creates an audit entry
func NewEntry(actorID *uuid.UUID, action Action, entityType, entityID string, before, after []byte, actorIP string) *Entry {
	return &Entry{
		ID:             uuid.New(),
		ActorID:        actorID,
		Action:         action,
		EntityType:     entityType,
		EntityID:       entityID,
		BeforeSnapshot: before,
		AfterSnapshot:  after,
		ActorIP:        actorIP,
		CreatedAt:      time.Now(),
	}
}
