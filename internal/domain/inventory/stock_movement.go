package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/orderdesk/backend/internal/domain/shared"
)

// Reason identifies which operation moved stock
type Reason string

const (
	ReasonOrderConfirm  Reason = "ORDER_CONFIRM"
	ReasonOrderCancel   Reason = "ORDER_CANCEL"
	ReasonReturnRestore Reason = "RETURN_RESTORE"
	ReasonRestock       Reason = "RESTOCK"
	ReasonManualAdjust  Reason = "MANUAL_ADJUST"
)

// IsValid checks if the reason is known
func (r Reason) IsValid() bool {
	switch r {
	case ReasonOrderConfirm, ReasonOrderCancel, ReasonReturnRestore, ReasonRestock, ReasonManualAdjust:
		return true
	}
	return false
}

// StockMovement records one successful mutation of a product's on-hand
// count: the signed delta, the quantities before and after, which
// operation caused it and who triggered it.
type StockMovement struct {
	ID           uuid.UUID
	ProductID    uuid.UUID
	Delta        int64
	BeforePieces int64
	AfterPieces  int64
	Reason       Reason
	ReferenceID  *uuid.UUID
	ActorID      uuid.UUID
	Note         string
	CreatedAt    time.Time
}

// NewStockMovement creates a stock movement record
func NewStockMovement(productID uuid.UUID, delta, before, after int64, reason Reason, referenceID *uuid.UUID, actorID uuid.UUID, note string) (*StockMovement, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if delta == 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Movement delta cannot be zero")
	}
	if before+delta != after {
		return nil, shared.NewDomainError("INVALID_INPUT", "Movement before/after quantities do not match the delta")
	}
	if !reason.IsValid() {
		return nil, shared.NewDomainError("INVALID_REASON", "Unknown movement reason")
	}
	if actorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Actor ID cannot be empty")
	}

	return &StockMovement{
		ID:           uuid.New(),
		ProductID:    productID,
		Delta:        delta,
		BeforePieces: before,
		AfterPieces:  after,
		Reason:       reason,
		ReferenceID:  referenceID,
		ActorID:      actorID,
		Note:         note,
		CreatedAt:    time.Now(),
	}, nil
}
