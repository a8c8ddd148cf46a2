package returns

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/orderdesk/backend/internal/domain/shared"
)

// Status represents the lifecycle state of a return request
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Condition represents the physical condition of returned pieces
type Condition string

const (
	ConditionResellable Condition = "RESELLABLE"
	ConditionDamaged    Condition = "DAMAGED"
	ConditionExpired    Condition = "EXPIRED"
)

// IsValid checks if the condition is known
func (c Condition) IsValid() bool {
	switch c {
	case ConditionResellable, ConditionDamaged, ConditionExpired:
		return true
	}
	return false
}

// Restorable reports whether pieces in this condition go back on hand
func (c Condition) Restorable() bool {
	return c == ConditionResellable
}

// Line represents a single returned order line
type Line struct {
	ID             uuid.UUID
	ReturnID       uuid.UUID
	OrderLineID    uuid.UUID
	ProductID      uuid.UUID
	PiecesReturned int64
	Condition      Condition
	CreatedAt      time.Time
}

// NewLine creates a return line
func NewLine(returnID, orderLineID, productID uuid.UUID, piecesReturned int64, condition Condition) (*Line, error) {
	if orderLineID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER_LINE", "Order line ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if piecesReturned <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Pieces returned must be positive")
	}
	if !condition.IsValid() {
		return nil, shared.NewDomainError("INVALID_CONDITION", fmt.Sprintf("Unknown condition %q", condition))
	}

	return &Line{
		ID:             uuid.New(),
		ReturnID:       returnID,
		OrderLineID:    orderLineID,
		ProductID:      productID,
		PiecesReturned: piecesReturned,
		Condition:      condition,
		CreatedAt:      time.Now(),
	}, nil
}

// ReturnRequest represents a customer return aggregate root
type ReturnRequest struct {
	shared.BaseAggregateRoot
	ReturnNumber string
	OrderID      uuid.UUID
	Status       Status
	Reason       string
	Lines        []Line
	ResolvedAt   *time.Time
	ResolvedBy   *uuid.UUID
}

// NewReturnRequest creates a pending return request against an order
func NewReturnRequest(returnNumber string, orderID uuid.UUID, reason string) (*ReturnRequest, error) {
	if returnNumber == "" {
		return nil, shared.NewDomainError("INVALID_RETURN_NUMBER", "Return number cannot be empty")
	}
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if reason == "" {
		return nil, shared.NewDomainError("INVALID_REASON", "Return reason is required")
	}

	return &ReturnRequest{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ReturnNumber:      returnNumber,
		OrderID:           orderID,
		Status:            StatusPending,
		Reason:            reason,
		Lines:             make([]Line, 0),
	}, nil
}

// AddLine adds a line to a pending return request
func (r *ReturnRequest) AddLine(orderLineID, productID uuid.UUID, piecesReturned int64, condition Condition) (*Line, error) {
	if r.Status != StatusPending {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add lines to a resolved return")
	}

	for _, line := range r.Lines {
		if line.OrderLineID == orderLineID {
			return nil, shared.NewDomainError("DUPLICATE_LINE", "Order line already present in return request")
		}
	}

	line, err := NewLine(r.ID, orderLineID, productID, piecesReturned, condition)
	if err != nil {
		return nil, err
	}

	r.Lines = append(r.Lines, *line)
	r.UpdatedAt = time.Now()

	return line, nil
}

// Approve resolves a pending request in favour of the customer.
// Stock restoration for resellable lines happens in the application
// service inside the same transaction.
func (r *ReturnRequest) Approve(resolvedBy uuid.UUID) error {
	if r.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve return in %s status", r.Status))
	}
	if len(r.Lines) == 0 {
		return shared.NewDomainError("NO_LINES", "Cannot approve return without lines")
	}

	now := time.Now()
	r.Status = StatusApproved
	r.ResolvedAt = &now
	r.ResolvedBy = &resolvedBy
	r.UpdatedAt = now

	return nil
}

// Reject resolves a pending request with no stock effect
func (r *ReturnRequest) Reject(resolvedBy uuid.UUID) error {
	if r.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reject return in %s status", r.Status))
	}

	now := time.Now()
	r.Status = StatusRejected
	r.ResolvedAt = &now
	r.ResolvedBy = &resolvedBy
	r.UpdatedAt = now

	return nil
}

// RestorableLines returns the lines whose pieces go back on hand on approval
func (r *ReturnRequest) RestorableLines() []Line {
	lines := make([]Line, 0, len(r.Lines))
	for _, line := range r.Lines {
		if line.Condition.Restorable() {
			lines = append(lines, line)
		}
	}
	return lines
}
