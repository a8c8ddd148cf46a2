package returns

import (
	"time"

	"github.com/google/uuid"
	"github.com/orderdesk/backend/internal/domain/returns"
)

// SubmitReturnLineRequest is one line of a return submission
type SubmitReturnLineRequest struct {
	OrderLineID    uuid.UUID `json:"order_line_id" binding:"required"`
	PiecesReturned int64     `json:"pieces_returned" binding:"required,gt=0"`
	Condition      string    `json:"condition" binding:"required"`
}

// SubmitReturnRequest is the request to open a return against an order
type SubmitReturnRequest struct {
	OrderID uuid.UUID                 `json:"order_id" binding:"required"`
	Reason  string                    `json:"reason" binding:"required"`
	Lines   []SubmitReturnLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ResolveReturnRequest is the request to approve or reject a return
type ResolveReturnRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approve reject"`
}

// ReturnListFilter contains filter options for listing returns
type ReturnListFilter struct {
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
	Status   *string    `form:"status"`
	OrderID  *uuid.UUID `form:"order_id"`
}

// ReturnLineResponse is the API representation of a return line
type ReturnLineResponse struct {
	ID             uuid.UUID `json:"id"`
	OrderLineID    uuid.UUID `json:"order_line_id"`
	ProductID      uuid.UUID `json:"product_id"`
	PiecesReturned int64     `json:"pieces_returned"`
	Condition      string    `json:"condition"`
}

// ReturnResponse is the API representation of a return request
type ReturnResponse struct {
	ID           uuid.UUID            `json:"id"`
	ReturnNumber string               `json:"return_number"`
	OrderID      uuid.UUID            `json:"order_id"`
	Status       string               `json:"status"`
	Reason       string               `json:"reason"`
	Lines        []ReturnLineResponse `json:"lines"`
	CreatedAt    time.Time            `json:"created_at"`
	ResolvedAt   *time.Time           `json:"resolved_at,omitempty"`
	ResolvedBy   *uuid.UUID           `json:"resolved_by,omitempty"`
}

// ToReturnLineResponse converts a domain return line to a response
func ToReturnLineResponse(l *returns.Line) ReturnLineResponse {
	return ReturnLineResponse{
		ID:             l.ID,
		OrderLineID:    l.OrderLineID,
		ProductID:      l.ProductID,
		PiecesReturned: l.PiecesReturned,
		Condition:      string(l.Condition),
	}
}

// ToReturnResponse converts a domain return request to a response
func ToReturnResponse(r *returns.ReturnRequest) ReturnResponse {
	lines := make([]ReturnLineResponse, len(r.Lines))
	for i := range r.Lines {
		lines[i] = ToReturnLineResponse(&r.Lines[i])
	}
	return ReturnResponse{
		ID:           r.ID,
		ReturnNumber: r.ReturnNumber,
		OrderID:      r.OrderID,
		Status:       string(r.Status),
		Reason:       r.Reason,
		Lines:        lines,
		CreatedAt:    r.CreatedAt,
		ResolvedAt:   r.ResolvedAt,
		ResolvedBy:   r.ResolvedBy,
	}
}
