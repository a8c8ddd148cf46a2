package returns

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	appinventory "github.com/orderdesk/backend/internal/application/inventory"
	"github.com/orderdesk/backend/internal/domain/inventory"
	"github.com/orderdesk/backend/internal/domain/order"
	"github.com/orderdesk/backend/internal/domain/returns"
	"github.com/orderdesk/backend/internal/domain/shared"
)

// ReturnService handles return request business operations
type ReturnService struct {
	txScope    appinventory.TransactionScope
	returnRepo returns.Repository
	orderRepo  order.Repository
}

// NewReturnService creates a new ReturnService
func NewReturnService(
	txScope appinventory.TransactionScope,
	returnRepo returns.Repository,
	orderRepo order.Repository,
) *ReturnService {
	return &ReturnService{
		txScope:    txScope,
		returnRepo: returnRepo,
		orderRepo:  orderRepo,
	}
}

// Submit opens a pending return against a confirmed or delivered order.
// Each line is capped at the pieces committed on the order line net of
// pieces already claimed by earlier pending or approved returns.
func (s *ReturnService) Submit(ctx context.Context, actor shared.Actor, req SubmitReturnRequest) (*ReturnResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if !o.IsConfirmed() && !o.IsDelivered() {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot open a return against a %s order", o.Status))
	}

	alreadyReturned, err := s.returnRepo.SumReturnedPiecesByOrderLine(ctx, o.ID)
	if err != nil {
		return nil, err
	}

	returnNumber, err := s.returnRepo.GenerateReturnNumber(ctx)
	if err != nil {
		return nil, err
	}

	request, err := returns.NewReturnRequest(returnNumber, o.ID, req.Reason)
	if err != nil {
		return nil, err
	}

	for _, line := range req.Lines {
		orderLine := o.GetLine(line.OrderLineID)
		if orderLine == nil {
			return nil, shared.NewDomainError("LINE_NOT_FOUND", "Order line not found on this order")
		}

		remaining := orderLine.ComputedPieces() - alreadyReturned[orderLine.ID]
		if line.PiecesReturned > remaining {
			return nil, shared.NewDomainError("INVALID_QUANTITY",
				fmt.Sprintf("Cannot return %d pieces: only %d remain returnable on this line", line.PiecesReturned, remaining))
		}

		if _, err := request.AddLine(orderLine.ID, orderLine.ProductID, line.PiecesReturned, returns.Condition(line.Condition)); err != nil {
			return nil, err
		}
	}

	if err := s.returnRepo.Save(ctx, request); err != nil {
		return nil, err
	}

	response := ToReturnResponse(request)
	return &response, nil
}

// Resolve approves or rejects a pending return. Approval is admin only
// and restores resellable lines in the same transaction as the status
// change; damaged and expired lines are recorded but never restored.
func (s *ReturnService) Resolve(ctx context.Context, actor shared.Actor, returnID uuid.UUID, req ResolveReturnRequest) (*ReturnResponse, error) {
	switch req.Decision {
	case "approve":
		return s.approve(ctx, actor, returnID)
	case "reject":
		return s.reject(ctx, actor, returnID)
	default:
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown decision %q", req.Decision))
	}
}

// GetByID retrieves a return request
func (s *ReturnService) GetByID(ctx context.Context, returnID uuid.UUID) (*ReturnResponse, error) {
	request, err := s.returnRepo.FindByID(ctx, returnID)
	if err != nil {
		return nil, err
	}
	response := ToReturnResponse(request)
	return &response, nil
}

// List retrieves return requests with filtering and pagination
func (s *ReturnService) List(ctx context.Context, filter ReturnListFilter) ([]ReturnResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = *filter.Status
	}
	if filter.OrderID != nil {
		domainFilter.Filters["order_id"] = *filter.OrderID
	}

	requests, err := s.returnRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.returnRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ReturnResponse, len(requests))
	for i := range requests {
		responses[i] = ToReturnResponse(&requests[i])
	}
	return responses, total, nil
}

func (s *ReturnService) approve(ctx context.Context, actor shared.Actor, returnID uuid.UUID) (*ReturnResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	var request *returns.ReturnRequest
	err := s.txScope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		request, err = repos.ReturnRepo().FindByID(ctx, returnID)
		if err != nil {
			return err
		}

		if err := request.Approve(actor.UserID); err != nil {
			return err
		}

		restorable := request.RestorableLines()
		sort.Slice(restorable, func(i, j int) bool {
			return bytes.Compare(restorable[i].ProductID[:], restorable[j].ProductID[:]) < 0
		})
		for _, line := range restorable {
			if _, err := appinventory.RestorePieces(ctx, repos, line.ProductID, line.PiecesReturned, inventory.ReasonReturnRestore, &request.ID, actor.UserID); err != nil {
				return err
			}
		}

		return repos.ReturnRepo().Save(ctx, request)
	})
	if err != nil {
		return nil, err
	}

	response := ToReturnResponse(request)
	return &response, nil
}

func (s *ReturnService) reject(ctx context.Context, actor shared.Actor, returnID uuid.UUID) (*ReturnResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	request, err := s.returnRepo.FindByID(ctx, returnID)
	if err != nil {
		return nil, err
	}

	if err := request.Reject(actor.UserID); err != nil {
		return nil, err
	}

	if err := s.returnRepo.Save(ctx, request); err != nil {
		return nil, err
	}

	response := ToReturnResponse(request)
	return &response, nil
}
