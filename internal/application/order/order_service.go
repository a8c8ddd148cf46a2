package order

import (
	"bytes"
	"context"
	"sort"

	"github.com/google/uuid"
	appinventory "github.com/orderdesk/backend/internal/application/inventory"
	"github.com/orderdesk/backend/internal/domain/catalog"
	"github.com/orderdesk/backend/internal/domain/inventory"
	"github.com/orderdesk/backend/internal/domain/order"
	"github.com/orderdesk/backend/internal/domain/shared"
)

// OrderService handles order business operations. Stock-affecting
// transitions (confirm, cancel-of-confirmed) run inside a transaction
// scope so the state change and the stock change are atomic.
type OrderService struct {
	txScope        appinventory.TransactionScope
	orderRepo      order.Repository
	productRepo    catalog.ProductRepository
	eventPublisher shared.EventPublisher
}

// NewOrderService creates a new OrderService
func NewOrderService(
	txScope appinventory.TransactionScope,
	orderRepo order.Repository,
	productRepo catalog.ProductRepository,
) *OrderService {
	return &OrderService{
		txScope:     txScope,
		orderRepo:   orderRepo,
		productRepo: productRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new draft order
func (s *OrderService) Create(ctx context.Context, actor shared.Actor, req CreateOrderRequest) (*OrderResponse, error) {
	orderNumber, err := s.orderRepo.GenerateOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	draft, err := order.NewOrder(orderNumber, actor.UserID, order.PaymentMethod(req.PaymentMethod), req.ReferenceNumber)
	if err != nil {
		return nil, err
	}

	for _, line := range req.Lines {
		if err := s.addLineFromProduct(ctx, draft, line.ProductID, line.CasesOrdered); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.Save(ctx, draft); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, &draft.BaseAggregateRoot)

	response := ToOrderResponse(draft)
	return &response, nil
}

// GetByID retrieves an order. Foreign drafts are hidden from staff: a
// draft belongs to its creator until it is confirmed.
func (s *OrderService) GetByID(ctx context.Context, actor shared.Actor, orderID uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.IsDraft() && !actor.IsAdmin() && !o.IsOwnedBy(actor.UserID) {
		return nil, shared.ErrNotFound
	}
	response := ToOrderResponse(o)
	return &response, nil
}

// List retrieves orders with filtering and pagination. For staff the
// result excludes drafts created by other users.
func (s *OrderService) List(ctx context.Context, actor shared.Actor, filter OrderListFilter) ([]OrderListItemResponse, int64, error) {
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
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = *filter.Status
	}
	if filter.CreatedBy != nil {
		domainFilter.Filters["created_by"] = *filter.CreatedBy
	}
	if !actor.IsAdmin() {
		domainFilter.Filters["draft_visible_to"] = actor.UserID
	}

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]OrderListItemResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderListItemResponse(&orders[i])
	}
	return responses, total, nil
}

// AddLine adds a line to a draft order
func (s *OrderService) AddLine(ctx context.Context, actor shared.Actor, orderID uuid.UUID, req AddLineRequest) (*OrderResponse, error) {
	o, err := s.loadForMutation(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}

	if err := s.addLineFromProduct(ctx, o, req.ProductID, req.CasesOrdered); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}

	response := ToOrderResponse(o)
	return &response, nil
}

// UpdateLineQuantity changes the quantity of a draft order line
func (s *OrderService) UpdateLineQuantity(ctx context.Context, actor shared.Actor, orderID, lineID uuid.UUID, req UpdateLineRequest) (*OrderResponse, error) {
	o, err := s.loadForMutation(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}

	if err := o.UpdateLineQuantity(lineID, req.CasesOrdered); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}

	response := ToOrderResponse(o)
	return &response, nil
}

// RemoveLine removes a line from a draft order
func (s *OrderService) RemoveLine(ctx context.Context, actor shared.Actor, orderID, lineID uuid.UUID) (*OrderResponse, error) {
	o, err := s.loadForMutation(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}

	if err := o.RemoveLine(lineID); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}

	response := ToOrderResponse(o)
	return &response, nil
}

// ApplyDiscount sets the order-level discount of a draft order
func (s *OrderService) ApplyDiscount(ctx context.Context, actor shared.Actor, orderID uuid.UUID, req ApplyDiscountRequest) (*OrderResponse, error) {
	o, err := s.loadForMutation(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}

	if err := o.ApplyDiscount(order.DiscountKind(req.Kind), req.Amount); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}

	response := ToOrderResponse(o)
	return &response, nil
}

// SetPaymentMethod changes the payment method of a draft order
func (s *OrderService) SetPaymentMethod(ctx context.Context, actor shared.Actor, orderID uuid.UUID, req SetPaymentMethodRequest) (*OrderResponse, error) {
	o, err := s.loadForMutation(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}

	if err := o.SetPaymentMethod(order.PaymentMethod(req.PaymentMethod), req.ReferenceNumber); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}

	response := ToOrderResponse(o)
	return &response, nil
}

// DeleteDraft deletes a draft order outright
func (s *OrderService) DeleteDraft(ctx context.Context, actor shared.Actor, orderID uuid.UUID) error {
	if _, err := s.loadForMutation(ctx, actor, orderID); err != nil {
		return err
	}
	return s.orderRepo.DeleteDraft(ctx, orderID)
}

// Confirm transitions a draft order to CONFIRMED, deducting stock for
// every line in the same transaction. Product rows are locked in
// ascending product ID order so concurrent confirms cannot deadlock.
func (s *OrderService) Confirm(ctx context.Context, actor shared.Actor, orderID uuid.UUID) (*OrderResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	var (
		o        *order.Order
		products []*catalog.Product
	)
	err := s.txScope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		o, err = repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		if err := o.Confirm(); err != nil {
			return err
		}

		for _, line := range sortedByProductID(o.Lines) {
			product, err := appinventory.DeductPieces(ctx, repos, line.ProductID, line.ComputedPieces(), inventory.ReasonOrderConfirm, &o.ID, actor.UserID)
			if err != nil {
				return err
			}
			products = append(products, product)
		}

		return repos.OrderRepo().SaveWithLock(ctx, o)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, &o.BaseAggregateRoot)
	for _, product := range products {
		s.publishEvents(ctx, &product.BaseAggregateRoot)
	}

	response := ToOrderResponse(o)
	return &response, nil
}

// Deliver marks a confirmed order as delivered
func (s *OrderService) Deliver(ctx context.Context, actor shared.Actor, orderID uuid.UUID) (*OrderResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := o.Deliver(); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, &o.BaseAggregateRoot)

	response := ToOrderResponse(o)
	return &response, nil
}

// Cancel cancels a draft or confirmed order. Cancelling a confirmed
// order restores the committed pieces under the same locking discipline
// as confirmation, in the same transaction as the status flip.
func (s *OrderService) Cancel(ctx context.Context, actor shared.Actor, orderID uuid.UUID) (*OrderResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	var o *order.Order
	err := s.txScope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		o, err = repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		wasConfirmed := o.IsConfirmed()
		if err := o.Cancel(); err != nil {
			return err
		}

		if wasConfirmed {
			for _, line := range sortedByProductID(o.Lines) {
				if _, err := appinventory.RestorePieces(ctx, repos, line.ProductID, line.ComputedPieces(), inventory.ReasonOrderCancel, &o.ID, actor.UserID); err != nil {
					return err
				}
			}
		}

		return repos.OrderRepo().SaveWithLock(ctx, o)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, &o.BaseAggregateRoot)

	response := ToOrderResponse(o)
	return &response, nil
}

// loadForMutation loads an order for a draft mutation, enforcing the
// owner-or-admin rule. Foreign drafts stay hidden from staff.
func (s *OrderService) loadForMutation(ctx context.Context, actor shared.Actor, orderID uuid.UUID) (*order.Order, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.IsDraft() && !actor.IsAdmin() && !o.IsOwnedBy(actor.UserID) {
		return nil, shared.ErrNotFound
	}
	if !o.CanModify() {
		return nil, shared.NewDomainError("INVALID_STATE", "Order can no longer be edited directly")
	}
	return o, nil
}

// addLineFromProduct snapshots the live product onto a new order line
func (s *OrderService) addLineFromProduct(ctx context.Context, o *order.Order, productID uuid.UUID, casesOrdered int64) error {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if !product.Active {
		return shared.NewDomainError("INVALID_INPUT", "Product is no longer available for ordering")
	}
	_, err = o.AddLine(product.ID, product.SKUCode, casesOrdered, product.PiecesPerCase, product.PricePerPiece)
	return err
}

// publishEvents publishes and clears pending domain events
func (s *OrderService) publishEvents(ctx context.Context, root *shared.BaseAggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	events := root.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	root.ClearDomainEvents()
}

// sortedByProductID returns the lines ordered by ascending product ID.
// Every stock-mutating path locks product rows in this order.
func sortedByProductID(lines []order.Line) []order.Line {
	sorted := make([]order.Line, len(lines))
	copy(sorted, lines)
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i].ProductID[:], sorted[j].ProductID[:]) < 0
	})
	return sorted
}
