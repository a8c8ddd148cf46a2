package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/orderdesk/backend/internal/domain/catalog"
	"github.com/orderdesk/backend/internal/domain/inventory"
	"github.com/orderdesk/backend/internal/domain/shared"
)

// StockLedgerService owns every mutation of product on-hand counts.
// Each mutation happens inside a transaction, under an exclusive row
// lock on the product, and leaves a stock movement record behind.
type StockLedgerService struct {
	txScope        TransactionScope
	productRepo    catalog.ProductRepository
	movementRepo   inventory.StockMovementRepository
	eventPublisher shared.EventPublisher
}

// NewStockLedgerService creates a new StockLedgerService
func NewStockLedgerService(
	txScope TransactionScope,
	productRepo catalog.ProductRepository,
	movementRepo inventory.StockMovementRepository,
) *StockLedgerService {
	return &StockLedgerService{
		txScope:      txScope,
		productRepo:  productRepo,
		movementRepo: movementRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *StockLedgerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// DeductPieces removes pieces from a product inside the caller's
// transaction: it locks the product row, applies the deduction and
// appends the movement record. Order confirmation calls this once per
// line, with the rows locked in ascending product ID order.
func DeductPieces(ctx context.Context, repos TransactionalRepositories, productID uuid.UUID, pieces int64, reason inventory.Reason, referenceID *uuid.UUID, actorID uuid.UUID) (*catalog.Product, error) {
	product, err := repos.ProductRepo().FindByIDForUpdate(ctx, productID)
	if err != nil {
		return nil, err
	}

	before := product.OnHandPieces
	if err := product.Deduct(pieces); err != nil {
		return nil, err
	}
	if err := repos.ProductRepo().Save(ctx, product); err != nil {
		return nil, err
	}

	movement, err := inventory.NewStockMovement(productID, -pieces, before, product.OnHandPieces, reason, referenceID, actorID, "")
	if err != nil {
		return nil, err
	}
	if err := repos.MovementRepo().Append(ctx, movement); err != nil {
		return nil, err
	}

	return product, nil
}

// RestorePieces adds previously deducted pieces back inside the caller's
// transaction. Used by order cancellation and return approval.
func RestorePieces(ctx context.Context, repos TransactionalRepositories, productID uuid.UUID, pieces int64, reason inventory.Reason, referenceID *uuid.UUID, actorID uuid.UUID) (*catalog.Product, error) {
	product, err := repos.ProductRepo().FindByIDForUpdate(ctx, productID)
	if err != nil {
		return nil, err
	}

	before := product.OnHandPieces
	if err := product.Restore(pieces); err != nil {
		return nil, err
	}
	if err := repos.ProductRepo().Save(ctx, product); err != nil {
		return nil, err
	}

	movement, err := inventory.NewStockMovement(productID, pieces, before, product.OnHandPieces, reason, referenceID, actorID, "")
	if err != nil {
		return nil, err
	}
	if err := repos.MovementRepo().Append(ctx, movement); err != nil {
		return nil, err
	}

	return product, nil
}

// ManualAdjust applies a signed correction to a product's on-hand count.
// Admin only: staff cannot rewrite stock outside the order flow.
func (s *StockLedgerService) ManualAdjust(ctx context.Context, actor shared.Actor, productID uuid.UUID, req AdjustStockRequest) (*StockMovementResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}
	if req.Note == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Manual adjustments require a note")
	}

	var (
		product  *catalog.Product
		movement *inventory.StockMovement
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		product, err = repos.ProductRepo().FindByIDForUpdate(ctx, productID)
		if err != nil {
			return err
		}

		before := product.OnHandPieces
		if err := product.AdjustBy(req.Delta); err != nil {
			return err
		}
		if err := repos.ProductRepo().Save(ctx, product); err != nil {
			return err
		}

		movement, err = inventory.NewStockMovement(productID, req.Delta, before, product.OnHandPieces, inventory.ReasonManualAdjust, nil, actor.UserID, req.Note)
		if err != nil {
			return err
		}
		return repos.MovementRepo().Append(ctx, movement)
	})
	if err != nil {
		return nil, err
	}

	s.publishProductEvents(ctx, product)

	response := ToStockMovementResponse(movement)
	return &response, nil
}

// Restock records newly received stock for a product. Admin only.
func (s *StockLedgerService) Restock(ctx context.Context, actor shared.Actor, productID uuid.UUID, req RestockRequest) (*StockMovementResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}
	if req.Pieces <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Pieces to restock must be positive")
	}

	var movement *inventory.StockMovement
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		product, err := repos.ProductRepo().FindByIDForUpdate(ctx, productID)
		if err != nil {
			return err
		}

		before := product.OnHandPieces
		if err := product.Restock(req.Pieces); err != nil {
			return err
		}
		if err := repos.ProductRepo().Save(ctx, product); err != nil {
			return err
		}

		movement, err = inventory.NewStockMovement(productID, req.Pieces, before, product.OnHandPieces, inventory.ReasonRestock, nil, actor.UserID, req.Note)
		if err != nil {
			return err
		}
		return repos.MovementRepo().Append(ctx, movement)
	})
	if err != nil {
		return nil, err
	}

	response := ToStockMovementResponse(movement)
	return &response, nil
}

// GetStockLevel returns the current stock level of a product
func (s *StockLedgerService) GetStockLevel(ctx context.Context, productID uuid.UUID) (*StockLevelResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	response := ToStockLevelResponse(product)
	return &response, nil
}

// ListLowStock returns all active products at or below their threshold
func (s *StockLedgerService) ListLowStock(ctx context.Context) ([]StockLevelResponse, error) {
	filter := shared.DefaultFilter()
	filter.PageSize = 500
	filter.Filters["low_stock"] = true
	filter.Filters["active"] = true

	products, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]StockLevelResponse, len(products))
	for i := range products {
		responses[i] = ToStockLevelResponse(&products[i])
	}
	return responses, nil
}

// ListMovements returns the movement history of a product, newest first
func (s *StockLedgerService) ListMovements(ctx context.Context, productID uuid.UUID, filter MovementListFilter) ([]StockMovementResponse, int64, error) {
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
		Filters:  map[string]interface{}{"product_id": productID},
	}
	if filter.Reason != nil {
		domainFilter.Filters["reason"] = *filter.Reason
	}

	movements, err := s.movementRepo.FindByProduct(ctx, productID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.movementRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]StockMovementResponse, len(movements))
	for i := range movements {
		responses[i] = ToStockMovementResponse(&movements[i])
	}
	return responses, total, nil
}

// publishProductEvents publishes pending domain events from a product
func (s *StockLedgerService) publishProductEvents(ctx context.Context, product *catalog.Product) {
	if s.eventPublisher == nil || product == nil {
		return
	}
	events := product.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	product.ClearDomainEvents()
}
