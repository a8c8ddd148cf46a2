package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/orderdesk/backend/internal/domain/catalog"
	"github.com/orderdesk/backend/internal/domain/inventory"
	"github.com/orderdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySKU(ctx context.Context, skuCode string) (*catalog.Product, error) {
	args := m.Called(ctx, skuCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) IsReferencedByOrders(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockMovementRepository is a mock implementation of inventory.StockMovementRepository
type MockMovementRepository struct {
	mock.Mock
}

func (m *MockMovementRepository) Append(ctx context.Context, movement *inventory.StockMovement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

func (m *MockMovementRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]inventory.StockMovement, error) {
	args := m.Called(ctx, productID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.StockMovement), args.Error(1)
}

func (m *MockMovementRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// Test helpers
func newTestProduct(t *testing.T, pieces int64) *catalog.Product {
	product, err := catalog.NewProduct("SKU-001", "Cola 330ml", decimal.NewFromFloat(1.50), 24)
	require.NoError(t, err)
	if pieces > 0 {
		require.NoError(t, product.Restock(pieces))
	}
	product.ClearDomainEvents()
	return product
}

func newLedgerFixture(t *testing.T) (*StockLedgerService, *MockProductRepository, *MockMovementRepository) {
	productRepo := new(MockProductRepository)
	movementRepo := new(MockMovementRepository)
	txScope := NewNoOpTransactionScope(productRepo, nil, nil, nil, movementRepo)
	service := NewStockLedgerService(txScope, productRepo, movementRepo)
	return service, productRepo, movementRepo
}

func adminActor() shared.Actor {
	return shared.Actor{UserID: uuid.New(), Role: shared.RoleAdmin}
}

func staffActor() shared.Actor {
	return shared.Actor{UserID: uuid.New(), Role: shared.RoleStaff}
}

// ============================================
// ManualAdjust Tests
// ============================================

func TestStockLedgerService_ManualAdjust(t *testing.T) {
	t.Run("staff is forbidden", func(t *testing.T) {
		service, _, _ := newLedgerFixture(t)

		_, err := service.ManualAdjust(context.Background(), staffActor(), uuid.New(), AdjustStockRequest{Delta: 5, Note: "recount"})

		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("successful negative adjustment", func(t *testing.T) {
		service, productRepo, movementRepo := newLedgerFixture(t)
		product := newTestProduct(t, 100)
		productRepo.On("FindByIDForUpdate", mock.Anything, product.ID).Return(product, nil)
		productRepo.On("Save", mock.Anything, product).Return(nil)
		movementRepo.On("Append", mock.Anything, mock.AnythingOfType("*inventory.StockMovement")).Return(nil)

		resp, err := service.ManualAdjust(context.Background(), adminActor(), product.ID, AdjustStockRequest{Delta: -10, Note: "breakage"})

		require.NoError(t, err)
		assert.Equal(t, int64(90), product.OnHandPieces)
		assert.Equal(t, int64(-10), resp.Delta)
		assert.Equal(t, int64(100), resp.BeforePieces)
		assert.Equal(t, int64(90), resp.AfterPieces)
		assert.Equal(t, string(inventory.ReasonManualAdjust), resp.Reason)
		movementRepo.AssertExpectations(t)
	})

	t.Run("adjustment below zero fails and saves nothing", func(t *testing.T) {
		service, productRepo, movementRepo := newLedgerFixture(t)
		product := newTestProduct(t, 5)
		productRepo.On("FindByIDForUpdate", mock.Anything, product.ID).Return(product, nil)

		_, err := service.ManualAdjust(context.Background(), adminActor(), product.ID, AdjustStockRequest{Delta: -6, Note: "recount"})

		assert.Error(t, err)
		assert.Equal(t, int64(5), product.OnHandPieces)
		productRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		movementRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("note is required", func(t *testing.T) {
		service, _, _ := newLedgerFixture(t)

		_, err := service.ManualAdjust(context.Background(), adminActor(), uuid.New(), AdjustStockRequest{Delta: 5})

		assert.Error(t, err)
	})
}

// ============================================
// Restock Tests
// ============================================

func TestStockLedgerService_Restock(t *testing.T) {
	t.Run("successful restock", func(t *testing.T) {
		service, productRepo, movementRepo := newLedgerFixture(t)
		product := newTestProduct(t, 10)
		productRepo.On("FindByIDForUpdate", mock.Anything, product.ID).Return(product, nil)
		productRepo.On("Save", mock.Anything, product).Return(nil)
		movementRepo.On("Append", mock.Anything, mock.AnythingOfType("*inventory.StockMovement")).Return(nil)

		resp, err := service.Restock(context.Background(), adminActor(), product.ID, RestockRequest{Pieces: 240, Note: "delivery"})

		require.NoError(t, err)
		assert.Equal(t, int64(250), product.OnHandPieces)
		assert.Equal(t, int64(240), resp.Delta)
		assert.Equal(t, string(inventory.ReasonRestock), resp.Reason)
	})

	t.Run("staff is forbidden", func(t *testing.T) {
		service, _, _ := newLedgerFixture(t)

		_, err := service.Restock(context.Background(), staffActor(), uuid.New(), RestockRequest{Pieces: 10})

		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("non-positive pieces rejected", func(t *testing.T) {
		service, _, _ := newLedgerFixture(t)

		_, err := service.Restock(context.Background(), adminActor(), uuid.New(), RestockRequest{Pieces: 0})

		assert.Error(t, err)
	})
}

// ============================================
// Transactional Helper Tests
// ============================================

func TestDeductPieces(t *testing.T) {
	t.Run("deducts and records movement", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		movementRepo := new(MockMovementRepository)
		repos := NewNoOpTransactionScope(productRepo, nil, nil, nil, movementRepo)
		product := newTestProduct(t, 100)
		orderID := uuid.New()
		actorID := uuid.New()
		productRepo.On("FindByIDForUpdate", mock.Anything, product.ID).Return(product, nil)
		productRepo.On("Save", mock.Anything, product).Return(nil)

		var recorded *inventory.StockMovement
		movementRepo.On("Append", mock.Anything, mock.AnythingOfType("*inventory.StockMovement")).
			Run(func(args mock.Arguments) {
				recorded = args.Get(1).(*inventory.StockMovement)
			}).Return(nil)

		_, err := DeductPieces(context.Background(), repos, product.ID, 48, inventory.ReasonOrderConfirm, &orderID, actorID)

		require.NoError(t, err)
		assert.Equal(t, int64(52), product.OnHandPieces)
		require.NotNil(t, recorded)
		assert.Equal(t, int64(-48), recorded.Delta)
		assert.Equal(t, int64(100), recorded.BeforePieces)
		assert.Equal(t, int64(52), recorded.AfterPieces)
		require.NotNil(t, recorded.ReferenceID)
		assert.Equal(t, orderID, *recorded.ReferenceID)
	})

	t.Run("insufficient stock leaves product untouched", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		movementRepo := new(MockMovementRepository)
		repos := NewNoOpTransactionScope(productRepo, nil, nil, nil, movementRepo)
		product := newTestProduct(t, 10)
		productRepo.On("FindByIDForUpdate", mock.Anything, product.ID).Return(product, nil)

		_, err := DeductPieces(context.Background(), repos, product.ID, 11, inventory.ReasonOrderConfirm, nil, uuid.New())

		assert.Error(t, err)
		assert.Equal(t, int64(10), product.OnHandPieces)
		productRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestRestorePieces(t *testing.T) {
	productRepo := new(MockProductRepository)
	movementRepo := new(MockMovementRepository)
	repos := NewNoOpTransactionScope(productRepo, nil, nil, nil, movementRepo)
	product := newTestProduct(t, 10)
	returnID := uuid.New()
	productRepo.On("FindByIDForUpdate", mock.Anything, product.ID).Return(product, nil)
	productRepo.On("Save", mock.Anything, product).Return(nil)
	movementRepo.On("Append", mock.Anything, mock.AnythingOfType("*inventory.StockMovement")).Return(nil)

	_, err := RestorePieces(context.Background(), repos, product.ID, 24, inventory.ReasonReturnRestore, &returnID, uuid.New())

	require.NoError(t, err)
	assert.Equal(t, int64(34), product.OnHandPieces)
	movementRepo.AssertExpectations(t)
}

// ============================================
// Query Tests
// ============================================

func TestStockLedgerService_GetStockLevel(t *testing.T) {
	service, productRepo, _ := newLedgerFixture(t)
	product := newTestProduct(t, 15)
	require.NoError(t, product.SetLowStockThreshold(20))
	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)

	resp, err := service.GetStockLevel(context.Background(), product.ID)

	require.NoError(t, err)
	assert.Equal(t, int64(15), resp.OnHandPieces)
	assert.True(t, resp.LowStock)
}

func TestStockLedgerService_ListMovements(t *testing.T) {
	service, _, movementRepo := newLedgerFixture(t)
	productID := uuid.New()
	refID := uuid.New()
	movement, err := inventory.NewStockMovement(productID, -48, 100, 52, inventory.ReasonOrderConfirm, &refID, uuid.New(), "")
	require.NoError(t, err)
	movementRepo.On("FindByProduct", mock.Anything, productID, mock.Anything).Return([]inventory.StockMovement{*movement}, nil)
	movementRepo.On("Count", mock.Anything, mock.Anything).Return(int64(1), nil)

	responses, total, err := service.ListMovements(context.Background(), productID, MovementListFilter{})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, responses, 1)
	assert.Equal(t, int64(-48), responses[0].Delta)
}
