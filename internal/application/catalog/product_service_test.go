package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/orderdesk/backend/internal/domain/catalog"
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

func adminActor() shared.Actor {
	return shared.Actor{UserID: uuid.New(), Role: shared.RoleAdmin}
}

func staffActor() shared.Actor {
	return shared.Actor{UserID: uuid.New(), Role: shared.RoleStaff}
}

// ============================================
// Create Tests
// ============================================

func TestProductService_Create(t *testing.T) {
	t.Run("staff is forbidden", func(t *testing.T) {
		service := NewProductService(new(MockProductRepository))

		_, err := service.Create(context.Background(), staffActor(), CreateProductRequest{
			SKUCode:       "SKU-001",
			Name:          "Cola 330ml",
			PricePerPiece: decimal.NewFromFloat(1.50),
			PiecesPerCase: 24,
		})

		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("successful creation", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo)
		repo.On("FindBySKU", mock.Anything, "SKU-001").Return(nil, shared.ErrNotFound)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

		cost := decimal.NewFromFloat(0.90)
		resp, err := service.Create(context.Background(), adminActor(), CreateProductRequest{
			SKUCode:           "SKU-001",
			Name:              "Cola 330ml",
			PricePerPiece:     decimal.NewFromFloat(1.50),
			WholesaleCost:     &cost,
			PiecesPerCase:     24,
			LowStockThreshold: 48,
		})

		require.NoError(t, err)
		assert.Equal(t, "SKU-001", resp.SKUCode)
		assert.Equal(t, int64(0), resp.OnHandPieces)
		assert.Equal(t, int64(48), resp.LowStockThreshold)
		assert.True(t, resp.Active)
	})

	t.Run("duplicate SKU rejected", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo)
		existing, err := catalog.NewProduct("SKU-001", "Cola 330ml", decimal.NewFromFloat(1.50), 24)
		require.NoError(t, err)
		repo.On("FindBySKU", mock.Anything, "SKU-001").Return(existing, nil)

		_, err = service.Create(context.Background(), adminActor(), CreateProductRequest{
			SKUCode:       "SKU-001",
			Name:          "Cola again",
			PricePerPiece: decimal.NewFromFloat(1.50),
			PiecesPerCase: 24,
		})

		assert.Error(t, err)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

// ============================================
// Update Tests
// ============================================

func TestProductService_Update(t *testing.T) {
	repo := new(MockProductRepository)
	service := NewProductService(repo)
	product, err := catalog.NewProduct("SKU-001", "Cola 330ml", decimal.NewFromFloat(1.50), 24)
	require.NoError(t, err)
	repo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	repo.On("Save", mock.Anything, product).Return(nil)

	newName := "Cola Zero 330ml"
	newPrice := decimal.NewFromFloat(1.75)
	resp, err := service.Update(context.Background(), adminActor(), product.ID, UpdateProductRequest{
		Name:          &newName,
		PricePerPiece: &newPrice,
	})

	require.NoError(t, err)
	assert.Equal(t, "Cola Zero 330ml", resp.Name)
	assert.True(t, resp.PricePerPiece.Equal(newPrice))
}

// ============================================
// Delete Tests
// ============================================

func TestProductService_Delete(t *testing.T) {
	t.Run("referenced product cannot be deleted", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo)
		productID := uuid.New()
		repo.On("IsReferencedByOrders", mock.Anything, productID).Return(true, nil)

		err := service.Delete(context.Background(), adminActor(), productID)

		assert.Error(t, err)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("unreferenced product is deleted", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo)
		productID := uuid.New()
		repo.On("IsReferencedByOrders", mock.Anything, productID).Return(false, nil)
		repo.On("Delete", mock.Anything, productID).Return(nil)

		err := service.Delete(context.Background(), adminActor(), productID)

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("staff is forbidden", func(t *testing.T) {
		service := NewProductService(new(MockProductRepository))

		err := service.Delete(context.Background(), staffActor(), uuid.New())

		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}
