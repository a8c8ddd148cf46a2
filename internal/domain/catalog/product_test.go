package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helpers
func createTestProduct(t *testing.T) *Product {
	product, err := NewProduct("SKU-001", "Cola 330ml", decimal.NewFromFloat(1.50), 24)
	require.NoError(t, err)
	return product
}

func createStockedProduct(t *testing.T, pieces int64) *Product {
	product := createTestProduct(t)
	require.NoError(t, product.Restock(pieces))
	product.ClearDomainEvents()
	return product
}

// ============================================
// Product Creation Tests
// ============================================

func TestNewProduct(t *testing.T) {
	t.Run("successful creation", func(t *testing.T) {
		product, err := NewProduct("SKU-001", "Cola 330ml", decimal.NewFromFloat(1.50), 24)

		require.NoError(t, err)
		assert.Equal(t, "SKU-001", product.SKUCode)
		assert.Equal(t, "Cola 330ml", product.Name)
		assert.True(t, product.PricePerPiece.Equal(decimal.NewFromFloat(1.50)))
		assert.Equal(t, int64(24), product.PiecesPerCase)
		assert.Equal(t, int64(0), product.OnHandPieces)
		assert.True(t, product.Active)
		assert.Nil(t, product.WholesaleCostPerPiece)
	})

	t.Run("empty SKU code", func(t *testing.T) {
		_, err := NewProduct("", "Cola 330ml", decimal.NewFromFloat(1.50), 24)
		assert.Error(t, err)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := NewProduct("SKU-001", "", decimal.NewFromFloat(1.50), 24)
		assert.Error(t, err)
	})

	t.Run("negative price", func(t *testing.T) {
		_, err := NewProduct("SKU-001", "Cola 330ml", decimal.NewFromFloat(-1), 24)
		assert.Error(t, err)
	})

	t.Run("non-positive case size", func(t *testing.T) {
		_, err := NewProduct("SKU-001", "Cola 330ml", decimal.NewFromFloat(1.50), 0)
		assert.Error(t, err)
	})
}

// ============================================
// Stock Mutation Tests
// ============================================

func TestProduct_Deduct(t *testing.T) {
	t.Run("successful deduction", func(t *testing.T) {
		product := createStockedProduct(t, 100)

		err := product.Deduct(40)

		require.NoError(t, err)
		assert.Equal(t, int64(60), product.OnHandPieces)
	})

	t.Run("deduct to exactly zero", func(t *testing.T) {
		product := createStockedProduct(t, 100)

		err := product.Deduct(100)

		require.NoError(t, err)
		assert.Equal(t, int64(0), product.OnHandPieces)
	})

	t.Run("insufficient stock leaves count unchanged", func(t *testing.T) {
		product := createStockedProduct(t, 10)

		err := product.Deduct(11)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "SKU-001")
		assert.Equal(t, int64(10), product.OnHandPieces)
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		product := createStockedProduct(t, 10)

		assert.Error(t, product.Deduct(0))
		assert.Error(t, product.Deduct(-5))
		assert.Equal(t, int64(10), product.OnHandPieces)
	})
}

func TestProduct_Restore(t *testing.T) {
	product := createStockedProduct(t, 10)

	require.NoError(t, product.Restore(40))

	assert.Equal(t, int64(50), product.OnHandPieces)
	assert.Error(t, product.Restore(0))
}

func TestProduct_Restock(t *testing.T) {
	product := createTestProduct(t)

	require.NoError(t, product.Restock(240))

	assert.Equal(t, int64(240), product.OnHandPieces)
	assert.Error(t, product.Restock(-10))
}

func TestProduct_AdjustBy(t *testing.T) {
	t.Run("positive adjustment", func(t *testing.T) {
		product := createStockedProduct(t, 10)

		require.NoError(t, product.AdjustBy(5))

		assert.Equal(t, int64(15), product.OnHandPieces)
	})

	t.Run("negative adjustment", func(t *testing.T) {
		product := createStockedProduct(t, 10)

		require.NoError(t, product.AdjustBy(-7))

		assert.Equal(t, int64(3), product.OnHandPieces)
	})

	t.Run("adjustment below zero is rejected", func(t *testing.T) {
		product := createStockedProduct(t, 10)

		err := product.AdjustBy(-11)

		assert.Error(t, err)
		assert.Equal(t, int64(10), product.OnHandPieces)
	})

	t.Run("zero delta is rejected", func(t *testing.T) {
		product := createStockedProduct(t, 10)
		assert.Error(t, product.AdjustBy(0))
	})
}

// ============================================
// Low Stock Tests
// ============================================

func TestProduct_LowStock(t *testing.T) {
	t.Run("no threshold means never low", func(t *testing.T) {
		product := createStockedProduct(t, 1)
		assert.False(t, product.IsLowStock())
	})

	t.Run("at threshold is low", func(t *testing.T) {
		product := createStockedProduct(t, 20)
		require.NoError(t, product.SetLowStockThreshold(20))
		assert.True(t, product.IsLowStock())
	})

	t.Run("deduction crossing threshold emits event", func(t *testing.T) {
		product := createStockedProduct(t, 30)
		require.NoError(t, product.SetLowStockThreshold(20))
		product.ClearDomainEvents()

		require.NoError(t, product.Deduct(15))

		events := product.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeProductLowStock, events[0].EventType())
	})

	t.Run("deduction while already low emits nothing", func(t *testing.T) {
		product := createStockedProduct(t, 15)
		require.NoError(t, product.SetLowStockThreshold(20))
		product.ClearDomainEvents()

		require.NoError(t, product.Deduct(5))

		assert.Empty(t, product.GetDomainEvents())
	})

	t.Run("negative threshold is rejected", func(t *testing.T) {
		product := createTestProduct(t)
		assert.Error(t, product.SetLowStockThreshold(-1))
	})
}

// ============================================
// Pricing and Lifecycle Tests
// ============================================

func TestProduct_UpdatePrice(t *testing.T) {
	product := createTestProduct(t)

	require.NoError(t, product.UpdatePrice(decimal.NewFromFloat(2.25)))

	assert.True(t, product.PricePerPiece.Equal(decimal.NewFromFloat(2.25)))
	assert.Error(t, product.UpdatePrice(decimal.NewFromInt(-1)))
}

func TestProduct_SetWholesaleCost(t *testing.T) {
	product := createTestProduct(t)

	require.NoError(t, product.SetWholesaleCost(decimal.NewFromFloat(0.90)))

	require.NotNil(t, product.WholesaleCostPerPiece)
	assert.True(t, product.WholesaleCostPerPiece.Equal(decimal.NewFromFloat(0.90)))
	assert.Error(t, product.SetWholesaleCost(decimal.NewFromInt(-1)))
}

func TestProduct_ActivateDeactivate(t *testing.T) {
	product := createTestProduct(t)

	product.Deactivate()
	assert.False(t, product.Active)

	product.Activate()
	assert.True(t, product.Active)
}
