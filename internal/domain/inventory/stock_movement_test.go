package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStockMovement(t *testing.T) {
	productID := uuid.New()
	actorID := uuid.New()

	t.Run("successful creation", func(t *testing.T) {
		refID := uuid.New()
		movement, err := NewStockMovement(productID, -48, 100, 52, ReasonOrderConfirm, &refID, actorID, "")

		require.NoError(t, err)
		assert.Equal(t, int64(-48), movement.Delta)
		assert.Equal(t, int64(100), movement.BeforePieces)
		assert.Equal(t, int64(52), movement.AfterPieces)
		assert.Equal(t, ReasonOrderConfirm, movement.Reason)
		require.NotNil(t, movement.ReferenceID)
		assert.Equal(t, refID, *movement.ReferenceID)
	})

	t.Run("mismatched before and after", func(t *testing.T) {
		_, err := NewStockMovement(productID, -48, 100, 60, ReasonOrderConfirm, nil, actorID, "")
		assert.Error(t, err)
	})

	t.Run("zero delta", func(t *testing.T) {
		_, err := NewStockMovement(productID, 0, 100, 100, ReasonManualAdjust, nil, actorID, "")
		assert.Error(t, err)
	})

	t.Run("unknown reason", func(t *testing.T) {
		_, err := NewStockMovement(productID, 10, 0, 10, Reason("THEFT"), nil, actorID, "")
		assert.Error(t, err)
	})

	t.Run("empty actor", func(t *testing.T) {
		_, err := NewStockMovement(productID, 10, 0, 10, ReasonRestock, nil, uuid.Nil, "")
		assert.Error(t, err)
	})
}
