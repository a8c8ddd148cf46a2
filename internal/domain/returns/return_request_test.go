package returns

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helpers
func createTestReturn(t *testing.T) *ReturnRequest {
	ret, err := NewReturnRequest("RET-2026-00001", uuid.New(), "customer changed mind")
	require.NoError(t, err)
	return ret
}

func addTestLine(t *testing.T, r *ReturnRequest, pieces int64, condition Condition) *Line {
	line, err := r.AddLine(uuid.New(), uuid.New(), pieces, condition)
	require.NoError(t, err)
	return line
}

// ============================================
// Condition Tests
// ============================================

func TestCondition_Restorable(t *testing.T) {
	tests := []struct {
		condition  Condition
		restorable bool
	}{
		{ConditionResellable, true},
		{ConditionDamaged, false},
		{ConditionExpired, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.condition), func(t *testing.T) {
			assert.Equal(t, tt.restorable, tt.condition.Restorable())
		})
	}
}

// ============================================
// Creation Tests
// ============================================

func TestNewReturnRequest(t *testing.T) {
	t.Run("successful creation", func(t *testing.T) {
		orderID := uuid.New()
		ret, err := NewReturnRequest("RET-2026-00001", orderID, "damaged in transit")

		require.NoError(t, err)
		assert.Equal(t, "RET-2026-00001", ret.ReturnNumber)
		assert.Equal(t, orderID, ret.OrderID)
		assert.Equal(t, StatusPending, ret.Status)
		assert.Empty(t, ret.Lines)
		assert.Nil(t, ret.ResolvedAt)
	})

	t.Run("empty reason", func(t *testing.T) {
		_, err := NewReturnRequest("RET-2026-00001", uuid.New(), "")
		assert.Error(t, err)
	})

	t.Run("empty order", func(t *testing.T) {
		_, err := NewReturnRequest("RET-2026-00001", uuid.Nil, "reason")
		assert.Error(t, err)
	})
}

// ============================================
// Line Tests
// ============================================

func TestReturnRequest_AddLine(t *testing.T) {
	t.Run("adds line", func(t *testing.T) {
		ret := createTestReturn(t)

		line := addTestLine(t, ret, 12, ConditionResellable)

		require.Len(t, ret.Lines, 1)
		assert.Equal(t, int64(12), line.PiecesReturned)
	})

	t.Run("rejects duplicate order line", func(t *testing.T) {
		ret := createTestReturn(t)
		orderLineID := uuid.New()
		_, err := ret.AddLine(orderLineID, uuid.New(), 5, ConditionDamaged)
		require.NoError(t, err)

		_, err = ret.AddLine(orderLineID, uuid.New(), 3, ConditionDamaged)

		assert.Error(t, err)
		assert.Len(t, ret.Lines, 1)
	})

	t.Run("rejects invalid quantity", func(t *testing.T) {
		ret := createTestReturn(t)
		_, err := ret.AddLine(uuid.New(), uuid.New(), 0, ConditionResellable)
		assert.Error(t, err)
	})

	t.Run("rejects unknown condition", func(t *testing.T) {
		ret := createTestReturn(t)
		_, err := ret.AddLine(uuid.New(), uuid.New(), 5, Condition("PRISTINE"))
		assert.Error(t, err)
	})

	t.Run("rejects resolved return", func(t *testing.T) {
		ret := createTestReturn(t)
		addTestLine(t, ret, 5, ConditionResellable)
		require.NoError(t, ret.Approve(uuid.New()))

		_, err := ret.AddLine(uuid.New(), uuid.New(), 5, ConditionResellable)
		assert.Error(t, err)
	})
}

// ============================================
// Resolution Tests
// ============================================

func TestReturnRequest_Approve(t *testing.T) {
	t.Run("successful approval", func(t *testing.T) {
		ret := createTestReturn(t)
		addTestLine(t, ret, 5, ConditionResellable)
		adminID := uuid.New()

		err := ret.Approve(adminID)

		require.NoError(t, err)
		assert.Equal(t, StatusApproved, ret.Status)
		require.NotNil(t, ret.ResolvedAt)
		require.NotNil(t, ret.ResolvedBy)
		assert.Equal(t, adminID, *ret.ResolvedBy)
	})

	t.Run("cannot approve without lines", func(t *testing.T) {
		ret := createTestReturn(t)
		assert.Error(t, ret.Approve(uuid.New()))
		assert.Equal(t, StatusPending, ret.Status)
	})

	t.Run("cannot approve twice", func(t *testing.T) {
		ret := createTestReturn(t)
		addTestLine(t, ret, 5, ConditionResellable)
		require.NoError(t, ret.Approve(uuid.New()))

		assert.Error(t, ret.Approve(uuid.New()))
	})

	t.Run("cannot approve rejected return", func(t *testing.T) {
		ret := createTestReturn(t)
		addTestLine(t, ret, 5, ConditionResellable)
		require.NoError(t, ret.Reject(uuid.New()))

		assert.Error(t, ret.Approve(uuid.New()))
	})
}

func TestReturnRequest_Reject(t *testing.T) {
	ret := createTestReturn(t)
	addTestLine(t, ret, 5, ConditionDamaged)
	adminID := uuid.New()

	require.NoError(t, ret.Reject(adminID))

	assert.Equal(t, StatusRejected, ret.Status)
	require.NotNil(t, ret.ResolvedBy)
	assert.Equal(t, adminID, *ret.ResolvedBy)
	assert.Error(t, ret.Reject(adminID))
}

func TestReturnRequest_RestorableLines(t *testing.T) {
	ret := createTestReturn(t)
	resellable := addTestLine(t, ret, 10, ConditionResellable)
	addTestLine(t, ret, 4, ConditionDamaged)
	addTestLine(t, ret, 2, ConditionExpired)

	lines := ret.RestorableLines()

	require.Len(t, lines, 1)
	assert.Equal(t, resellable.ID, lines[0].ID)
}
