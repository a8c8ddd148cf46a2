// Integration tests for the draft reaper: stale drafts are swept,
// fresh drafts and committed orders survive, and the sweep is
// idempotent.
package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderdesk/backend/internal/domain/shared"
)

// backdate pushes an order's created_at into the past so the reaper sees
// it as stale. updated_at stays recent, which doubles as coverage for
// edited-but-old drafts: editing must not keep a draft alive.
func backdate(t *testing.T, env *testEnv, orderID uuid.UUID, age time.Duration) {
	t.Helper()

	err := env.db.DB.Exec("UPDATE orders SET created_at = ? WHERE id = ?",
		time.Now().Add(-age), orderID).Error
	require.NoError(t, err, "Failed to backdate order")
}

func TestReapStaleDrafts_DeletesOnlyStale(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	product := env.seedProduct(t, "COLA-330", 24, 100)

	stale1 := env.newDraftWithLine(t, product.ID, 1)
	stale2 := env.newDraftWithLine(t, product.ID, 1)
	fresh := env.newDraftWithLine(t, product.ID, 1)

	backdate(t, env, stale1.ID, 2*time.Hour)
	backdate(t, env, stale2.ID, 3*time.Hour)

	reaper := env.newReaper(time.Hour)
	stats, err := reaper.ReapStaleDrafts(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalStale)
	assert.Equal(t, 2, stats.Deleted)
	assert.Equal(t, 0, stats.Failed)

	_, err = env.orderRepo.FindByID(context.Background(), stale1.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	_, err = env.orderRepo.FindByID(context.Background(), stale2.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	kept, err := env.orderRepo.FindByID(context.Background(), fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, fresh.ID, kept.ID)

	// Lines go with their order
	var lineCount int64
	require.NoError(t, env.db.DB.Raw("SELECT COUNT(*) FROM order_lines WHERE order_id = ?", stale1.ID).Scan(&lineCount).Error)
	assert.Equal(t, int64(0), lineCount)

	// A second sweep finds nothing
	stats, err = reaper.ReapStaleDrafts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalStale)
	assert.Equal(t, 0, stats.Deleted)
}

func TestReapStaleDrafts_IgnoresCommittedOrders(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	product := env.seedProduct(t, "COLA-330", 24, 100)

	confirmed := env.newDraftWithLine(t, product.ID, 1)
	env.confirmOrder(t, confirmed.ID)
	backdate(t, env, confirmed.ID, 48*time.Hour)

	reaper := env.newReaper(time.Hour)
	stats, err := reaper.ReapStaleDrafts(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalStale)

	kept, err := env.orderRepo.FindByID(context.Background(), confirmed.ID)
	require.NoError(t, err)
	assert.Equal(t, "CONFIRMED", string(kept.Status))
}

func TestDeleteDraft_GuardsAgainstConcurrentConfirm(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	product := env.seedProduct(t, "COLA-330", 24, 100)

	draft := env.newDraftWithLine(t, product.ID, 1)
	env.confirmOrder(t, draft.ID)

	// Simulates the race where an order is confirmed between the
	// reaper's scan and its delete: the status guard must refuse
	err := env.orderRepo.DeleteDraft(context.Background(), draft.ID)

	assert.ErrorIs(t, err, shared.ErrNotFound)

	kept, err := env.orderRepo.FindByID(context.Background(), draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "CONFIRMED", string(kept.Status))
	assert.Len(t, kept.Lines, 1)
}

func TestReapStaleDrafts_HonorsBatchSize(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	product := env.seedProduct(t, "COLA-330", 24, 100)

	for i := 0; i < 5; i++ {
		draft := env.newDraftWithLine(t, product.ID, 1)
		backdate(t, env, draft.ID, time.Duration(i+2)*time.Hour)
	}

	reaper := env.newReaper(time.Hour)
	reaper.SetBatchSize(2)

	stats, err := reaper.ReapStaleDrafts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Deleted)

	stats, err = reaper.ReapStaleDrafts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Deleted)

	stats, err = reaper.ReapStaleDrafts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Deleted)
}
