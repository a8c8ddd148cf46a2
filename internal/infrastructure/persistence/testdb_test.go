package persistence

import (
	"testing"

	"github.com/orderdesk/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory sqlite database with the full schema.
// Postgres-only behavior (ILIKE search, lock_timeout) is covered by the
// integration tests instead.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.ProductModel{},
		&models.OrderModel{},
		&models.OrderLineModel{},
		&models.ReturnRequestModel{},
		&models.ReturnLineModel{},
		&models.InvoiceModel{},
		&models.StockMovementModel{},
		&models.AuditEntryModel{},
	)
	require.NoError(t, err)

	return db
}
