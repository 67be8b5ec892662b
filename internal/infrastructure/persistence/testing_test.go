package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/stockledger/backend/internal/domain/catalog"
	"github.com/stockledger/backend/internal/domain/inventory"
	"github.com/stockledger/backend/internal/domain/purchase"
	"github.com/stockledger/backend/internal/domain/report"
)

// setupTestDB opens an in-memory SQLite database with the full schema.
// The pool is capped at one connection so the in-memory database survives
// across queries.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&catalog.Product{},
		&purchase.Purchase{},
		&purchase.PurchaseItem{},
		&inventory.InventoryLot{},
		&inventory.InventoryMovement{},
		&report.SalesLine{},
	))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}
