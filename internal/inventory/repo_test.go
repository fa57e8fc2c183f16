package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sgavilan/leatherstore-backend/pkg/db/models"
	"github.com/sgavilan/leatherstore-backend/pkg/pagination"
)

func setupStockTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS stock_records (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL UNIQUE,
  quantity INTEGER NOT NULL DEFAULT 0,
  minimum_threshold INTEGER NOT NULL DEFAULT 5,
  location TEXT NOT NULL DEFAULT '',
  last_updated DATETIME,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func seedStock(t *testing.T, db *gorm.DB, productID uuid.UUID, qty, threshold int) *models.StockRecord {
	t.Helper()
	record := &models.StockRecord{
		ID:               uuid.New(),
		ProductID:        productID,
		Quantity:         qty,
		MinimumThreshold: threshold,
	}
	require.NoError(t, db.Create(record).Error)
	return record
}

func TestDecrementQuantityGuardsAgainstNegative(t *testing.T) {
	db := setupStockTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	productID := uuid.New()
	seedStock(t, db, productID, 5, 2)

	rows, err := repo.DecrementQuantity(ctx, productID, 3)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	// only 2 left, asking for 3 must not go through
	rows, err = repo.DecrementQuantity(ctx, productID, 3)
	require.NoError(t, err)
	assert.EqualValues(t, 0, rows)

	record, err := repo.FindByProduct(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 2, record.Quantity)
}

func TestDecrementQuantityToExactlyZero(t *testing.T) {
	db := setupStockTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	productID := uuid.New()
	seedStock(t, db, productID, 4, 1)

	rows, err := repo.DecrementQuantity(ctx, productID, 4)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	record, err := repo.FindByProduct(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 0, record.Quantity)
}

func TestDecrementQuantityUnknownProduct(t *testing.T) {
	db := setupStockTestDB(t)
	repo := NewRepository(db)

	rows, err := repo.DecrementQuantity(context.Background(), uuid.New(), 1)
	require.NoError(t, err)
	assert.EqualValues(t, 0, rows)
}

func TestIncrementQuantityRestoresStock(t *testing.T) {
	db := setupStockTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	productID := uuid.New()
	seedStock(t, db, productID, 1, 1)

	rows, err := repo.IncrementQuantity(ctx, productID, 7)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	record, err := repo.FindByProduct(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 8, record.Quantity)
}

func TestListBelowThreshold(t *testing.T) {
	db := setupStockTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	low := seedStock(t, db, uuid.New(), 2, 5)
	atThreshold := seedStock(t, db, uuid.New(), 5, 5)
	seedStock(t, db, uuid.New(), 50, 5)

	records, err := repo.ListBelowThreshold(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)

	ids := []uuid.UUID{records[0].ID, records[1].ID}
	assert.Contains(t, ids, low.ID)
	assert.Contains(t, ids, atThreshold.ID)
	// lowest quantity first
	assert.Equal(t, low.ID, records[0].ID)
}

func TestLedgerDecreaseAndIncreaseWithinTx(t *testing.T) {
	db := setupStockTestDB(t)
	ledger := NewLedger()
	ctx := context.Background()

	productID := uuid.New()
	seedStock(t, db, productID, 3, 1)

	err := db.Transaction(func(tx *gorm.DB) error {
		return ledger.Decrease(ctx, tx, productID, 3)
	})
	require.NoError(t, err)

	record := &models.StockRecord{}
	require.NoError(t, db.Where("product_id = ?", productID).First(record).Error)
	assert.Equal(t, 0, record.Quantity)

	err = db.Transaction(func(tx *gorm.DB) error {
		return ledger.Decrease(ctx, tx, productID, 1)
	})
	require.Error(t, err)

	err = db.Transaction(func(tx *gorm.DB) error {
		return ledger.Increase(ctx, tx, productID, 2)
	})
	require.NoError(t, err)
	require.NoError(t, db.Where("product_id = ?", productID).First(record).Error)
	assert.Equal(t, 2, record.Quantity)
}

func TestListPagination(t *testing.T) {
	db := setupStockTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		seedStock(t, db, uuid.New(), i, 1)
	}

	records, err := repo.List(ctx, pagination.Params{Limit: 3})
	require.NoError(t, err)
	assert.Len(t, records, 3)

	records, err = repo.List(ctx, pagination.Params{Limit: 3, Offset: 3})
	require.NoError(t, err)
	assert.Len(t, records, 2)
}
