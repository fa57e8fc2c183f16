package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sgavilan/leatherstore-backend/pkg/db/models"
	"github.com/sgavilan/leatherstore-backend/pkg/enums"
	"github.com/sgavilan/leatherstore-backend/pkg/pagination"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  client_id TEXT NOT NULL,
  created_by_user_id TEXT,
  status TEXT NOT NULL DEFAULT 'pending',
  subtotal NUMERIC NOT NULL DEFAULT 0,
  discount NUMERIC NOT NULL DEFAULT 0,
  total NUMERIC NOT NULL DEFAULT 0,
  payment_method TEXT NOT NULL DEFAULT 'cash',
  notes TEXT,
  delivery_address TEXT,
  status_changed_at DATETIME,
  cancelled_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS order_line_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  product_name TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price NUMERIC NOT NULL,
  line_subtotal NUMERIC NOT NULL,
  created_at DATETIME
);`,
	} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedOrder(t *testing.T, repo Repository, clientID uuid.UUID, status enums.OrderStatus, createdAt time.Time) *models.Order {
	t.Helper()
	order := &models.Order{
		ClientID:      clientID,
		Status:        status,
		Subtotal:      decimal.NewFromInt(100),
		Total:         decimal.NewFromInt(100),
		PaymentMethod: enums.PaymentMethodCash,
		CreatedAt:     createdAt,
	}
	_, err := repo.Create(context.Background(), order)
	require.NoError(t, err)
	return order
}

func TestCreateAndFindByIDPreloadsItems(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := seedOrder(t, repo, uuid.New(), enums.OrderStatusPending, time.Now().UTC())
	items := []models.OrderLineItem{
		{
			OrderID:      order.ID,
			ProductID:    uuid.New(),
			ProductName:  "Messenger Bag",
			Quantity:     1,
			UnitPrice:    decimal.NewFromInt(120),
			LineSubtotal: decimal.NewFromInt(120),
		},
		{
			OrderID:      order.ID,
			ProductID:    uuid.New(),
			ProductName:  "Key Fob",
			Quantity:     4,
			UnitPrice:    decimal.NewFromInt(8),
			LineSubtotal: decimal.NewFromInt(32),
		},
	}
	require.NoError(t, repo.CreateLineItems(ctx, items))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)
	require.Len(t, found.Items, 2)

	names := []string{found.Items[0].ProductName, found.Items[1].ProductName}
	assert.Contains(t, names, "Messenger Bag")
	assert.Contains(t, names, "Key Fob")
}

func TestFindByIDUnknownOrder(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListNewestFirst(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	old := seedOrder(t, repo, uuid.New(), enums.OrderStatusPending, base)
	recent := seedOrder(t, repo, uuid.New(), enums.OrderStatusPending, base.Add(30*time.Minute))

	orders, err := repo.List(ctx, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, recent.ID, orders[0].ID)
	assert.Equal(t, old.ID, orders[1].ID)
}

func TestListByClientFilters(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	clientA := uuid.New()
	clientB := uuid.New()
	now := time.Now().UTC()
	seedOrder(t, repo, clientA, enums.OrderStatusPending, now)
	seedOrder(t, repo, clientA, enums.OrderStatusShipped, now.Add(time.Minute))
	seedOrder(t, repo, clientB, enums.OrderStatusPending, now.Add(2*time.Minute))

	orders, err := repo.ListByClient(ctx, clientA, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, orders, 2)
	for _, order := range orders {
		assert.Equal(t, clientA, order.ClientID)
	}
}

func TestListByStatusFilters(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	seedOrder(t, repo, uuid.New(), enums.OrderStatusPending, now)
	shipped := seedOrder(t, repo, uuid.New(), enums.OrderStatusShipped, now.Add(time.Minute))

	orders, err := repo.ListByStatus(ctx, enums.OrderStatusShipped, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, shipped.ID, orders[0].ID)
}

func TestUpdateAppliesColumnMap(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := seedOrder(t, repo, uuid.New(), enums.OrderStatusPending, time.Now().UTC())

	now := time.Now().UTC()
	err := repo.Update(ctx, order.ID, map[string]any{
		"status":            enums.OrderStatusCancelled,
		"status_changed_at": now,
		"cancelled_at":      now,
	})
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCancelled, found.Status)
	require.NotNil(t, found.CancelledAt)
}
