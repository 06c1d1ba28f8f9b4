package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/calderagroup/procuremart-backend/pkg/db/models"
	"github.com/calderagroup/procuremart-backend/pkg/enums"
	"github.com/calderagroup/procuremart-backend/pkg/pagination"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  order_number TEXT NOT NULL UNIQUE,
  buyer_id TEXT NOT NULL,
  supplier_id TEXT,
  supplier_name TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  urgency TEXT NOT NULL DEFAULT 'standard',
  payment_terms TEXT NOT NULL DEFAULT 'net_30',
  subtotal_cents INTEGER NOT NULL,
  delivery_fee_cents INTEGER NOT NULL DEFAULT 0,
  total_cents INTEGER NOT NULL,
  contact_person TEXT NOT NULL,
  phone TEXT NOT NULL,
  delivery_address TEXT NOT NULL,
  notes TEXT,
  expected_delivery_at DATETIME NOT NULL,
  cancelled_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderItems := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  product_name TEXT NOT NULL,
  unit TEXT NOT NULL DEFAULT 'piece',
  unit_price_cents INTEGER NOT NULL,
  quantity INTEGER NOT NULL,
  line_total_cents INTEGER NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(orderItems).Error)
	return db
}

func seedOrder(t *testing.T, db *gorm.DB, buyerID uuid.UUID, supplierID *uuid.UUID, number, supplierName string, created time.Time, status enums.OrderStatus, itemCount int) *models.Order {
	t.Helper()

	order := &models.Order{
		ID:                 uuid.New(),
		OrderNumber:        number,
		BuyerID:            buyerID,
		SupplierID:         supplierID,
		SupplierName:       supplierName,
		Status:             status,
		Urgency:            enums.UrgencyStandard,
		PaymentTerms:       enums.PaymentTermsNet30,
		SubtotalCents:      itemCount * 1000,
		TotalCents:         itemCount*1000 + 5000,
		DeliveryFeeCents:   5000,
		ContactPerson:      "Dana Voss",
		Phone:              "+1 405 555 0100",
		DeliveryAddress:    "500 Industrial Pkwy, Norman OK",
		ExpectedDeliveryAt: created.Add(168 * time.Hour),
		CreatedAt:          created,
		UpdatedAt:          created,
	}
	require.NoError(t, db.Create(order).Error)

	for i := 0; i < itemCount; i++ {
		item := &models.OrderItem{
			ID:             uuid.New(),
			OrderID:        order.ID,
			ProductID:      uuid.New(),
			ProductName:    "Hex Bolt M8",
			Unit:           enums.UnitBox,
			UnitPriceCents: 1000,
			Quantity:       1,
			LineTotalCents: 1000,
			CreatedAt:      created.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, db.Create(item).Error)
	}
	return order
}

func TestRepositoryListBuyerOrders_pagination(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	buyerID := uuid.New()
	supplierA := uuid.New()
	supplierB := uuid.New()

	now := time.Now().UTC()
	seedOrder(t, db, buyerID, &supplierA, "ORD-20260901-AAAA", "Apex Industrial", now.Add(-time.Hour), enums.OrderStatusPending, 2)
	seedOrder(t, db, buyerID, &supplierB, "ORD-20260901-BBBB", "Borealis Supply", now, enums.OrderStatusPending, 3)

	list, err := repo.ListBuyerOrders(context.Background(), buyerID, pagination.Params{Limit: 1}, BuyerOrderFilters{})
	require.NoError(t, err)
	require.Len(t, list.Orders, 1)
	assert.NotEmpty(t, list.NextCursor)
	assert.Equal(t, "ORD-20260901-BBBB", list.Orders[0].OrderNumber)
	assert.Equal(t, "Borealis Supply", list.Orders[0].SupplierName)
	assert.Equal(t, 3, list.Orders[0].ItemCount)

	second, err := repo.ListBuyerOrders(context.Background(), buyerID, pagination.Params{Limit: 1, Cursor: list.NextCursor}, BuyerOrderFilters{})
	require.NoError(t, err)
	require.Len(t, second.Orders, 1)
	assert.Equal(t, "ORD-20260901-AAAA", second.Orders[0].OrderNumber)
	assert.Empty(t, second.NextCursor)
}

func TestRepositoryListBuyerOrders_filtersAndSearch(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	buyerID := uuid.New()
	supplierID := uuid.New()

	now := time.Now().UTC()
	seedOrder(t, db, buyerID, &supplierID, "ORD-20260901-CCCC", "Search Supply Co", now, enums.OrderStatusConfirmed, 4)
	seedOrder(t, db, buyerID, &supplierID, "ORD-20260901-DDDD", "Other Supplier", now.Add(-time.Minute), enums.OrderStatusPending, 1)

	filters := BuyerOrderFilters{
		Status: ptr(enums.OrderStatusConfirmed),
		Query:  "search supply",
	}
	list, err := repo.ListBuyerOrders(context.Background(), buyerID, pagination.Params{Limit: 10}, filters)
	require.NoError(t, err)
	require.Len(t, list.Orders, 1)
	assert.Equal(t, "Search Supply Co", list.Orders[0].SupplierName)
	assert.Equal(t, 4, list.Orders[0].ItemCount)
	assert.Empty(t, list.NextCursor)
}

func TestRepositoryListSupplierOrders_scopedToSupplier(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	supplierID := uuid.New()
	otherSupplier := uuid.New()

	now := time.Now().UTC()
	seedOrder(t, db, uuid.New(), &supplierID, "ORD-20260901-EEEE", "Portal Supplier", now, enums.OrderStatusPending, 2)
	seedOrder(t, db, uuid.New(), &otherSupplier, "ORD-20260901-FFFF", "Portal Supplier", now, enums.OrderStatusPending, 2)

	list, err := repo.ListSupplierOrders(context.Background(), supplierID, pagination.Params{Limit: 10}, SupplierOrderFilters{})
	require.NoError(t, err)
	require.Len(t, list.Orders, 1)
	assert.Equal(t, "ORD-20260901-EEEE", list.Orders[0].OrderNumber)
}

func TestRepositoryListAllOrders_scopeFilters(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	buyerA := uuid.New()
	buyerB := uuid.New()
	supplierID := uuid.New()

	now := time.Now().UTC()
	seedOrder(t, db, buyerA, &supplierID, "ORD-20260901-IIII", "Citywide Supply", now, enums.OrderStatusPending, 1)
	seedOrder(t, db, buyerB, &supplierID, "ORD-20260901-JJJJ", "Citywide Supply", now.Add(-time.Minute), enums.OrderStatusPending, 1)

	all, err := repo.ListAllOrders(context.Background(), pagination.Params{Limit: 10}, AdminOrderFilters{SupplierID: &supplierID})
	require.NoError(t, err)
	assert.Len(t, all.Orders, 2)

	scoped, err := repo.ListAllOrders(context.Background(), pagination.Params{Limit: 10}, AdminOrderFilters{BuyerID: &buyerA})
	require.NoError(t, err)
	require.Len(t, scoped.Orders, 1)
	assert.Equal(t, "ORD-20260901-IIII", scoped.Orders[0].OrderNumber)
}

func TestRepositoryFindOrderDetail_preloadsItems(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	supplierID := uuid.New()
	order := seedOrder(t, db, uuid.New(), &supplierID, "ORD-20260901-GGGG", "Detail Supplier", time.Now().UTC(), enums.OrderStatusPending, 3)

	detail, err := repo.FindOrderDetail(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, detail.Items, 3)
	assert.Equal(t, order.OrderNumber, detail.OrderNumber)
}

func TestRepositoryStatusAndCancelUpdates(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	supplierID := uuid.New()
	order := seedOrder(t, db, uuid.New(), &supplierID, "ORD-20260901-HHHH", "Update Supplier", time.Now().UTC(), enums.OrderStatusPending, 1)

	require.NoError(t, repo.UpdateOrderStatus(context.Background(), order.ID, enums.OrderStatusConfirmed))
	reloaded, err := repo.FindOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusConfirmed, reloaded.Status)

	cancelAt := time.Now().UTC()
	require.NoError(t, repo.MarkCancelled(context.Background(), order.ID, cancelAt))
	reloaded, err = repo.FindOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCancelled, reloaded.Status)
	require.NotNil(t, reloaded.CancelledAt)
}

func ptr[T any](v T) *T {
	return &v
}
