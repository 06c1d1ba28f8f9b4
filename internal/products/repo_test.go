package products

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/calderagroup/procuremart-backend/pkg/db/models"
	"github.com/calderagroup/procuremart-backend/pkg/enums"
	"github.com/calderagroup/procuremart-backend/pkg/pagination"
)

func openProductDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	ddl := []string{
		`CREATE TABLE IF NOT EXISTS supplier_profiles (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			business_name TEXT NOT NULL,
			description TEXT,
			category_ids TEXT,
			address TEXT,
			lead_time_days INTEGER NOT NULL DEFAULT 7,
			min_order_cents INTEGER NOT NULL DEFAULT 0,
			rating REAL NOT NULL DEFAULT 0,
			rating_count INTEGER NOT NULL DEFAULT 0,
			is_verified BOOLEAN NOT NULL DEFAULT FALSE,
			logo_object_path TEXT,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			description TEXT,
			parent_id TEXT,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			supplier_id TEXT NOT NULL,
			category_id TEXT NOT NULL,
			sku TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT,
			unit TEXT NOT NULL DEFAULT 'piece',
			price_cents INTEGER NOT NULL,
			moq INTEGER NOT NULL DEFAULT 1,
			stock_qty INTEGER NOT NULL DEFAULT 0,
			image_object_path TEXT,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at DATETIME,
			updated_at DATETIME
		)`,
	}
	for _, stmt := range ddl {
		require.NoError(t, db.Exec(stmt).Error)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM products")
		db.Exec("DELETE FROM categories")
		db.Exec("DELETE FROM supplier_profiles")
	})
	return db
}

func seedSupplier(t *testing.T, db *gorm.DB, name string) uuid.UUID {
	t.Helper()
	profile := models.SupplierProfile{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		BusinessName: name,
	}
	require.NoError(t, db.Create(&profile).Error)
	return profile.ID
}

func seedCategory(t *testing.T, db *gorm.DB, name string) uuid.UUID {
	t.Helper()
	category := models.Category{
		ID:       uuid.New(),
		Name:     name,
		Slug:     Slugify(name),
		IsActive: true,
	}
	require.NoError(t, db.Create(&category).Error)
	return category.ID
}

type seedProductOpts struct {
	supplierID uuid.UUID
	categoryID uuid.UUID
	sku        string
	name       string
	priceCents int
	stockQty   int
	isActive   bool
	createdAt  time.Time
}

func seedProduct(t *testing.T, db *gorm.DB, opts seedProductOpts) uuid.UUID {
	t.Helper()
	product := models.Product{
		ID:         uuid.New(),
		SupplierID: opts.supplierID,
		CategoryID: opts.categoryID,
		SKU:        opts.sku,
		Name:       opts.name,
		Unit:       enums.UnitPiece,
		PriceCents: opts.priceCents,
		MOQ:        1,
		StockQty:   opts.stockQty,
		IsActive:   opts.isActive,
		CreatedAt:  opts.createdAt,
		UpdatedAt:  opts.createdAt,
	}
	require.NoError(t, db.Create(&product).Error)
	return product.ID
}

func TestListCatalogFiltersAndHidesInactive(t *testing.T) {
	db := openProductDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	apex := seedSupplier(t, db, "Apex Foods")
	borealis := seedSupplier(t, db, "Borealis Paper")
	produce := seedCategory(t, db, "Produce")
	paper := seedCategory(t, db, "Paper Goods")

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	seedProduct(t, db, seedProductOpts{
		supplierID: apex, categoryID: produce, sku: "APX-1",
		name: "Roma Tomatoes", priceCents: 2000, isActive: true, createdAt: base,
	})
	seedProduct(t, db, seedProductOpts{
		supplierID: apex, categoryID: produce, sku: "APX-2",
		name: "Yellow Onions", priceCents: 9000, isActive: true, createdAt: base.Add(time.Minute),
	})
	seedProduct(t, db, seedProductOpts{
		supplierID: borealis, categoryID: paper, sku: "BOR-1",
		name: "Napkins", priceCents: 4000, isActive: true, createdAt: base.Add(2 * time.Minute),
	})
	seedProduct(t, db, seedProductOpts{
		supplierID: apex, categoryID: produce, sku: "APX-3",
		name: "Retired Item", priceCents: 1000, isActive: false, createdAt: base.Add(3 * time.Minute),
	})

	rows, next, err := repo.ListCatalog(ctx, pagination.Params{Limit: 10}, CatalogFilters{})
	require.NoError(t, err)
	assert.Empty(t, next)
	require.Len(t, rows, 3, "inactive products stay hidden")

	rows, _, err = repo.ListCatalog(ctx, pagination.Params{Limit: 10}, CatalogFilters{CategoryID: &produce})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	min, max := 3000, 10000
	rows, _, err = repo.ListCatalog(ctx, pagination.Params{Limit: 10}, CatalogFilters{
		PriceMinCents: &min,
		PriceMaxCents: &max,
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	rows, _, err = repo.ListCatalog(ctx, pagination.Params{Limit: 10}, CatalogFilters{Query: "toma"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Roma Tomatoes", rows[0].Name)
	require.NotNil(t, rows[0].Supplier)
	assert.Equal(t, "Apex Foods", rows[0].Supplier.BusinessName)
}

func TestListCatalogPaginates(t *testing.T) {
	db := openProductDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	supplier := seedSupplier(t, db, "Apex Foods")
	category := seedCategory(t, db, "Produce")
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedProduct(t, db, seedProductOpts{
			supplierID: supplier, categoryID: category,
			sku: "SKU-" + string(rune('A'+i)), name: "Item",
			priceCents: 1000, isActive: true,
			createdAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	first, next, err := repo.ListCatalog(ctx, pagination.Params{Limit: 3}, CatalogFilters{})
	require.NoError(t, err)
	require.Len(t, first, 3)
	require.NotEmpty(t, next)

	second, last, err := repo.ListCatalog(ctx, pagination.Params{Limit: 3, Cursor: next}, CatalogFilters{})
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Empty(t, last)
	assert.True(t, second[0].CreatedAt.Before(first[2].CreatedAt) ||
		second[0].CreatedAt.Equal(first[2].CreatedAt))
}

func TestListBySupplierIncludesInactive(t *testing.T) {
	db := openProductDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	apex := seedSupplier(t, db, "Apex Foods")
	borealis := seedSupplier(t, db, "Borealis Paper")
	category := seedCategory(t, db, "Produce")
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	seedProduct(t, db, seedProductOpts{
		supplierID: apex, categoryID: category, sku: "APX-1",
		name: "Live", priceCents: 1000, isActive: true, createdAt: base,
	})
	seedProduct(t, db, seedProductOpts{
		supplierID: apex, categoryID: category, sku: "APX-2",
		name: "Draft", priceCents: 1000, isActive: false, createdAt: base.Add(time.Minute),
	})
	seedProduct(t, db, seedProductOpts{
		supplierID: borealis, categoryID: category, sku: "BOR-1",
		name: "Other", priceCents: 1000, isActive: true, createdAt: base.Add(2 * time.Minute),
	})

	rows, _, err := repo.ListBySupplier(ctx, apex, pagination.Params{Limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, apex, row.SupplierID)
	}
}

func TestCountBySKU(t *testing.T) {
	db := openProductDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	supplier := seedSupplier(t, db, "Apex Foods")
	category := seedCategory(t, db, "Produce")
	existing := seedProduct(t, db, seedProductOpts{
		supplierID: supplier, categoryID: category, sku: "APX-1",
		name: "Item", priceCents: 1000, isActive: true,
		createdAt: time.Now().UTC(),
	})

	count, err := repo.CountBySKU(ctx, supplier, "APX-1", nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	count, err = repo.CountBySKU(ctx, supplier, "APX-1", &existing)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count, "excluding the row itself frees the sku")

	count, err = repo.CountBySKU(ctx, supplier, "APX-9", nil)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestDecrementStockFloorsAtZero(t *testing.T) {
	db := openProductDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	supplier := seedSupplier(t, db, "Apex Foods")
	category := seedCategory(t, db, "Produce")
	id := seedProduct(t, db, seedProductOpts{
		supplierID: supplier, categoryID: category, sku: "APX-1",
		name: "Item", priceCents: 1000, stockQty: 5, isActive: true,
		createdAt: time.Now().UTC(),
	})

	require.NoError(t, repo.DecrementStock(ctx, id, 3))
	product, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, product.StockQty)

	require.NoError(t, repo.DecrementStock(ctx, id, 10))
	product, err = repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, product.StockQty)
}

func TestCategoryRepository(t *testing.T) {
	db := openProductDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, "Paper Goods & Wraps", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "paper-goods-wraps", created.Slug)

	require.NoError(t, repo.SetActive(ctx, created.ID, false))

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	for _, category := range active {
		assert.NotEqual(t, created.ID, category.ID)
	}
}
