package catalog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dmcortes/shoplane-backend/pkg/db/models"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	categories := `
CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  created_at DATETIME,
  updated_at DATETIME
);`
	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  price_cents INTEGER NOT NULL,
  stock INTEGER NOT NULL DEFAULT 0,
  category_id TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(categories).Error)
	require.NoError(t, db.Exec(products).Error)
	return db
}

func seedCategory(t *testing.T, db *gorm.DB) *models.Category {
	t.Helper()
	category := &models.Category{ID: uuid.New(), Name: "cat-" + uuid.NewString()}
	require.NoError(t, db.Create(category).Error)
	return category
}

func seedProduct(t *testing.T, db *gorm.DB, categoryID uuid.UUID, name string, stock int, createdAt time.Time) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:         uuid.New(),
		Name:       name,
		PriceCents: 1000,
		Stock:      stock,
		CategoryID: categoryID,
		CreatedAt:  createdAt,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestProductRepositoryListPaginates(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	category := seedCategory(t, db)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedProduct(t, db, category.ID, fmt.Sprintf("product-%d", i), 10, base.Add(time.Duration(i)*time.Minute))
	}

	first, cursor, err := repo.List(ctx, nil, "", 3)
	require.NoError(t, err)
	require.Len(t, first, 3)
	require.NotEmpty(t, cursor)
	assert.Equal(t, "product-4", first[0].Name)

	second, nextCursor, err := repo.List(ctx, nil, cursor, 3)
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Empty(t, nextCursor)
	assert.Equal(t, "product-1", second[0].Name)
	assert.Equal(t, "product-0", second[1].Name)
}

func TestProductRepositoryListFiltersByCategory(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	wanted := seedCategory(t, db)
	other := seedCategory(t, db)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedProduct(t, db, wanted.ID, "in-category", 5, now)
	seedProduct(t, db, other.ID, "out-of-category", 5, now)

	got, _, err := repo.List(ctx, &wanted.ID, "", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "in-category", got[0].Name)
}

func TestProductRepositoryDecrementStockGuard(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	category := seedCategory(t, db)
	product := seedProduct(t, db, category.ID, "guarded", 3, time.Now().UTC())

	ok, err := repo.DecrementStock(ctx, product.ID, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	// Only one unit left; a decrement of two must be rejected untouched.
	ok, err = repo.DecrementStock(ctx, product.ID, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	fresh, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.Stock)
}

func TestCategoryRepositoryCountProducts(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewCategoryRepository(db)
	products := NewProductRepository(db)
	ctx := context.Background()

	category := seedCategory(t, db)
	_, err := products.Create(ctx, &models.Product{
		ID:         uuid.New(),
		Name:       "counted",
		PriceCents: 500,
		Stock:      1,
		CategoryID: category.ID,
	})
	require.NoError(t, err)

	count, err := repo.CountProducts(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = repo.CountProducts(ctx, uuid.New())
	require.NoError(t, err)
	assert.Zero(t, count)
}
