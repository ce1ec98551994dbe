package mysql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/shopbackend/internal/datamodels/product"
)

func TestReserveStockSufficient(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	p := &product.Product{Name: "T恤", Price: 4900, Stock: 5}
	require.NoError(t, repo.Create(ctx, p))

	ok, err := repo.ReserveStock(ctx, p.ID, 3)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Stock)
}

func TestReserveStockInsufficientLeavesStockUnchanged(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	p := &product.Product{Name: "T恤", Price: 4900, Stock: 2}
	require.NoError(t, repo.Create(ctx, p))

	ok, err := repo.ReserveStock(ctx, p.ID, 3)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Stock)
}

func TestReserveStockExactRemainder(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	p := &product.Product{Name: "T恤", Price: 4900, Stock: 3}
	require.NoError(t, repo.Create(ctx, p))

	ok, err := repo.ReserveStock(ctx, p.ID, 3)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Stock)

	// 库存为 0 后再扣减失败
	ok, err = repo.ReserveStock(ctx, p.ID, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReserveStockMissingProduct(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)

	ok, err := repo.ReserveStock(context.Background(), 999, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReleaseStock(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	p := &product.Product{Name: "T恤", Price: 4900, Stock: 1}
	require.NoError(t, repo.Create(ctx, p))

	require.NoError(t, repo.ReleaseStock(ctx, p.ID, 4))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.Stock)
}

func TestSearchByNameIgnoresCase(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &product.Product{Name: "Black Shirt", Price: 100, Stock: 1}))
	require.NoError(t, repo.Create(ctx, &product.Product{Name: "white shirt", Price: 100, Stock: 1}))
	require.NoError(t, repo.Create(ctx, &product.Product{Name: "Cap", Price: 100, Stock: 1}))

	list, err := repo.SearchByName(ctx, "SHIRT")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestListInStock(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &product.Product{Name: "a", Price: 100, Stock: 0}))
	require.NoError(t, repo.Create(ctx, &product.Product{Name: "b", Price: 100, Stock: 1}))
	require.NoError(t, repo.Create(ctx, &product.Product{Name: "c", Price: 100, Stock: 2}))

	inStock, err := repo.ListInStock(ctx, true)
	require.NoError(t, err)
	assert.Len(t, inStock, 2)
	for _, p := range inStock {
		assert.Greater(t, p.Stock, int64(0))
	}

	outOfStock, err := repo.ListInStock(ctx, false)
	require.NoError(t, err)
	assert.Len(t, outOfStock, 1)
	assert.Equal(t, int64(0), outOfStock[0].Stock)
}

func TestListPriceBetween(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &product.Product{Name: "a", Price: 100, Stock: 1}))
	require.NoError(t, repo.Create(ctx, &product.Product{Name: "b", Price: 500, Stock: 1}))
	require.NoError(t, repo.Create(ctx, &product.Product{Name: "c", Price: 1000, Stock: 1}))

	list, err := repo.ListPriceBetween(ctx, 200, 900)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(500), list[0].Price)
}
