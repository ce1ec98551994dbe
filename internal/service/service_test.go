package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/example/shopbackend/internal/datamodels/order"
	"github.com/example/shopbackend/internal/datamodels/product"
	"github.com/example/shopbackend/internal/repository/mysql"
)

// newTestDB 每个测试一个独立的 SQLite 文件库
// 限制单连接，使并发事务按顺序执行，行为与 MySQL 行锁一致。
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&product.Product{}, &order.Order{}, &order.OrderItem{}))
	return db
}

func createProduct(t *testing.T, db *gorm.DB, name string, price, stock int64) *product.Product {
	t.Helper()
	p := &product.Product{Name: name, Price: price, Stock: stock}
	require.NoError(t, mysql.NewProductRepository(db).Create(context.Background(), p))
	return p
}

func currentStock(t *testing.T, db *gorm.DB, id int64) int64 {
	t.Helper()
	p, err := mysql.NewProductRepository(db).GetByID(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}
