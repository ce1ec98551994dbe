package mysql

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/example/shopbackend/internal/datamodels/order"
	"github.com/example/shopbackend/internal/datamodels/product"
)

// newTestDB 每个测试一个独立的 SQLite 文件库，表结构与生产一致
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
