package mysql

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/example/ordermart/internal/datamodels/product"
	"github.com/example/ordermart/internal/datamodels/user"
)

// newTestDB 每个测试一个独立的内存库。SQLite 内存库跟着连接走，
// 所以把连接池收到一条连接。
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, AutoMigrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username, email string) *user.User {
	t.Helper()
	u := &user.User{Username: username, Email: email}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedProduct(t *testing.T, db *gorm.DB, name, price string, stock int64) *product.Product {
	t.Helper()
	p := &product.Product{
		Name:          name,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}
