package mysql

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/ordermart/internal/config"
	"github.com/example/ordermart/internal/datamodels/address"
	"github.com/example/ordermart/internal/datamodels/order"
	"github.com/example/ordermart/internal/datamodels/product"
	"github.com/example/ordermart/internal/datamodels/user"
)

// Init 建立 GORM 连接并迁移表结构。连接在 main 中创建并注入，
// 不再使用包级单例。
func Init(cfg *config.MySQLConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}
	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return db, nil
}

// AutoMigrate 迁移全部业务表，测试里可对其它方言复用
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.User{},
		&address.Address{},
		&product.Product{},
		&order.Order{},
		&order.OrderItem{},
	)
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// 测试用的 SQLite 方言不做错误翻译
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// lockForUpdate 在支持的方言上加 FOR UPDATE 行锁。
// SQLite（测试方言）是单写者且不支持该语法，直接跳过。
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
