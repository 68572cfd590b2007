package product

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Product 商品模型，价格统一 decimal(10,2)
type Product struct {
	ID            int64           `gorm:"primaryKey" json:"id"`
	Name          string          `gorm:"size:100;not null;index" json:"name"`
	Description   string          `gorm:"type:text" json:"description"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	StockQuantity int64           `gorm:"not null;default:0" json:"stock_quantity"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Patch 部分更新：只有非 nil 的字段会覆盖已有值
type Patch struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	StockQuantity *int64           `json:"stock_quantity"`
}

// Filter 列表过滤条件。价格区间直接下推到存储层查询，
// 保证过滤作用于整个结果集而不是分页后的单页。
type Filter struct {
	Name     string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

// Repository 商品仓储接口
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Product, error)
	GetList(ctx context.Context, f Filter, count, page int) ([]*Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, id int64, patch Patch) (*Product, error)
	// UpdateStock 增量调整库存，delta 可以为负
	UpdateStock(ctx context.Context, id int64, delta int64) (*Product, error)
	Delete(ctx context.Context, id int64) (bool, error)
}
