package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/example/ordermart/internal/datamodels/product"
)

// StatusPending 新订单默认状态。状态是开放的字符串标签而非封闭枚举。
const StatusPending = "pending"

// Order 订单模型，独占其订单项（随订单级联删除）
type Order struct {
	ID          int64           `gorm:"primaryKey" json:"id"`
	UserID      int64           `gorm:"index;not null" json:"user_id"`
	AddressID   int64           `gorm:"not null" json:"address_id"`
	Status      string          `gorm:"size:50;not null;default:pending" json:"status"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Items       []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
}

// OrderItem 订单行。PriceAtPurchase 是下单瞬间的价格快照，写入后不再变化。
type OrderItem struct {
	ID              int64            `gorm:"primaryKey" json:"id"`
	OrderID         int64            `gorm:"index;not null" json:"order_id"`
	ProductID       int64            `gorm:"index;not null" json:"product_id"`
	Quantity        int64            `gorm:"not null;default:1" json:"quantity"`
	PriceAtPurchase decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"price_at_purchase"`
	TotalPrice      decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"total_price"`
	Product         *product.Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// ItemInput 下单时的订单行输入
type ItemInput struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

// Repository 订单仓储接口。Create/Delete 是事务性的：
// 库存调整与订单行写入要么全部落库要么全部回滚。
type Repository interface {
	Create(ctx context.Context, userID, addressID int64, status string, items []ItemInput) (*Order, error)
	Get(ctx context.Context, id int64) (*Order, error)
	// List 分页查询，userID 为 0 时不过滤；订单项与商品都预加载
	List(ctx context.Context, count, page int, userID int64) ([]*Order, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*Order, error)
	// Delete 返回是否真的删除了订单；不存在时返回 false 而不是错误
	Delete(ctx context.Context, id int64) (bool, error)
}
