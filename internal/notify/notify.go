package notify

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// 默认事件队列名，可被 rabbitmq.* 配置覆盖
const (
	TopicOrderCreated   = "order"
	TopicProductCreated = "products"
)

// OrderCreatedEvent 订单创建事件。金额序列化为字符串，时间为 RFC 3339。
type OrderCreatedEvent struct {
	OrderID     int64  `json:"order_id"`
	UserID      int64  `json:"user_id"`
	Status      string `json:"status"`
	TotalAmount string `json:"total_amount"`
	CreatedAt   string `json:"created_at"`
}

// NewOrderCreatedEvent 组装订单创建事件
func NewOrderCreatedEvent(orderID, userID int64, status string, totalAmount decimal.Decimal, createdAt time.Time) OrderCreatedEvent {
	return OrderCreatedEvent{
		OrderID:     orderID,
		UserID:      userID,
		Status:      status,
		TotalAmount: totalAmount.StringFixed(2),
		CreatedAt:   createdAt.Format(time.RFC3339),
	}
}

// ProductCreatedEvent 商品创建事件
type ProductCreatedEvent struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	CreatedAt string `json:"created_at"`
}

// NewProductCreatedEvent 组装商品创建事件
func NewProductCreatedEvent(productID int64, name string, price decimal.Decimal, createdAt time.Time) ProductCreatedEvent {
	return ProductCreatedEvent{
		ProductID: productID,
		Name:      name,
		Price:     price.StringFixed(2),
		CreatedAt: createdAt.Format(time.RFC3339),
	}
}

// Publisher 通知端口：向指定队列发布一条事件，单次尝试、不重试、
// 不等待投递确认。失败由调用方记日志后吞掉，主流程不受影响。
type Publisher interface {
	Publish(ctx context.Context, topic string, message interface{}) error
}
