package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/ordermart/internal/datamodels/order"
	"github.com/example/ordermart/internal/datamodels/user"
	"github.com/example/ordermart/internal/domain"
	"github.com/example/ordermart/internal/notify"
)

// OrderService 订单服务：跨实体校验在这里，事务细节在仓储里。
// 下单提交后的事件发布是尽力而为，发布失败不会回滚也不会上抛。
type OrderService struct {
	orderRepo order.Repository
	userRepo  user.Repository
	publisher notify.Publisher
	topic     string
}

// NewOrderService 创建订单服务。publisher 可以为 nil（降级运行）；
// topic 是事件发布的队列名，与消费端共用同一份配置，为空时取默认队列。
func NewOrderService(orderRepo order.Repository, userRepo user.Repository, pub notify.Publisher, topic string) *OrderService {
	if topic == "" {
		topic = notify.TopicOrderCreated
	}
	return &OrderService{orderRepo: orderRepo, userRepo: userRepo, publisher: pub, topic: topic}
}

// Create 下单。先确认用户存在、订单项合法，再交给仓储的原子创建；
// 提交成功后尽力发布 order-created 事件。
func (s *OrderService) Create(ctx context.Context, userID, addressID int64, status string, items []order.ItemInput) (*order.Order, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("user %d: %w", userID, domain.ErrNotFound)
		}
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("order items cannot be empty: %w", domain.ErrInvalidArgument)
	}
	for _, in := range items {
		if in.Quantity <= 0 {
			return nil, fmt.Errorf("quantity for product %d must be > 0: %w",
				in.ProductID, domain.ErrInvalidArgument)
		}
	}

	o, err := s.orderRepo.Create(ctx, userID, addressID, status, items)
	if err != nil {
		return nil, err
	}
	GetMonitor().RecordOrderCreated()

	if s.publisher != nil {
		event := notify.NewOrderCreatedEvent(o.ID, o.UserID, o.Status, o.TotalAmount, o.CreatedAt)
		if err := s.publisher.Publish(ctx, s.topic, event); err != nil {
			GetMonitor().RecordMQError()
			zap.L().Warn("order-created event not published",
				zap.Int64("order_id", o.ID), zap.Error(err))
		}
	}
	return o, nil
}

func (s *OrderService) Get(ctx context.Context, id int64) (*order.Order, error) {
	return s.orderRepo.Get(ctx, id)
}

func (s *OrderService) List(ctx context.Context, count, page int, userID int64) ([]*order.Order, error) {
	return s.orderRepo.List(ctx, count, page, userID)
}

func (s *OrderService) UpdateStatus(ctx context.Context, id int64, status string) (*order.Order, error) {
	if status == "" {
		return nil, fmt.Errorf("status cannot be empty: %w", domain.ErrInvalidArgument)
	}
	return s.orderRepo.UpdateStatus(ctx, id, status)
}

// Delete 取消订单并归还库存；订单不存在时返回 false 而不是错误
func (s *OrderService) Delete(ctx context.Context, id int64) (bool, error) {
	deleted, err := s.orderRepo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		GetMonitor().RecordOrderDeleted()
	}
	return deleted, nil
}
