package mysql

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/example/ordermart/internal/datamodels/order"
	"github.com/example/ordermart/internal/datamodels/product"
	"github.com/example/ordermart/internal/domain"
)

type orderRepo struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) order.Repository {
	return &orderRepo{db: db}
}

// Create 在单个事务里完成下单：逐行锁定商品（FOR UPDATE）、校验库存、
// 写入价格快照订单行、扣减库存、累计总价。任何一行失败整单回滚。
func (r *orderRepo) Create(ctx context.Context, userID, addressID int64, status string, items []order.ItemInput) (*order.Order, error) {
	if status == "" {
		status = order.StatusPending
	}

	var orderID int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o := order.Order{
			UserID:      userID,
			AddressID:   addressID,
			Status:      status,
			TotalAmount: decimal.Zero,
		}
		if err := tx.Create(&o).Error; err != nil {
			return err
		}

		total := decimal.Zero
		for _, in := range items {
			// 先锁行再校验库存，并发下单同一商品时不会超卖
			var p product.Product
			if err := lockForUpdate(tx).
				First(&p, in.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("product %d: %w", in.ProductID, domain.ErrNotFound)
				}
				return err
			}
			if p.StockQuantity < in.Quantity {
				return &domain.InsufficientStockError{
					ProductID: p.ID,
					Requested: in.Quantity,
					Available: p.StockQuantity,
				}
			}

			itemTotal := p.Price.Mul(decimal.NewFromInt(in.Quantity))
			item := order.OrderItem{
				OrderID:         o.ID,
				ProductID:       p.ID,
				Quantity:        in.Quantity,
				PriceAtPurchase: p.Price,
				TotalPrice:      itemTotal,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}

			p.StockQuantity -= in.Quantity
			if err := tx.Save(&p).Error; err != nil {
				return err
			}
			total = total.Add(itemTotal)
		}

		if err := tx.Model(&order.Order{}).
			Where("id = ?", o.ID).
			Update("total_amount", total).Error; err != nil {
			return err
		}
		orderID = o.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, orderID)
}

func (r *orderRepo) Get(ctx context.Context, id int64) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).
		Preload("Items.Product").
		First(&o, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) List(ctx context.Context, count, page int, userID int64) ([]*order.Order, error) {
	query := r.db.WithContext(ctx).Preload("Items.Product")
	if userID > 0 {
		query = query.Where("user_id = ?", userID)
	}

	var list []*order.Order
	if err := query.
		Order("id").
		Offset((page - 1) * count).
		Limit(count).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id int64, status string) (*order.Order, error) {
	res := r.db.WithContext(ctx).
		Model(&order.Order{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrNotFound
	}
	return r.Get(ctx, id)
}

// Delete 取消订单：把每个订单行的数量加回对应商品库存，
// 再删除订单与订单行。整个补偿-删除序列在一个事务内，
// 中途崩溃不会留下错误的库存计数。
func (r *orderRepo) Delete(ctx context.Context, id int64) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o order.Order
		if err := tx.Preload("Items").First(&o, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		for _, it := range o.Items {
			var p product.Product
			err := lockForUpdate(tx).First(&p, it.ProductID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			p.StockQuantity += it.Quantity
			if err := tx.Save(&p).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("order_id = ?", id).Delete(&order.OrderItem{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&order.Order{}, id).Error; err != nil {
			return err
		}
		deleted = true
		return nil
	})
	return deleted, err
}
