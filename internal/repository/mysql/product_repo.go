package mysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/example/ordermart/internal/datamodels/order"
	"github.com/example/ordermart/internal/datamodels/product"
	"github.com/example/ordermart/internal/domain"
)

type productRepo struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓储
func NewProductRepository(db *gorm.DB) product.Repository {
	return &productRepo{db: db}
}

func (r *productRepo) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	var p product.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetList 分页查询。名称等值过滤与价格区间都下推到 SQL，
// 分页结果就是过滤后的结果页。
func (r *productRepo) GetList(ctx context.Context, f product.Filter, count, page int) ([]*product.Product, error) {
	query := r.db.WithContext(ctx).Model(&product.Product{})
	if f.Name != "" {
		query = query.Where("name = ?", f.Name)
	}
	if f.MinPrice != nil {
		query = query.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		query = query.Where("price <= ?", *f.MaxPrice)
	}

	var list []*product.Product
	if err := query.
		Order("id").
		Offset((page - 1) * count).
		Limit(count).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *productRepo) Create(ctx context.Context, p *product.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) Update(ctx context.Context, id int64, patch product.Patch) (*product.Product, error) {
	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Price != nil {
		updates["price"] = *patch.Price
	}
	if patch.StockQuantity != nil {
		updates["stock_quantity"] = *patch.StockQuantity
	}

	var p product.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&p, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&p).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&p, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateStock 在行锁保护下做增量调整，保证库存在任何已提交状态下不为负
func (r *productRepo) UpdateStock(ctx context.Context, id int64, delta int64) (*product.Product, error) {
	var p product.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&p, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		next := p.StockQuantity + delta
		if next < 0 {
			return &domain.InsufficientStockError{
				ProductID: p.ID,
				Requested: -delta,
				Available: p.StockQuantity,
			}
		}
		p.StockQuantity = next
		return tx.Save(&p).Error
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Delete 删除商品。被任何订单项引用过的商品不可删除，只能把库存清零。
func (r *productRepo) Delete(ctx context.Context, id int64) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p product.Product
		if err := tx.First(&p, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		var refs int64
		if err := tx.Model(&order.OrderItem{}).
			Where("product_id = ?", id).
			Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return &domain.ConflictError{
				Reason: fmt.Sprintf("cannot delete product %d: it has %d order items", id, refs),
			}
		}

		if err := tx.Delete(&product.Product{}, id).Error; err != nil {
			return err
		}
		deleted = true
		return nil
	})
	return deleted, err
}
