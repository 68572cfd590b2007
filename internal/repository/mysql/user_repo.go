package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/example/ordermart/internal/datamodels/address"
	"github.com/example/ordermart/internal/datamodels/user"
	"github.com/example/ordermart/internal/domain"
)

type userRepo struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储
func NewUserRepository(db *gorm.DB) user.Repository {
	return &userRepo{db: db}
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	var u user.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) GetByFilter(ctx context.Context, f user.Filter, count, page int) ([]*user.User, error) {
	query := r.db.WithContext(ctx).Model(&user.User{})
	if f.Username != "" {
		query = query.Where("username = ?", f.Username)
	}
	if f.Email != "" {
		query = query.Where("email = ?", f.Email)
	}

	var list []*user.User
	if err := query.
		Order("id").
		Offset((page - 1) * count).
		Limit(count).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *userRepo) Create(ctx context.Context, u *user.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if isDuplicate(err) {
			return &domain.ConflictError{Reason: "username or email already exists"}
		}
		return err
	}
	return nil
}

func (r *userRepo) Update(ctx context.Context, id int64, p user.Patch) (*user.User, error) {
	updates := map[string]interface{}{}
	if p.Username != nil {
		updates["username"] = *p.Username
	}
	if p.Email != nil {
		updates["email"] = *p.Email
	}
	if p.Description != nil {
		updates["description"] = *p.Description
	}

	var u user.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&u, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&u).Updates(updates).Error; err != nil {
			if isDuplicate(err) {
				return &domain.ConflictError{Reason: "username or email already exists"}
			}
			return err
		}
		return tx.First(&u, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Delete 删除用户并级联删除其全部地址，二者在同一事务中完成
func (r *userRepo) Delete(ctx context.Context, id int64) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&user.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		deleted = true
		return tx.Where("user_id = ?", id).Delete(&address.Address{}).Error
	})
	return deleted, err
}
