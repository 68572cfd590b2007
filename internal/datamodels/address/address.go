package address

import (
	"context"
	"time"
)

// Address 收货地址模型，随用户级联删除
type Address struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"index;not null" json:"user_id"`
	Street    string    `gorm:"size:200;not null" json:"street"`
	City      string    `gorm:"size:100;not null" json:"city"`
	State     string    `gorm:"size:100" json:"state"`
	ZipCode   string    `gorm:"size:20" json:"zip_code"`
	Country   string    `gorm:"size:100;not null" json:"country"`
	IsPrimary bool      `json:"is_primary"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Repository 地址仓储接口
type Repository interface {
	Create(ctx context.Context, a *Address) error
	GetByID(ctx context.Context, id int64) (*Address, error)
	ListByUser(ctx context.Context, userID int64) ([]*Address, error)
}
