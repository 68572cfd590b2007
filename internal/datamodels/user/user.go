package user

import (
	"context"
	"time"
)

// User 用户模型
type User struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Username    string    `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email       string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Description string    `gorm:"size:300" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Patch 部分更新：只有非 nil 的字段会覆盖已有值
type Patch struct {
	Username    *string `json:"username"`
	Email       *string `json:"email"`
	Description *string `json:"description"`
}

// Filter 等值过滤条件，空字符串表示不过滤
type Filter struct {
	Username string
	Email    string
}

// Repository 用户仓储接口
type Repository interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByFilter(ctx context.Context, f Filter, count, page int) ([]*User, error)
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, id int64, p Patch) (*User, error)
	Delete(ctx context.Context, id int64) (bool, error)
}
