package domain

import (
	"errors"
	"fmt"
)

// 业务错误在仓储/服务层产生，由控制器统一映射为 HTTP 状态码。
var (
	// ErrNotFound 引用的实体不存在
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument 参数不合法（空订单项、非法邮箱等）
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnavailable 基础设施（缓存/消息通道）不可用，只允许在服务层内部出现
	ErrUnavailable = errors.New("unavailable")
)

// ConflictError 唯一约束冲突或删除被已有引用阻止
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}

// InsufficientStockError 下单数量超过可用库存
type InsufficientStockError struct {
	ProductID int64
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// IsConflict 判断是否为冲突类错误
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// IsInsufficientStock 判断是否为库存不足错误
func IsInsufficientStock(err error) bool {
	var se *InsufficientStockError
	return errors.As(err, &se)
}
