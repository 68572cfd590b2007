package cache

import (
	"context"
	"time"
)

// Cache 旁路缓存端口。值是实体公开字段的 JSON 快照。
// 后端不可用时实现返回 domain.ErrUnavailable，调用方必须把它
// 当作未命中降级处理，绝不能让缓存故障影响请求结果。
type Cache interface {
	// Get 读取键值；键不存在返回 domain.ErrNotFound
	Get(ctx context.Context, key string) (string, error)
	// SetWithTTL 写入键值并设置过期时间
	SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error
	// Delete 删除键，返回实际删除的数量
	Delete(ctx context.Context, key string) (int, error)
}
