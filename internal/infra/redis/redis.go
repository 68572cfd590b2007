package redis

import (
	"time"

	radix "github.com/mediocregopher/radix/v3"

	"github.com/example/ordermart/internal/config"
)

// New 创建 Redis 连接池。连接和读写超时收得很短：缓存不可用时
// 调用方按降级处理，不应拖慢请求。
func New(cfg *config.RedisConfig) (radix.Client, error) {
	size := cfg.PoolSize
	if size <= 0 {
		size = 10
	}

	connFunc := func(network, addr string) (radix.Conn, error) {
		return radix.Dial(network, addr,
			radix.DialConnectTimeout(2*time.Second),
			radix.DialReadTimeout(2*time.Second),
			radix.DialWriteTimeout(2*time.Second),
		)
	}

	return radix.NewPool("tcp", cfg.Addr, size, radix.PoolConnFunc(connFunc))
}
