package service

import (
	"sync"
	"time"
)

// Monitor 进程内运行统计，重点观察降级路径（缓存/MQ 故障）的频率
type Monitor struct {
	mu sync.RWMutex

	// 缓存统计
	CacheHits          int64
	CacheMisses        int64
	CacheErrors        int64
	CacheInvalidations int64

	// 降级统计
	MQErrors int64

	// 业务统计
	OrdersCreated int64
	OrdersDeleted int64

	LastCacheError time.Time
	LastMQError    time.Time
}

var globalMonitor = &Monitor{}

// GetMonitor 获取全局监控实例
func GetMonitor() *Monitor {
	return globalMonitor
}

// RecordCacheHit 记录缓存命中
func (m *Monitor) RecordCacheHit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}

// RecordCacheMiss 记录缓存未命中
func (m *Monitor) RecordCacheMiss() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}

// RecordCacheError 记录缓存故障（按未命中降级）
func (m *Monitor) RecordCacheError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheErrors++
	m.LastCacheError = time.Now()
}

// RecordCacheInvalidation 记录缓存失效操作
func (m *Monitor) RecordCacheInvalidation() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheInvalidations++
}

// RecordMQError 记录通知发布失败
func (m *Monitor) RecordMQError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MQErrors++
	m.LastMQError = time.Now()
}

// RecordOrderCreated 记录下单成功
func (m *Monitor) RecordOrderCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OrdersCreated++
}

// RecordOrderDeleted 记录订单取消
func (m *Monitor) RecordOrderDeleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OrdersDeleted++
}

// GetStats 获取统计信息
func (m *Monitor) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hitRate := float64(0)
	lookups := m.CacheHits + m.CacheMisses
	if lookups > 0 {
		hitRate = float64(m.CacheHits) / float64(lookups) * 100
	}

	return map[string]interface{}{
		"cache": map[string]interface{}{
			"hits":          m.CacheHits,
			"misses":        m.CacheMisses,
			"errors":        m.CacheErrors,
			"invalidations": m.CacheInvalidations,
			"hit_rate":      hitRate,
		},
		"degraded": map[string]interface{}{
			"mq_errors":        m.MQErrors,
			"last_cache_error": m.LastCacheError,
			"last_mq_error":    m.LastMQError,
		},
		"orders": map[string]interface{}{
			"created": m.OrdersCreated,
			"deleted": m.OrdersDeleted,
		},
	}
}

// Reset 重置统计（用于测试）
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits = 0
	m.CacheMisses = 0
	m.CacheErrors = 0
	m.CacheInvalidations = 0
	m.MQErrors = 0
	m.OrdersCreated = 0
	m.OrdersDeleted = 0
}
