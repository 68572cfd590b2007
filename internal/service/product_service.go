package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/ordermart/internal/cache"
	"github.com/example/ordermart/internal/datamodels/product"
	"github.com/example/ordermart/internal/domain"
	"github.com/example/ordermart/internal/notify"
)

// ProductService 商品服务：读走旁路缓存，写后失效缓存，
// 创建成功后尽力发布事件。缓存和 MQ 都是非权威副作用，
// 它们的故障只记日志，永远不改变请求结果。
type ProductService struct {
	repo      product.Repository
	cache     cache.Cache
	publisher notify.Publisher
	topic     string
	ttl       time.Duration
}

// NewProductService 创建商品服务。cache 和 publisher 可以为 nil（降级运行）；
// topic 是事件发布的队列名，与消费端共用同一份配置，为空时取默认队列。
func NewProductService(repo product.Repository, c cache.Cache, pub notify.Publisher, topic string, ttl time.Duration) *ProductService {
	if topic == "" {
		topic = notify.TopicProductCreated
	}
	if ttl <= 0 {
		ttl = 600 * time.Second
	}
	return &ProductService{repo: repo, cache: c, publisher: pub, topic: topic, ttl: ttl}
}

func (s *ProductService) cacheKey(id int64) string {
	return fmt.Sprintf("product:%d", id)
}

func (s *ProductService) Create(ctx context.Context, p *product.Product) error {
	if !p.Price.IsPositive() {
		return fmt.Errorf("price must be positive: %w", domain.ErrInvalidArgument)
	}
	if p.StockQuantity < 0 {
		return fmt.Errorf("stock_quantity must be >= 0: %w", domain.ErrInvalidArgument)
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return err
	}

	if s.publisher != nil {
		event := notify.NewProductCreatedEvent(p.ID, p.Name, p.Price, p.CreatedAt)
		if err := s.publisher.Publish(ctx, s.topic, event); err != nil {
			GetMonitor().RecordMQError()
			zap.L().Warn("product-created event not published",
				zap.Int64("product_id", p.ID), zap.Error(err))
		}
	}
	return nil
}

// Get 读穿缓存：先查 product:<id>，命中直接返回；损坏的缓存条目
// 尽力删除后回源；未命中或缓存不可用则回源并尽力回填。
func (s *ProductService) Get(ctx context.Context, id int64) (*product.Product, error) {
	key := s.cacheKey(id)

	if s.cache != nil {
		stored, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			var p product.Product
			if jsonErr := json.Unmarshal([]byte(stored), &p); jsonErr == nil {
				GetMonitor().RecordCacheHit()
				return &p, nil
			}
			// 缓存损坏：删掉坏条目，继续回源
			zap.L().Warn("corrupted cache entry dropped", zap.String("key", key))
			if _, delErr := s.cache.Delete(ctx, key); delErr != nil {
				zap.L().Warn("failed to drop corrupted cache entry",
					zap.String("key", key), zap.Error(delErr))
			}
			GetMonitor().RecordCacheError()
		case errors.Is(err, domain.ErrNotFound):
			GetMonitor().RecordCacheMiss()
		default:
			GetMonitor().RecordCacheError()
			zap.L().Warn("cache unavailable, falling back to store",
				zap.String("key", key), zap.Error(err))
		}
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, jsonErr := json.Marshal(p); jsonErr == nil {
			if setErr := s.cache.SetWithTTL(ctx, key, string(data), s.ttl); setErr != nil {
				GetMonitor().RecordCacheError()
				zap.L().Warn("cache write skipped",
					zap.String("key", key), zap.Error(setErr))
			}
		}
	}
	return p, nil
}

func (s *ProductService) List(ctx context.Context, f product.Filter, count, page int) ([]*product.Product, error) {
	return s.repo.GetList(ctx, f, count, page)
}

// Update 先写库再失效缓存。只删不改：避免把半应用的补丁写进缓存。
func (s *ProductService) Update(ctx context.Context, id int64, patch product.Patch) (*product.Product, error) {
	if patch.Price != nil && !patch.Price.IsPositive() {
		return nil, fmt.Errorf("price must be positive: %w", domain.ErrInvalidArgument)
	}

	p, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, s.cacheKey(id))
	return p, nil
}

// Delete 先失效缓存再删库，避免并发读把即将消失的行重新写回缓存
func (s *ProductService) Delete(ctx context.Context, id int64) (bool, error) {
	s.invalidate(ctx, s.cacheKey(id))
	return s.repo.Delete(ctx, id)
}

// UpdateStock 纯透传。库存变更与缓存过期之间存在已知的
// 短暂不一致窗口（最长 ttl），由监控观察。
func (s *ProductService) UpdateStock(ctx context.Context, id int64, delta int64) (*product.Product, error) {
	return s.repo.UpdateStock(ctx, id, delta)
}

func (s *ProductService) invalidate(ctx context.Context, key string) {
	if s.cache == nil {
		return
	}
	GetMonitor().RecordCacheInvalidation()
	if _, err := s.cache.Delete(ctx, key); err != nil {
		GetMonitor().RecordCacheError()
		zap.L().Warn("cache invalidation skipped",
			zap.String("key", key), zap.Error(err))
	}
}
