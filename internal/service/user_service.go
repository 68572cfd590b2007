package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/ordermart/internal/cache"
	"github.com/example/ordermart/internal/datamodels/address"
	"github.com/example/ordermart/internal/datamodels/user"
	"github.com/example/ordermart/internal/domain"
)

// UserService 用户服务，缓存策略与商品服务同构（user:<id>，更长的 TTL）
type UserService struct {
	repo        user.Repository
	addressRepo address.Repository
	cache       cache.Cache
	ttl         time.Duration
}

// NewUserService 创建用户服务。cache 可以为 nil（降级运行）。
func NewUserService(repo user.Repository, addressRepo address.Repository, c cache.Cache, ttl time.Duration) *UserService {
	if ttl <= 0 {
		ttl = 3600 * time.Second
	}
	return &UserService{repo: repo, addressRepo: addressRepo, cache: c, ttl: ttl}
}

func (s *UserService) cacheKey(id int64) string {
	return fmt.Sprintf("user:%d", id)
}

func validateEmail(email string) error {
	if !strings.Contains(email, "@") {
		return fmt.Errorf("invalid email address: %w", domain.ErrInvalidArgument)
	}
	return nil
}

func (s *UserService) Create(ctx context.Context, u *user.User) error {
	if u.Username == "" {
		return fmt.Errorf("username cannot be empty: %w", domain.ErrInvalidArgument)
	}
	if err := validateEmail(u.Email); err != nil {
		return err
	}
	return s.repo.Create(ctx, u)
}

// GetByID 读穿缓存，逻辑与商品读路径一致
func (s *UserService) GetByID(ctx context.Context, id int64) (*user.User, error) {
	key := s.cacheKey(id)

	if s.cache != nil {
		stored, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			var u user.User
			if jsonErr := json.Unmarshal([]byte(stored), &u); jsonErr == nil {
				GetMonitor().RecordCacheHit()
				return &u, nil
			}
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

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, jsonErr := json.Marshal(u); jsonErr == nil {
			if setErr := s.cache.SetWithTTL(ctx, key, string(data), s.ttl); setErr != nil {
				GetMonitor().RecordCacheError()
				zap.L().Warn("cache write skipped",
					zap.String("key", key), zap.Error(setErr))
			}
		}
	}
	return u, nil
}

func (s *UserService) GetByFilter(ctx context.Context, f user.Filter, count, page int) ([]*user.User, error) {
	return s.repo.GetByFilter(ctx, f, count, page)
}

// Update 先写库再失效缓存
func (s *UserService) Update(ctx context.Context, id int64, p user.Patch) (*user.User, error) {
	if p.Email != nil {
		if err := validateEmail(*p.Email); err != nil {
			return nil, err
		}
	}
	u, err := s.repo.Update(ctx, id, p)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, s.cacheKey(id))
	return u, nil
}

// Delete 先失效缓存再删库
func (s *UserService) Delete(ctx context.Context, id int64) (bool, error) {
	s.invalidate(ctx, s.cacheKey(id))
	return s.repo.Delete(ctx, id)
}

// CreateAddress 为已存在的用户新增地址
func (s *UserService) CreateAddress(ctx context.Context, a *address.Address) error {
	if _, err := s.repo.GetByID(ctx, a.UserID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("user %d: %w", a.UserID, domain.ErrNotFound)
		}
		return err
	}
	return s.addressRepo.Create(ctx, a)
}

// ListAddresses 列出用户的全部地址
func (s *UserService) ListAddresses(ctx context.Context, userID int64) ([]*address.Address, error) {
	return s.addressRepo.ListByUser(ctx, userID)
}

func (s *UserService) invalidate(ctx context.Context, key string) {
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
