package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/ordermart/internal/datamodels/product"
	"github.com/example/ordermart/internal/domain"
	"github.com/example/ordermart/internal/notify"
)

func newProductFixture(t *testing.T) (*ProductService, *fakeProductRepo, *fakeCache, *fakePublisher, *opLog) {
	t.Helper()
	GetMonitor().Reset()
	log := &opLog{}
	repo := newFakeProductRepo(log)
	c := newFakeCache(log)
	pub := &fakePublisher{log: log}
	svc := NewProductService(repo, c, pub, "", 600*time.Second)
	return svc, repo, c, pub, log
}

func seedFakeProduct(t *testing.T, repo *fakeProductRepo, name, price string, stock int64) *product.Product {
	t.Helper()
	p := &product.Product{
		Name:          name,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func TestProductGetFillsCacheThenHits(t *testing.T) {
	svc, repo, c, _, _ := newProductFixture(t)
	ctx := context.Background()
	seeded := seedFakeProduct(t, repo, "keyboard", "59.90", 5)

	got, err := svc.Get(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "keyboard", got.Name)
	assert.Equal(t, 1, repo.getCalls)
	assert.Contains(t, c.data, "product:1")

	// 第二次读命中缓存，不再回源
	got, err = svc.Get(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "keyboard", got.Name)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("59.90")))
	assert.Equal(t, 1, repo.getCalls)
	assert.Equal(t, int64(1), GetMonitor().CacheHits)
	assert.Equal(t, int64(1), GetMonitor().CacheMisses)
}

func TestProductGetCorruptedEntryDroppedAndRefilled(t *testing.T) {
	svc, repo, c, _, _ := newProductFixture(t)
	ctx := context.Background()
	seeded := seedFakeProduct(t, repo, "mouse", "19.99", 5)

	c.data["product:1"] = "{not json"

	got, err := svc.Get(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "mouse", got.Name)
	assert.Equal(t, 1, repo.getCalls)

	// 坏条目被换成回填的合法 JSON
	var refilled product.Product
	require.NoError(t, json.Unmarshal([]byte(c.data["product:1"]), &refilled))
	assert.Equal(t, "mouse", refilled.Name)
}

func TestProductGetCacheUnavailableFallsBack(t *testing.T) {
	svc, repo, c, _, _ := newProductFixture(t)
	ctx := context.Background()
	seeded := seedFakeProduct(t, repo, "monitor", "249.00", 2)
	c.failAll = true

	got, err := svc.Get(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "monitor", got.Name)
	assert.Equal(t, 1, repo.getCalls)
	// 缓存读写各记一次故障
	assert.Equal(t, int64(2), GetMonitor().CacheErrors)
}

func TestProductGetMissingReturnsNotFound(t *testing.T) {
	svc, _, _, _, _ := newProductFixture(t)
	_, err := svc.Get(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductUpdateInvalidatesCache(t *testing.T) {
	svc, repo, c, _, log := newProductFixture(t)
	ctx := context.Background()
	seeded := seedFakeProduct(t, repo, "desk", "120.00", 3)

	_, err := svc.Get(ctx, seeded.ID)
	require.NoError(t, err)
	require.Contains(t, c.data, "product:1")

	newName := "standing desk"
	updated, err := svc.Update(ctx, seeded.ID, product.Patch{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "standing desk", updated.Name)

	// 写库之后缓存键必须消失，下一次读回源
	assert.NotContains(t, c.data, "product:1")
	assert.Equal(t, []string{"repo.update 1", "cache.delete product:1"}, log.ops[len(log.ops)-2:])
	assert.Equal(t, int64(1), GetMonitor().CacheInvalidations)
}

func TestProductUpdateRejectsNonPositivePrice(t *testing.T) {
	svc, repo, _, _, _ := newProductFixture(t)
	seeded := seedFakeProduct(t, repo, "desk", "120.00", 3)

	zero := decimal.Zero
	_, err := svc.Update(context.Background(), seeded.ID, product.Patch{Price: &zero})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestProductDeleteInvalidatesBeforeStore(t *testing.T) {
	svc, repo, c, _, log := newProductFixture(t)
	ctx := context.Background()
	seeded := seedFakeProduct(t, repo, "lamp", "35.00", 1)

	_, err := svc.Get(ctx, seeded.ID)
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, seeded.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.NotContains(t, c.data, "product:1")
	assert.Equal(t, []string{"cache.delete product:1", "repo.delete 1"}, log.ops[len(log.ops)-2:])
}

func TestProductCreatePublishesEvent(t *testing.T) {
	svc, _, _, pub, _ := newProductFixture(t)

	p := &product.Product{
		Name:          "webcam",
		Price:         decimal.RequireFromString("89.5"),
		StockQuantity: 10,
	}
	require.NoError(t, svc.Create(context.Background(), p))

	require.Len(t, pub.published, 1)
	assert.Equal(t, notify.TopicProductCreated, pub.published[0].topic)
	event, ok := pub.published[0].event.(notify.ProductCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, p.ID, event.ProductID)
	assert.Equal(t, "webcam", event.Name)
	assert.Equal(t, "89.50", event.Price)
}

func TestProductCreatePublishesToConfiguredQueue(t *testing.T) {
	GetMonitor().Reset()
	log := &opLog{}
	repo := newFakeProductRepo(log)
	pub := &fakePublisher{log: log}
	// 队列名来自配置，发布端和消费端必须落在同一个队列
	svc := NewProductService(repo, nil, pub, "products-staging", 0)

	p := &product.Product{
		Name:          "webcam",
		Price:         decimal.RequireFromString("89.50"),
		StockQuantity: 10,
	}
	require.NoError(t, svc.Create(context.Background(), p))

	require.Len(t, pub.published, 1)
	assert.Equal(t, "products-staging", pub.published[0].topic)
}

func TestProductCreatePublishFailureSwallowed(t *testing.T) {
	svc, repo, _, pub, _ := newProductFixture(t)
	pub.err = errors.New("broker unreachable")

	p := &product.Product{
		Name:          "webcam",
		Price:         decimal.RequireFromString("89.50"),
		StockQuantity: 10,
	}
	require.NoError(t, svc.Create(context.Background(), p))

	// 商品已经落库，发布失败只计入监控
	assert.Contains(t, repo.products, p.ID)
	assert.Equal(t, int64(1), GetMonitor().MQErrors)
}

func TestProductCreateValidation(t *testing.T) {
	svc, repo, _, _, _ := newProductFixture(t)
	ctx := context.Background()

	err := svc.Create(ctx, &product.Product{Name: "free", Price: decimal.Zero, StockQuantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	err = svc.Create(ctx, &product.Product{
		Name:          "ghost",
		Price:         decimal.RequireFromString("1.00"),
		StockQuantity: -1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.Empty(t, repo.products)
}

func TestProductServiceRunsWithoutCacheAndPublisher(t *testing.T) {
	GetMonitor().Reset()
	log := &opLog{}
	repo := newFakeProductRepo(log)
	svc := NewProductService(repo, nil, nil, "", 0)
	ctx := context.Background()

	p := &product.Product{Name: "cable", Price: decimal.RequireFromString("4.99"), StockQuantity: 100}
	require.NoError(t, svc.Create(ctx, p))

	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "cable", got.Name)

	deleted, err := svc.Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
}
