package service

import (
	"context"
	"fmt"
	"time"

	"github.com/example/ordermart/internal/datamodels/address"
	"github.com/example/ordermart/internal/datamodels/order"
	"github.com/example/ordermart/internal/datamodels/product"
	"github.com/example/ordermart/internal/datamodels/user"
	"github.com/example/ordermart/internal/domain"
)

// opLog 记录跨协作者的调用顺序，用来断言"先失效缓存再写库"这类时序
type opLog struct {
	ops []string
}

func (l *opLog) record(op string) {
	l.ops = append(l.ops, op)
}

type fakeCache struct {
	log     *opLog
	data    map[string]string
	failAll bool
}

func newFakeCache(log *opLog) *fakeCache {
	return &fakeCache{log: log, data: map[string]string{}}
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	c.log.record("cache.get " + key)
	if c.failAll {
		return "", fmt.Errorf("cache down: %w", domain.ErrUnavailable)
	}
	v, ok := c.data[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return v, nil
}

func (c *fakeCache) SetWithTTL(_ context.Context, key, value string, _ time.Duration) error {
	c.log.record("cache.set " + key)
	if c.failAll {
		return fmt.Errorf("cache down: %w", domain.ErrUnavailable)
	}
	c.data[key] = value
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) (int, error) {
	c.log.record("cache.delete " + key)
	if c.failAll {
		return 0, fmt.Errorf("cache down: %w", domain.ErrUnavailable)
	}
	if _, ok := c.data[key]; !ok {
		return 0, nil
	}
	delete(c.data, key)
	return 1, nil
}

type published struct {
	topic string
	event interface{}
}

type fakePublisher struct {
	log       *opLog
	published []published
	err       error
}

func (p *fakePublisher) Publish(_ context.Context, topic string, message interface{}) error {
	p.log.record("publish " + topic)
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, published{topic: topic, event: message})
	return nil
}

type fakeProductRepo struct {
	log      *opLog
	products map[int64]*product.Product
	nextID   int64
	getCalls int
}

func newFakeProductRepo(log *opLog) *fakeProductRepo {
	return &fakeProductRepo{log: log, products: map[int64]*product.Product{}, nextID: 1}
}

func (r *fakeProductRepo) GetByID(_ context.Context, id int64) (*product.Product, error) {
	r.log.record(fmt.Sprintf("repo.get %d", id))
	r.getCalls++
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) GetList(_ context.Context, _ product.Filter, _, _ int) ([]*product.Product, error) {
	out := make([]*product.Product, 0, len(r.products))
	for _, p := range r.products {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeProductRepo) Create(_ context.Context, p *product.Product) error {
	r.log.record("repo.create")
	p.ID = r.nextID
	r.nextID++
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) Update(_ context.Context, id int64, patch product.Patch) (*product.Product, error) {
	r.log.record(fmt.Sprintf("repo.update %d", id))
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.StockQuantity != nil {
		p.StockQuantity = *patch.StockQuantity
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) UpdateStock(_ context.Context, id int64, delta int64) (*product.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p.StockQuantity += delta
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id int64) (bool, error) {
	r.log.record(fmt.Sprintf("repo.delete %d", id))
	if _, ok := r.products[id]; !ok {
		return false, nil
	}
	delete(r.products, id)
	return true, nil
}

type fakeUserRepo struct {
	users  map[int64]*user.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*user.User{}, nextID: 1}
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByFilter(_ context.Context, _ user.Filter, _, _ int) ([]*user.User, error) {
	out := make([]*user.User, 0, len(r.users))
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	for _, existing := range r.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return &domain.ConflictError{Reason: "username or email already exists"}
		}
	}
	u.ID = r.nextID
	r.nextID++
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, id int64, p user.Patch) (*user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Description != nil {
		u.Description = *p.Description
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := r.users[id]; !ok {
		return false, nil
	}
	delete(r.users, id)
	return true, nil
}

type fakeAddressRepo struct {
	addresses []*address.Address
	nextID    int64
}

func (r *fakeAddressRepo) Create(_ context.Context, a *address.Address) error {
	r.nextID++
	a.ID = r.nextID
	cp := *a
	r.addresses = append(r.addresses, &cp)
	return nil
}

func (r *fakeAddressRepo) GetByID(_ context.Context, id int64) (*address.Address, error) {
	for _, a := range r.addresses {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeAddressRepo) ListByUser(_ context.Context, userID int64) ([]*address.Address, error) {
	var out []*address.Address
	for _, a := range r.addresses {
		if a.UserID == userID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeOrderRepo struct {
	orders  map[int64]*order.Order
	nextID  int64
	lastErr error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[int64]*order.Order{}, nextID: 1}
}

func (r *fakeOrderRepo) Create(_ context.Context, userID, addressID int64, status string, items []order.ItemInput) (*order.Order, error) {
	if r.lastErr != nil {
		return nil, r.lastErr
	}
	if status == "" {
		status = order.StatusPending
	}
	o := &order.Order{
		ID:        r.nextID,
		UserID:    userID,
		AddressID: addressID,
		Status:    status,
		CreatedAt: time.Now(),
	}
	r.nextID++
	r.orders[o.ID] = o
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) Get(_ context.Context, id int64) (*order.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) List(_ context.Context, _, _ int, _ int64) ([]*order.Order, error) {
	out := make([]*order.Order, 0, len(r.orders))
	for _, o := range r.orders {
		cp := *o
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, id int64, status string) (*order.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	o.Status = status
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := r.orders[id]; !ok {
		return false, nil
	}
	delete(r.orders, id)
	return true, nil
}
