package service

import (
	"context"
	"errors"
	"sync"

	"github.com/zedlink-test/My-Shop/internal/domain"
	"github.com/zedlink-test/My-Shop/internal/repository"
	"github.com/zedlink-test/My-Shop/internal/session"
)

// callLog records the order in which collaborators were called.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (c *callLog) add(name string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, name)
}

func (c *callLog) list() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

// MockStore implements AdminStore and both repository interfaces in memory.
type MockStore struct {
	mu        sync.RWMutex
	products  map[string]*domain.Product
	orders    map[string]*domain.Order
	InsertErr error
	PingErr   error
	log       *callLog
}

func NewMockStore(products ...*domain.Product) *MockStore {
	m := &MockStore{
		products: make(map[string]*domain.Product),
		orders:   make(map[string]*domain.Order),
	}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *MockStore) ListProducts(_ context.Context, category string) ([]*domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Product
	for _, p := range m.products {
		if category == "" || p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MockStore) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return p, nil
}

func (m *MockStore) CreateProduct(_ context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == "" {
		p.ID = "generated-id"
	}
	m.products[p.ID] = p
	return nil
}

func (m *MockStore) UpdateProduct(_ context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[p.ID]; !ok {
		return repository.ErrProductNotFound
	}
	m.products[p.ID] = p
	return nil
}

func (m *MockStore) DeleteProduct(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *MockStore) CountProducts(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.products)), nil
}

func (m *MockStore) InsertOrder(_ context.Context, o *domain.Order) error {
	m.log.add("insert")
	if m.InsertErr != nil {
		return m.InsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[o.ID]; ok {
		return repository.ErrDuplicateOrder
	}
	m.orders[o.ID] = o
	return nil
}

func (m *MockStore) ListOrders(_ context.Context) ([]*domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Order, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, o)
	}
	return out, nil
}

func (m *MockStore) GetOrder(_ context.Context, id string) (*domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *MockStore) UpdateOrderStatus(_ context.Context, id string, from, to domain.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return repository.ErrOrderNotFound
	}
	if o.Status != from {
		return repository.ErrStatusChanged
	}
	o.Status = to
	return nil
}

func (m *MockStore) DeleteOrder(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[id]; !ok {
		return repository.ErrOrderNotFound
	}
	delete(m.orders, id)
	return nil
}

func (m *MockStore) Ping(_ context.Context) error {
	return m.PingErr
}

func (m *MockStore) orderCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.orders)
}

// MockNotifier implements Notifier.
type MockNotifier struct {
	Result bool
	Calls  int
	Last   *domain.Order
	log    *callLog
}

func (m *MockNotifier) Notify(_ context.Context, o *domain.Order) bool {
	m.log.add("notify")
	m.Calls++
	m.Last = o
	return m.Result
}

// MockPublisher implements events.Publisher.
type MockPublisher struct {
	Err       error
	Published []*domain.Order
	log       *callLog
}

func (m *MockPublisher) PublishOrderPlaced(_ context.Context, o *domain.Order) error {
	m.log.add("publish")
	if m.Err != nil {
		return m.Err
	}
	m.Published = append(m.Published, o)
	return nil
}

func (m *MockPublisher) Close() error { return nil }

var errStoreDown = errors.New("store down")

// failingSessions wraps a session store and fails selected operations.
type failingSessions struct {
	session.Store
	FailLoad   bool
	FailSave   bool
	FailDelete bool
}

func (f *failingSessions) Load(ctx context.Context, id string) ([]domain.CartLine, error) {
	if f.FailLoad {
		return nil, errStoreDown
	}
	return f.Store.Load(ctx, id)
}

func (f *failingSessions) Save(ctx context.Context, id string, lines []domain.CartLine) error {
	if f.FailSave {
		return errStoreDown
	}
	return f.Store.Save(ctx, id, lines)
}

func (f *failingSessions) Delete(ctx context.Context, id string) error {
	if f.FailDelete {
		return errStoreDown
	}
	return f.Store.Delete(ctx, id)
}
