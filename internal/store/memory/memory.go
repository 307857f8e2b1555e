// Package memory is a mutex-guarded in-memory implementation of the store
// contracts, used by tests and local runs without Postgres.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ariefcatur/go-food-orders.git/internal/orders"
)

type Store struct {
	mu       sync.RWMutex
	orders   map[string]*orders.Order
	products map[string]*orders.Product
	carts    map[string]*orders.Cart
	users    map[string]*orders.User
}

func New() *Store {
	return &Store{
		orders:   make(map[string]*orders.Order),
		products: make(map[string]*orders.Product),
		carts:    make(map[string]*orders.Cart),
		users:    make(map[string]*orders.User),
	}
}

// ---- seeding (tests, local runs) ----

func (s *Store) SeedProduct(p orders.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = &p
}

func (s *Store) SeedUser(u orders.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = &u
}

// ---- OrderStore ----

func copyOrder(o *orders.Order) *orders.Order {
	cp := *o
	cp.Lines = append([]orders.OrderLine(nil), o.Lines...)
	if o.DeliveredAt != nil {
		t := *o.DeliveredAt
		cp.DeliveredAt = &t
	}
	return &cp
}

func (s *Store) CreateOrder(ctx context.Context, o *orders.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID] = copyOrder(o)
	return nil
}

func (s *Store) FindOrder(ctx context.Context, id string) (*orders.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, orders.Errorf(orders.ErrNotFound, "order not found: %s", id)
	}
	return copyOrder(o), nil
}

func (s *Store) FindOrdersByCustomer(ctx context.Context, customerID string, limit, offset int) ([]orders.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []orders.Order
	for _, o := range s.orders {
		if o.CustomerID == customerID {
			out = append(out, *copyOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderedAt.After(out[j].OrderedAt) })
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id string, status orders.Status, pay orders.PaymentStatus, deliveredAt *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return orders.Errorf(orders.ErrNotFound, "order not found: %s", id)
	}
	o.Status = status
	o.PaymentStatus = pay
	o.DeliveredAt = deliveredAt
	return nil
}

func (s *Store) DeleteOrder(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[id]; !ok {
		return orders.Errorf(orders.ErrNotFound, "order not found: %s", id)
	}
	delete(s.orders, id)
	return nil
}

// ---- ProductStore ----

func (s *Store) FindProduct(ctx context.Context, id string) (*orders.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return nil, orders.Errorf(orders.ErrNotFound, "product not found: %s", id)
	}
	cp := *p
	return &cp, nil
}

func (s *Store) DecrementStock(ctx context.Context, id string, qty int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return false, orders.Errorf(orders.ErrNotFound, "product not found: %s", id)
	}
	if p.Stock < qty {
		return false, nil
	}
	p.Stock -= qty
	p.UpdatedAt = time.Now()
	return true, nil
}

func (s *Store) IncrementStock(ctx context.Context, id string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return orders.Errorf(orders.ErrNotFound, "product not found: %s", id)
	}
	p.Stock += qty
	p.UpdatedAt = time.Now()
	return nil
}

func (s *Store) SetStock(ctx context.Context, id string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return orders.Errorf(orders.ErrNotFound, "product not found: %s", id)
	}
	p.Stock = qty
	p.UpdatedAt = time.Now()
	return nil
}

func (s *Store) IncrementSold(ctx context.Context, id string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return orders.Errorf(orders.ErrNotFound, "product not found: %s", id)
	}
	p.Sold += qty
	p.UpdatedAt = time.Now()
	return nil
}

// ---- CartStore ----

func copyCart(c *orders.Cart) *orders.Cart {
	cp := *c
	cp.Items = append([]orders.CartItem(nil), c.Items...)
	return &cp
}

func (s *Store) ActiveCart(ctx context.Context, customerID string) (*orders.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.carts {
		if c.CustomerID == customerID && c.Active {
			return copyCart(c), nil
		}
	}
	return nil, orders.Errorf(orders.ErrNotFound, "no active cart for customer %s", customerID)
}

func (s *Store) CreateCart(ctx context.Context, c *orders.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[c.ID] = copyCart(c)
	return nil
}

func (s *Store) UpdateCart(ctx context.Context, c *orders.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.carts[c.ID]; !ok {
		return orders.Errorf(orders.ErrNotFound, "cart not found: %s", c.ID)
	}
	s.carts[c.ID] = copyCart(c)
	return nil
}

func (s *Store) ClearCart(ctx context.Context, cartID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[cartID]
	if !ok {
		return orders.Errorf(orders.ErrNotFound, "cart not found: %s", cartID)
	}
	c.Items = nil
	c.UpdatedAt = time.Now()
	return nil
}

func (s *Store) DeactivateCart(ctx context.Context, cartID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[cartID]
	if !ok {
		return orders.Errorf(orders.ErrNotFound, "cart not found: %s", cartID)
	}
	c.Active = false
	c.UpdatedAt = time.Now()
	return nil
}

// ---- UserStore ----

func (s *Store) FindUser(ctx context.Context, id string) (*orders.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, orders.Errorf(orders.ErrNotFound, "user not found: %s", id)
	}
	cp := *u
	return &cp, nil
}
