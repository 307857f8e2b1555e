// Package store defines the contracts the workflow needs from durable
// storage. Adapters live in the memory and postgres subpackages.
package store

import (
	"context"
	"time"

	"github.com/ariefcatur/go-food-orders.git/internal/orders"
)

// Missing rows are reported as orders.ErrNotFound-kinded errors by every
// implementation, so callers never see driver sentinels.

type OrderStore interface {
	CreateOrder(ctx context.Context, o *orders.Order) error
	FindOrder(ctx context.Context, id string) (*orders.Order, error)
	FindOrdersByCustomer(ctx context.Context, customerID string, limit, offset int) ([]orders.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status orders.Status, pay orders.PaymentStatus, deliveredAt *time.Time) error
	DeleteOrder(ctx context.Context, id string) error
}

type ProductStore interface {
	FindProduct(ctx context.Context, id string) (*orders.Product, error)

	// DecrementStock atomically decrements stock by qty and reports false
	// when available stock is short. stock never goes negative.
	DecrementStock(ctx context.Context, id string, qty int) (bool, error)

	// IncrementStock adds qty back (release / compensation path).
	IncrementStock(ctx context.Context, id string, qty int) error

	// SetStock overwrites the stock level (admin restock).
	SetStock(ctx context.Context, id string, qty int) error

	IncrementSold(ctx context.Context, id string, qty int) error
}

type CartStore interface {
	// ActiveCart returns the customer's active cart, or a not-found error
	// when they have none.
	ActiveCart(ctx context.Context, customerID string) (*orders.Cart, error)
	CreateCart(ctx context.Context, c *orders.Cart) error
	UpdateCart(ctx context.Context, c *orders.Cart) error
	ClearCart(ctx context.Context, cartID string) error
	DeactivateCart(ctx context.Context, cartID string) error
}

type UserStore interface {
	FindUser(ctx context.Context, id string) (*orders.User, error)
}

// Store bundles the four contracts; both adapters satisfy it.
type Store interface {
	OrderStore
	ProductStore
	CartStore
	UserStore
}
