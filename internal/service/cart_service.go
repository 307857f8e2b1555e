package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ariefcatur/go-food-orders.git/internal/orders"
	"github.com/ariefcatur/go-food-orders.git/internal/store"
)

type CartService struct {
	carts    store.CartStore
	products store.ProductStore
}

func NewCartService(carts store.CartStore, products store.ProductStore) *CartService {
	return &CartService{carts: carts, products: products}
}

// AddItem puts qty units of a product into the customer's active cart,
// creating the cart lazily on first add. Name and price are snapshotted from
// the product at add time.
func (s *CartService) AddItem(ctx context.Context, customerID, productID string, qty int) (*orders.Cart, error) {
	if qty < 1 {
		return nil, orders.Errorf(orders.ErrValidation, "quantity must be at least 1")
	}
	p, err := s.products.FindProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	cart, err := s.carts.ActiveCart(ctx, customerID)
	if errors.Is(err, orders.ErrNotFound) {
		cart = &orders.Cart{
			ID:         uuid.NewString(),
			CustomerID: customerID,
			Active:     true,
			CreatedAt:  time.Now().UTC(),
		}
		cart.Items = append(cart.Items, orders.CartItem{
			ProductID: p.ID, Name: p.Name, Qty: qty, PriceCents: p.PriceCents,
		})
		if err := s.carts.CreateCart(ctx, cart); err != nil {
			return nil, err
		}
		return cart, nil
	}
	if err != nil {
		return nil, err
	}

	merged := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Qty += qty
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, orders.CartItem{
			ProductID: p.ID, Name: p.Name, Qty: qty, PriceCents: p.PriceCents,
		})
	}
	cart.UpdatedAt = time.Now().UTC()
	if err := s.carts.UpdateCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateItemQty sets the quantity of a cart item; zero or less removes it.
func (s *CartService) UpdateItemQty(ctx context.Context, customerID, productID string, qty int) (*orders.Cart, error) {
	cart, err := s.carts.ActiveCart(ctx, customerID)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, orders.Errorf(orders.ErrNotFound, "product %s not in cart", productID)
	}
	if qty <= 0 {
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	} else {
		cart.Items[idx].Qty = qty
	}
	cart.UpdatedAt = time.Now().UTC()
	if err := s.carts.UpdateCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) RemoveItem(ctx context.Context, customerID, productID string) (*orders.Cart, error) {
	return s.UpdateItemQty(ctx, customerID, productID, 0)
}

// Deactivate retires a cart after it has been converted into an order. The
// cart is kept, not deleted; the next AddItem starts a fresh one.
func (s *CartService) Deactivate(ctx context.Context, cartID string) error {
	return s.carts.DeactivateCart(ctx, cartID)
}

// Get returns the customer's active cart; when they have none, an empty
// inactive cart is returned instead of an error.
func (s *CartService) Get(ctx context.Context, customerID string) (*orders.Cart, error) {
	cart, err := s.carts.ActiveCart(ctx, customerID)
	if errors.Is(err, orders.ErrNotFound) {
		return &orders.Cart{CustomerID: customerID}, nil
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}
