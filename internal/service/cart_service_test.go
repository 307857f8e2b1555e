package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ariefcatur/go-food-orders.git/internal/orders"
	"github.com/ariefcatur/go-food-orders.git/internal/store/memory"
)

func newCartFixture() (*memory.Store, *CartService) {
	st := memory.New()
	st.SeedProduct(orders.Product{ID: "pho", Name: "Pho Bo", PriceCents: 1200, Stock: 10})
	st.SeedProduct(orders.Product{ID: "banhmi", Name: "Banh Mi", PriceCents: 450, Stock: 8})
	return st, NewCartService(st, st)
}

func TestAddItem_CreatesCartLazily(t *testing.T) {
	_, svc := newCartFixture()
	ctx := context.Background()

	cart, err := svc.AddItem(ctx, "cust-1", "pho", 2)
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if !cart.Active {
		t.Error("expected new cart to be active")
	}
	if len(cart.Items) != 1 || cart.Items[0].Qty != 2 {
		t.Fatalf("unexpected items: %+v", cart.Items)
	}
	if cart.Items[0].Name != "Pho Bo" || cart.Items[0].PriceCents != 1200 {
		t.Errorf("snapshot mismatch: %+v", cart.Items[0])
	}
}

func TestAddItem_MergesSameProduct(t *testing.T) {
	_, svc := newCartFixture()
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "cust-1", "pho", 2); err != nil {
		t.Fatalf("first add: %v", err)
	}
	cart, err := svc.AddItem(ctx, "cust-1", "pho", 3)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("expected single merged line, got %d", len(cart.Items))
	}
	if cart.Items[0].Qty != 5 {
		t.Errorf("expected merged qty 5, got %d", cart.Items[0].Qty)
	}
}

func TestAddItem_UnknownProduct(t *testing.T) {
	_, svc := newCartFixture()
	if _, err := svc.AddItem(context.Background(), "cust-1", "ghost", 1); !errors.Is(err, orders.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateItemQty_ZeroRemoves(t *testing.T) {
	_, svc := newCartFixture()
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "cust-1", "pho", 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.AddItem(ctx, "cust-1", "banhmi", 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	cart, err := svc.UpdateItemQty(ctx, "cust-1", "pho", 0)
	if err != nil {
		t.Fatalf("update qty: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].ProductID != "banhmi" {
		t.Errorf("expected only banhmi left, got %+v", cart.Items)
	}

	if _, err := svc.UpdateItemQty(ctx, "cust-1", "pho", 1); !errors.Is(err, orders.ErrNotFound) {
		t.Errorf("removed item: expected ErrNotFound, got %v", err)
	}
}

func TestGet_NoCartReturnsEmpty(t *testing.T) {
	_, svc := newCartFixture()

	cart, err := svc.Get(context.Background(), "cust-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(cart.Items) != 0 || cart.Active {
		t.Errorf("expected empty inactive cart, got %+v", cart)
	}
}

func TestDeactivate_NextAddStartsFresh(t *testing.T) {
	_, svc := newCartFixture()
	ctx := context.Background()

	cart, err := svc.AddItem(ctx, "cust-1", "pho", 2)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.Deactivate(ctx, cart.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	fresh, err := svc.AddItem(ctx, "cust-1", "banhmi", 1)
	if err != nil {
		t.Fatalf("add after deactivate: %v", err)
	}
	if fresh.ID == cart.ID {
		t.Error("expected a new cart after deactivation")
	}
	if len(fresh.Items) != 1 || fresh.Items[0].ProductID != "banhmi" {
		t.Errorf("unexpected fresh cart items: %+v", fresh.Items)
	}
}
