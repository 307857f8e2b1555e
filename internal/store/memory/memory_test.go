package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ariefcatur/go-food-orders.git/internal/orders"
)

func TestDecrementStock_Conditional(t *testing.T) {
	st := New()
	st.SeedProduct(orders.Product{ID: "p1", Name: "Pho", Stock: 3})
	ctx := context.Background()

	ok, err := st.DecrementStock(ctx, "p1", 2)
	if err != nil || !ok {
		t.Fatalf("expected decrement to succeed, ok=%v err=%v", ok, err)
	}
	ok, err = st.DecrementStock(ctx, "p1", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected decrement past stock to report false")
	}
	p, _ := st.FindProduct(ctx, "p1")
	if p.Stock != 1 {
		t.Errorf("expected stock 1, got %d", p.Stock)
	}

	if _, err := st.DecrementStock(ctx, "missing", 1); !errors.Is(err, orders.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDecrementStock_NeverNegative(t *testing.T) {
	st := New()
	st.SeedProduct(orders.Product{ID: "p1", Name: "Pho", Stock: 10})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = st.DecrementStock(ctx, "p1", 1)
		}()
	}
	wg.Wait()

	p, _ := st.FindProduct(ctx, "p1")
	if p.Stock != 0 {
		t.Errorf("expected stock 0, got %d", p.Stock)
	}
}

func TestFindOrder_ReturnsCopy(t *testing.T) {
	st := New()
	ctx := context.Background()
	if err := st.CreateOrder(ctx, &orders.Order{
		ID:         "o1",
		CustomerID: "c1",
		Lines:      []orders.OrderLine{{ProductID: "p1", Qty: 1, PriceCents: 100}},
		Status:     orders.StatusPending,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := st.FindOrder(ctx, "o1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	got.Status = orders.StatusDelivered
	got.Lines[0].Qty = 99

	again, _ := st.FindOrder(ctx, "o1")
	if again.Status != orders.StatusPending || again.Lines[0].Qty != 1 {
		t.Error("mutating a returned order must not affect the stored one")
	}
}

func TestActiveCart_IgnoresInactive(t *testing.T) {
	st := New()
	ctx := context.Background()
	if err := st.CreateCart(ctx, &orders.Cart{ID: "c1", CustomerID: "cust", Active: true}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := st.DeactivateCart(ctx, "c1"); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := st.ActiveCart(ctx, "cust"); !errors.Is(err, orders.ErrNotFound) {
		t.Errorf("expected ErrNotFound after deactivation, got %v", err)
	}
}
