package command

import (
	"context"
	"errors"
	"testing"

	"github.com/ariefcatur/go-food-orders.git/internal/inventory"
	"github.com/ariefcatur/go-food-orders.git/internal/orders"
	"github.com/ariefcatur/go-food-orders.git/internal/service"
	"github.com/ariefcatur/go-food-orders.git/internal/store/memory"
)

func newFixture(t *testing.T) (*memory.Store, *service.OrderService, *Invoker) {
	t.Helper()
	st := memory.New()
	st.SeedUser(orders.User{ID: "cust-1", Name: "Linh"})
	st.SeedProduct(orders.Product{ID: "pho", Name: "Pho Bo", PriceCents: 1200, Stock: 10})
	svc := service.NewOrderService(st, inventory.NewService(st))
	return st, svc, NewInvoker()
}

func createOrder(t *testing.T, inv *Invoker, svc *service.OrderService) *orders.Order {
	t.Helper()
	cmd := NewCreateOrder(svc, "cust-1", []orders.Line{{ProductID: "pho", Qty: 2}}, orders.ShippingInfo{
		Phone:         "+84123456789",
		PaymentMethod: orders.PayCash,
	})
	if err := inv.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("create command: %v", err)
	}
	return cmd.Order
}

func TestChangeStatus_UndoRestoresPrevious(t *testing.T) {
	st, svc, inv := newFixture(t)
	ctx := context.Background()
	o := createOrder(t, inv, svc)

	cmd := NewChangeStatus(svc, o.ID, orders.StatusPreparing, orders.PaymentPending)
	if err := inv.Execute(ctx, cmd); err != nil {
		t.Fatalf("change status: %v", err)
	}

	undone, err := inv.UndoLast(ctx)
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if undone != Command(cmd) {
		t.Errorf("expected the status command to be undone, got %T", undone)
	}

	got, err := st.FindOrder(ctx, o.ID)
	if err != nil {
		t.Fatalf("find order: %v", err)
	}
	if got.Status != orders.StatusPending {
		t.Errorf("expected status restored to pending, got %s", got.Status)
	}
}

func TestUndoLast_Empty(t *testing.T) {
	_, _, inv := newFixture(t)

	if _, err := inv.UndoLast(context.Background()); !errors.Is(err, orders.ErrValidation) {
		t.Fatalf("expected 'nothing to undo' validation error, got %v", err)
	}
}

func TestCreateOrder_UndoCancels(t *testing.T) {
	st, svc, inv := newFixture(t)
	ctx := context.Background()
	o := createOrder(t, inv, svc)

	p, _ := st.FindProduct(ctx, "pho")
	if p.Stock != 8 {
		t.Fatalf("expected stock 8 after create, got %d", p.Stock)
	}

	if _, err := inv.UndoLast(ctx); err != nil {
		t.Fatalf("undo create: %v", err)
	}
	if _, err := st.FindOrder(ctx, o.ID); !errors.Is(err, orders.ErrNotFound) {
		t.Errorf("expected order deleted, got %v", err)
	}
	p, _ = st.FindProduct(ctx, "pho")
	if p.Stock != 10 {
		t.Errorf("expected stock restored to 10, got %d", p.Stock)
	}
	if inv.HistoryLen() != 0 {
		t.Errorf("expected empty history, got %d", inv.HistoryLen())
	}
}

func TestCancelOrder_UndoUnsupported(t *testing.T) {
	_, svc, inv := newFixture(t)
	ctx := context.Background()
	o := createOrder(t, inv, svc)

	cancel := NewCancelOrder(svc, o.ID)
	if err := inv.Execute(ctx, cancel); err != nil {
		t.Fatalf("cancel command: %v", err)
	}

	_, err := inv.UndoLast(ctx)
	if !errors.Is(err, orders.ErrIllegalTransition) {
		t.Fatalf("expected ErrIllegalTransition from cancel undo, got %v", err)
	}
	// the failed undo still consumed the history entry
	if inv.HistoryLen() != 1 {
		t.Errorf("expected 1 remaining command (the create), got %d", inv.HistoryLen())
	}
}

func TestUndoLastForOrder_DoesNotTouchOtherOrders(t *testing.T) {
	st, svc, inv := newFixture(t)
	ctx := context.Background()

	a := createOrder(t, inv, svc)
	b := createOrder(t, inv, svc)

	if err := inv.Execute(ctx, NewChangeStatus(svc, a.ID, orders.StatusPreparing, orders.PaymentPending)); err != nil {
		t.Fatalf("change a: %v", err)
	}
	if err := inv.Execute(ctx, NewChangeStatus(svc, b.ID, orders.StatusReady, orders.PaymentPending)); err != nil {
		t.Fatalf("change b: %v", err)
	}

	// b's change is the most recent overall, but we undo a's
	if _, err := inv.UndoLastForOrder(ctx, a.ID); err != nil {
		t.Fatalf("undo for order a: %v", err)
	}

	gotA, _ := st.FindOrder(ctx, a.ID)
	if gotA.Status != orders.StatusPending {
		t.Errorf("expected a restored to pending, got %s", gotA.Status)
	}
	gotB, _ := st.FindOrder(ctx, b.ID)
	if gotB.Status != orders.StatusReady {
		t.Errorf("expected b untouched at ready, got %s", gotB.Status)
	}
}

func TestExecute_FailedCommandNotRecorded(t *testing.T) {
	_, svc, inv := newFixture(t)
	ctx := context.Background()

	cmd := NewCreateOrder(svc, "ghost", []orders.Line{{ProductID: "pho", Qty: 1}}, orders.ShippingInfo{
		PaymentMethod: orders.PayCash,
	})
	if err := inv.Execute(ctx, cmd); err == nil {
		t.Fatal("expected create for unknown customer to fail")
	}
	if inv.HistoryLen() != 0 {
		t.Errorf("failed command must not enter history, got %d", inv.HistoryLen())
	}
}
