// Package facade is the single client-facing surface of the order workflow:
// it runs commands, clears carts and fans out lifecycle events.
package facade

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/ariefcatur/go-food-orders.git/internal/command"
	"github.com/ariefcatur/go-food-orders.git/internal/eventbus"
	"github.com/ariefcatur/go-food-orders.git/internal/metrics"
	"github.com/ariefcatur/go-food-orders.git/internal/orders"
	"github.com/ariefcatur/go-food-orders.git/internal/redisx"
	"github.com/ariefcatur/go-food-orders.git/internal/service"
)

type Facade struct {
	ordersvc *service.OrderService
	cartsvc  *service.CartService
	invoker  *command.Invoker
	bus      *eventbus.Bus
	cache    *redisx.Cache    // optional
	metrics  *metrics.Metrics // optional
}

func New(ordersvc *service.OrderService, cartsvc *service.CartService, bus *eventbus.Bus) *Facade {
	return &Facade{
		ordersvc: ordersvc,
		cartsvc:  cartsvc,
		invoker:  command.NewInvoker(),
		bus:      bus,
	}
}

func (f *Facade) WithCache(c *redisx.Cache) *Facade {
	f.cache = c
	return f
}

func (f *Facade) WithMetrics(m *metrics.Metrics) *Facade {
	f.metrics = m
	return f
}

func (f *Facade) observe(op string, start time.Time, err error) {
	outcome := "ok"
	var oerr *orders.Error
	if errors.As(err, &oerr) {
		outcome = oerr.Kind
	} else if err != nil {
		outcome = "error"
	}
	f.metrics.Observe(op, outcome, float64(time.Since(start).Milliseconds()))
}

// CreateOrderFromCart converts the customer's active cart into an order:
// reserve stock, persist, deactivate the cart, publish order.created.
// An empty (or missing) cart fails validation before any command runs.
func (f *Facade) CreateOrderFromCart(ctx context.Context, customerID string, info orders.ShippingInfo) (o *orders.Order, err error) {
	start := time.Now()
	defer func() { f.observe("create_from_cart", start, err) }()

	cart, err := f.cartsvc.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, orders.Errorf(orders.ErrValidation, "cart is empty")
	}

	if f.cache != nil {
		ok, cerr := f.cache.AcquireCartConversion(ctx, cart.ID)
		if cerr == nil && !ok {
			return nil, orders.Errorf(orders.ErrValidation, "cart %s was already submitted", cart.ID)
		}
	}

	lines := make([]orders.Line, 0, len(cart.Items))
	for _, it := range cart.Items {
		lines = append(lines, orders.Line{ProductID: it.ProductID, Qty: it.Qty})
	}

	cmd := command.NewCreateOrder(f.ordersvc, customerID, lines, info)
	if err = f.invoker.Execute(ctx, cmd); err != nil {
		if f.cache != nil {
			f.cache.ReleaseCartConversion(ctx, cart.ID)
		}
		if errors.Is(err, orders.ErrInsufficientStock) && f.metrics != nil {
			f.metrics.ReservationFailures.Inc()
		}
		return nil, err
	}
	o = cmd.Order

	if derr := f.cartsvc.Deactivate(ctx, cart.ID); derr != nil {
		// the order exists; a stuck cart is recoverable, so only warn
		log.Printf("facade: deactivate cart %s after order %s: %v", cart.ID, o.ID, derr)
	}

	f.cacheStatus(ctx, o)
	f.publish(ctx, orders.EventOrderCreated, o, map[string]any{
		"total_cents": o.TotalCents,
		"line_count":  len(o.Lines),
	})
	return o, nil
}

// GetOrderByID applies the owner-or-admin rule before returning the order.
func (f *Facade) GetOrderByID(ctx context.Context, orderID, requesterID string) (*orders.Order, error) {
	return f.ordersvc.GetOrderFor(ctx, orderID, requesterID)
}

// OrderStatus serves the (status, payment status) pair, from cache when
// fresh, falling back to the store.
func (f *Facade) OrderStatus(ctx context.Context, orderID string) (orders.Status, orders.PaymentStatus, error) {
	if f.cache != nil {
		if st, ok := f.cache.OrderStatus(ctx, orderID); ok {
			return orders.Status(st.Status), orders.PaymentStatus(st.PaymentStatus), nil
		}
	}
	o, err := f.ordersvc.GetOrder(ctx, orderID)
	if err != nil {
		return "", "", err
	}
	f.cacheStatus(ctx, o)
	return o.Status, o.PaymentStatus, nil
}

func (f *Facade) GetCustomerOrders(ctx context.Context, customerID string, limit, offset int) ([]orders.Order, error) {
	return f.ordersvc.CustomerOrders(ctx, customerID, limit, offset)
}

// CancelOrder runs the cancel command for an order the requester may touch,
// then publishes order.cancelled.
func (f *Facade) CancelOrder(ctx context.Context, orderID, requesterID string) (err error) {
	start := time.Now()
	defer func() { f.observe("cancel", start, err) }()

	if _, err = f.ordersvc.GetOrderFor(ctx, orderID, requesterID); err != nil {
		return err
	}

	cmd := command.NewCancelOrder(f.ordersvc, orderID)
	if err = f.invoker.Execute(ctx, cmd); err != nil {
		return err
	}

	f.dropStatus(ctx, orderID)
	f.publish(ctx, orders.EventOrderCancelled, cmd.Order, nil)
	return nil
}

// UpdateOrderStatus runs the change-status command and publishes
// order.statusChanged.
func (f *Facade) UpdateOrderStatus(ctx context.Context, orderID string, status orders.Status, pay orders.PaymentStatus) (o *orders.Order, err error) {
	start := time.Now()
	defer func() { f.observe("update_status", start, err) }()

	cmd := command.NewChangeStatus(f.ordersvc, orderID, status, pay)
	if err = f.invoker.Execute(ctx, cmd); err != nil {
		return nil, err
	}
	o = cmd.Order

	f.cacheStatus(ctx, o)
	f.publish(ctx, orders.EventOrderStatusChanged, o, map[string]any{
		"status":         string(o.Status),
		"payment_status": string(o.PaymentStatus),
	})
	return o, nil
}

// CompleteOrder marks an order delivered and paid in one step and publishes
// order.completed.
func (f *Facade) CompleteOrder(ctx context.Context, orderID string) (o *orders.Order, err error) {
	start := time.Now()
	defer func() { f.observe("complete", start, err) }()

	cmd := command.NewChangeStatus(f.ordersvc, orderID, orders.StatusDelivered, orders.PaymentPaid)
	if err = f.invoker.Execute(ctx, cmd); err != nil {
		return nil, err
	}
	o = cmd.Order

	f.cacheStatus(ctx, o)
	f.publish(ctx, orders.EventOrderCompleted, o, map[string]any{
		"completed_at": o.DeliveredAt,
	})
	return o, nil
}

// UndoLastOperation reverts the most recent command across all orders and
// publishes order.undone. With no history it reports "nothing to undo".
func (f *Facade) UndoLastOperation(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { f.observe("undo", start, err) }()

	cmd, err := f.invoker.UndoLast(ctx)
	if err != nil {
		return err
	}
	f.afterUndo(ctx, cmd)
	return nil
}

// UndoLastForOrder reverts the most recent command of one order.
func (f *Facade) UndoLastForOrder(ctx context.Context, orderID string) (err error) {
	start := time.Now()
	defer func() { f.observe("undo", start, err) }()

	cmd, err := f.invoker.UndoLastForOrder(ctx, orderID)
	if err != nil {
		return err
	}
	f.afterUndo(ctx, cmd)
	return nil
}

func (f *Facade) afterUndo(ctx context.Context, cmd command.Command) {
	orderID := cmd.OrderID()
	f.dropStatus(ctx, orderID)
	f.bus.Notify(ctx, orders.Event{
		Name:      orders.EventOrderUndone,
		OrderID:   orderID,
		Timestamp: time.Now().UTC(),
	})
}

func (f *Facade) publish(ctx context.Context, name string, o *orders.Order, fields map[string]any) {
	f.bus.Notify(ctx, orders.Event{
		Name:       name,
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		Timestamp:  time.Now().UTC(),
		Fields:     fields,
	})
}

func (f *Facade) cacheStatus(ctx context.Context, o *orders.Order) {
	if f.cache == nil {
		return
	}
	f.cache.SetOrderStatus(ctx, o.ID, redisx.CachedStatus{
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
	})
}

func (f *Facade) dropStatus(ctx context.Context, orderID string) {
	if f.cache == nil {
		return
	}
	f.cache.DropOrderStatus(ctx, orderID)
}
