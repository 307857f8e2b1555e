// Package command wraps order mutations as undoable commands and keeps a
// per-order history of what ran.
package command

import (
	"context"
	"sync"
	"time"

	"github.com/ariefcatur/go-food-orders.git/internal/orders"
	"github.com/ariefcatur/go-food-orders.git/internal/service"
)

type state int

const (
	stateCreated state = iota
	stateExecuted
	stateUndone
)

// Command is one undoable unit of order mutation. OrderID is only valid
// after a successful Execute.
type Command interface {
	OrderID() string
	Execute(ctx context.Context) error
	Undo(ctx context.Context) error
}

// ---- create order ----

type CreateOrder struct {
	svc        *service.OrderService
	customerID string
	lines      []orders.Line
	info       orders.ShippingInfo
	st         state

	// Order is the created order, set by Execute.
	Order *orders.Order
}

func NewCreateOrder(svc *service.OrderService, customerID string, lines []orders.Line, info orders.ShippingInfo) *CreateOrder {
	return &CreateOrder{svc: svc, customerID: customerID, lines: lines, info: info}
}

func (c *CreateOrder) OrderID() string {
	if c.Order == nil {
		return ""
	}
	return c.Order.ID
}

func (c *CreateOrder) Execute(ctx context.Context) error {
	if c.st != stateCreated {
		return orders.Errorf(orders.ErrIllegalTransition, "create command already executed")
	}
	o, err := c.svc.CreateOrder(ctx, c.customerID, c.lines, c.info)
	if err != nil {
		return err
	}
	c.Order = o
	c.st = stateExecuted
	return nil
}

// Undo cancels the just-created order. The service rejects it once the order
// is paid or delivered, so this is not a blanket rollback.
func (c *CreateOrder) Undo(ctx context.Context) error {
	if c.st != stateExecuted {
		return orders.Errorf(orders.ErrIllegalTransition, "create command is not in an undoable state")
	}
	if _, err := c.svc.CancelOrder(ctx, c.Order.ID); err != nil {
		return err
	}
	c.st = stateUndone
	return nil
}

// ---- change status ----

type ChangeStatus struct {
	svc     *service.OrderService
	orderID string
	status  orders.Status
	pay     orders.PaymentStatus
	st      state

	prevStatus      orders.Status
	prevPay         orders.PaymentStatus
	prevDeliveredAt *time.Time

	// Order is the updated order, set by Execute.
	Order *orders.Order
}

func NewChangeStatus(svc *service.OrderService, orderID string, status orders.Status, pay orders.PaymentStatus) *ChangeStatus {
	return &ChangeStatus{svc: svc, orderID: orderID, status: status, pay: pay}
}

func (c *ChangeStatus) OrderID() string { return c.orderID }

func (c *ChangeStatus) Execute(ctx context.Context) error {
	if c.st != stateCreated {
		return orders.Errorf(orders.ErrIllegalTransition, "status command already executed")
	}
	before, err := c.svc.GetOrder(ctx, c.orderID)
	if err != nil {
		return err
	}
	c.prevStatus = before.Status
	c.prevPay = before.PaymentStatus
	c.prevDeliveredAt = before.DeliveredAt

	o, err := c.svc.UpdateStatus(ctx, c.orderID, c.status, c.pay)
	if err != nil {
		return err
	}
	c.Order = o
	c.st = stateExecuted
	return nil
}

func (c *ChangeStatus) Undo(ctx context.Context) error {
	if c.st != stateExecuted {
		return orders.Errorf(orders.ErrIllegalTransition, "status command is not in an undoable state")
	}
	if err := c.svc.RestoreStatus(ctx, c.orderID, c.prevStatus, c.prevPay, c.prevDeliveredAt); err != nil {
		return err
	}
	c.st = stateUndone
	return nil
}

// ---- cancel order ----

type CancelOrder struct {
	svc     *service.OrderService
	orderID string
	st      state

	// Order is the snapshot of the order before deletion, set by Execute.
	Order *orders.Order
}

func NewCancelOrder(svc *service.OrderService, orderID string) *CancelOrder {
	return &CancelOrder{svc: svc, orderID: orderID}
}

func (c *CancelOrder) OrderID() string { return c.orderID }

func (c *CancelOrder) Execute(ctx context.Context) error {
	if c.st != stateCreated {
		return orders.Errorf(orders.ErrIllegalTransition, "cancel command already executed")
	}
	o, err := c.svc.CancelOrder(ctx, c.orderID)
	if err != nil {
		return err
	}
	c.Order = o
	c.st = stateExecuted
	return nil
}

// Undo is not supported: the order row is gone after cancellation. This is
// terminal on purpose; no compensating recreation happens.
func (c *CancelOrder) Undo(ctx context.Context) error {
	return orders.Errorf(orders.ErrIllegalTransition,
		"cancelling an order cannot be undone; create a new order instead")
}

// ---- invoker ----

// Invoker keeps an executed-command log per order plus a recency list across
// orders. History is process memory only: not persisted, not crash-safe.
type Invoker struct {
	mu       sync.Mutex
	perOrder map[string][]Command
	recency  []Command
}

func NewInvoker() *Invoker {
	return &Invoker{perOrder: make(map[string][]Command)}
}

func (v *Invoker) Execute(ctx context.Context, cmd Command) error {
	if err := cmd.Execute(ctx); err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	id := cmd.OrderID()
	v.perOrder[id] = append(v.perOrder[id], cmd)
	v.recency = append(v.recency, cmd)
	return nil
}

// UndoLast pops the most recently executed command across all orders and
// undoes it. The command stays popped even when its undo reports an error
// (cancel commands always do).
func (v *Invoker) UndoLast(ctx context.Context) (Command, error) {
	v.mu.Lock()
	if len(v.recency) == 0 {
		v.mu.Unlock()
		return nil, orders.Errorf(orders.ErrValidation, "nothing to undo")
	}
	cmd := v.pop(len(v.recency) - 1)
	v.mu.Unlock()

	return cmd, cmd.Undo(ctx)
}

// UndoLastForOrder undoes the most recent command of a single order, so
// undoing one order never disturbs another.
func (v *Invoker) UndoLastForOrder(ctx context.Context, orderID string) (Command, error) {
	v.mu.Lock()
	stack := v.perOrder[orderID]
	if len(stack) == 0 {
		v.mu.Unlock()
		return nil, orders.Errorf(orders.ErrValidation, "nothing to undo for order %s", orderID)
	}
	cmd := stack[len(stack)-1]
	for i := len(v.recency) - 1; i >= 0; i-- {
		if v.recency[i] == cmd {
			v.pop(i)
			break
		}
	}
	v.mu.Unlock()

	return cmd, cmd.Undo(ctx)
}

// pop removes recency[i] from both structures. Caller holds the lock.
func (v *Invoker) pop(i int) Command {
	cmd := v.recency[i]
	v.recency = append(v.recency[:i], v.recency[i+1:]...)
	id := cmd.OrderID()
	stack := v.perOrder[id]
	for j := len(stack) - 1; j >= 0; j-- {
		if stack[j] == cmd {
			v.perOrder[id] = append(stack[:j], stack[j+1:]...)
			break
		}
	}
	if len(v.perOrder[id]) == 0 {
		delete(v.perOrder, id)
	}
	return cmd
}

// HistoryLen reports how many executed commands remain undoable.
func (v *Invoker) HistoryLen() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.recency)
}
