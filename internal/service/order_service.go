// Package service holds the order and cart business logic sitting between
// the facade and the store contracts.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ariefcatur/go-food-orders.git/internal/inventory"
	"github.com/ariefcatur/go-food-orders.git/internal/orders"
	"github.com/ariefcatur/go-food-orders.git/internal/store"
)

type OrderService struct {
	store store.Store
	inv   *inventory.Service
}

func NewOrderService(st store.Store, inv *inventory.Service) *OrderService {
	return &OrderService{store: st, inv: inv}
}

// BuildOrder assembles an order aggregate: validates the request, reserves
// stock and takes name/price snapshots. Nothing is persisted; on any
// reservation failure no stock stays decremented.
func (s *OrderService) BuildOrder(ctx context.Context, customerID string, lines []orders.Line, info orders.ShippingInfo) (*orders.Order, error) {
	if _, err := s.store.FindUser(ctx, customerID); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, orders.Errorf(orders.ErrValidation, "order must contain at least one line")
	}
	if !orders.ValidPaymentMethod(info.PaymentMethod) {
		return nil, orders.Errorf(orders.ErrValidation, "unknown payment method: %s", info.PaymentMethod)
	}

	reserved, err := s.inv.Reserve(ctx, lines)
	if err != nil {
		return nil, err
	}

	o := &orders.Order{
		ID:            uuid.NewString(),
		CustomerID:    customerID,
		OrderedAt:     time.Now().UTC(),
		Shipping:      info.Address,
		Phone:         info.Phone,
		Status:        orders.StatusPending,
		PaymentMethod: info.PaymentMethod,
		PaymentStatus: orders.PaymentPending,
		Notes:         info.Notes,
	}
	for _, r := range reserved {
		o.Lines = append(o.Lines, orders.OrderLine{
			ProductID:  r.ProductID,
			Name:       r.Name,
			Qty:        r.Qty,
			PriceCents: r.PriceCents,
		})
	}
	o.TotalCents = o.LineTotal()
	return o, nil
}

// CreateOrder builds and persists. A persist failure releases the
// reservation so stock is not leaked.
func (s *OrderService) CreateOrder(ctx context.Context, customerID string, lines []orders.Line, info orders.ShippingInfo) (*orders.Order, error) {
	o, err := s.BuildOrder(ctx, customerID, lines, info)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateOrder(ctx, o); err != nil {
		_ = s.inv.Release(ctx, o.Lines)
		return nil, err
	}
	return o, nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*orders.Order, error) {
	return s.store.FindOrder(ctx, orderID)
}

// GetOrderFor enforces the owner-or-admin rule.
func (s *OrderService) GetOrderFor(ctx context.Context, orderID, requesterID string) (*orders.Order, error) {
	o, err := s.store.FindOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.CustomerID == requesterID {
		return o, nil
	}
	u, err := s.store.FindUser(ctx, requesterID)
	if err != nil || !u.Admin {
		return nil, orders.Errorf(orders.ErrUnauthorized, "order %s does not belong to requester", orderID)
	}
	return o, nil
}

func (s *OrderService) CustomerOrders(ctx context.Context, customerID string, limit, offset int) ([]orders.Order, error) {
	return s.store.FindOrdersByCustomer(ctx, customerID, limit, offset)
}

// UpdateStatus applies a forward status transition plus a payment-status
// change. Entering delivered stamps DeliveredAt and bumps the sold counters
// (the one place they move; they never move back).
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, status orders.Status, pay orders.PaymentStatus) (*orders.Order, error) {
	o, err := s.store.FindOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !orders.ValidStatus(status) {
		return nil, orders.Errorf(orders.ErrValidation, "unknown status: %s", status)
	}
	if !orders.ValidPaymentStatus(pay) {
		return nil, orders.Errorf(orders.ErrValidation, "unknown payment status: %s", pay)
	}
	if status != o.Status && !orders.CanTransition(o.Status, status) {
		return nil, orders.Errorf(orders.ErrIllegalTransition, "cannot move order from %s to %s", o.Status, status)
	}

	deliveredAt := o.DeliveredAt
	justDelivered := status == orders.StatusDelivered && o.Status != orders.StatusDelivered
	if justDelivered {
		now := time.Now().UTC()
		deliveredAt = &now
	}

	if err := s.store.UpdateOrderStatus(ctx, orderID, status, pay, deliveredAt); err != nil {
		return nil, err
	}
	if justDelivered {
		for _, ln := range o.Lines {
			if err := s.store.IncrementSold(ctx, ln.ProductID, ln.Qty); err != nil {
				return nil, err
			}
		}
	}

	o.Status = status
	o.PaymentStatus = pay
	o.DeliveredAt = deliveredAt
	return o, nil
}

// RestoreStatus writes a captured (status, payment, delivered-at) triple back
// without transition checks. Only the command layer's undo path uses it.
func (s *OrderService) RestoreStatus(ctx context.Context, orderID string, status orders.Status, pay orders.PaymentStatus, deliveredAt *time.Time) error {
	return s.store.UpdateOrderStatus(ctx, orderID, status, pay, deliveredAt)
}

// CancelOrder releases the order's reserved stock and deletes the order.
// Paid or delivered orders cannot be cancelled.
func (s *OrderService) CancelOrder(ctx context.Context, orderID string) (*orders.Order, error) {
	o, err := s.store.FindOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.PaymentStatus == orders.PaymentPaid {
		return nil, orders.Errorf(orders.ErrIllegalTransition, "order %s is already paid", orderID)
	}
	if o.Status == orders.StatusDelivered {
		return nil, orders.Errorf(orders.ErrIllegalTransition, "order %s is already delivered", orderID)
	}
	if err := s.inv.Release(ctx, o.Lines); err != nil {
		return nil, err
	}
	if err := s.store.DeleteOrder(ctx, orderID); err != nil {
		return nil, err
	}
	return o, nil
}
