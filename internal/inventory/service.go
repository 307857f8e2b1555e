// Package inventory reserves and releases product stock backing order lines.
package inventory

import (
	"context"
	"log"

	"github.com/ariefcatur/go-food-orders.git/internal/orders"
	"github.com/ariefcatur/go-food-orders.git/internal/store"
)

type Service struct {
	Products store.ProductStore
}

func NewService(products store.ProductStore) *Service {
	return &Service{Products: products}
}

// ReservedLine is a reserved (product, qty) pair plus the name/price
// snapshots taken at reservation time.
type ReservedLine struct {
	ProductID  string
	Name       string
	Qty        int
	PriceCents int
}

// Reserve decrements stock for every line, in input order. The decrement per
// product is atomic at the store (conditional update), so stock never goes
// negative under concurrent reservations. If any line cannot be satisfied,
// lines already decremented are incremented back before the error surfaces,
// making the whole call all-or-nothing.
func (s *Service) Reserve(ctx context.Context, lines []orders.Line) ([]ReservedLine, error) {
	if len(lines) == 0 {
		return nil, orders.Errorf(orders.ErrValidation, "order must contain at least one line")
	}

	reserved := make([]ReservedLine, 0, len(lines))
	for _, ln := range lines {
		if ln.Qty < 1 {
			s.compensate(ctx, reserved)
			return nil, orders.Errorf(orders.ErrValidation, "invalid quantity %d for product %s", ln.Qty, ln.ProductID)
		}

		p, err := s.Products.FindProduct(ctx, ln.ProductID)
		if err != nil {
			s.compensate(ctx, reserved)
			return nil, err
		}

		ok, err := s.Products.DecrementStock(ctx, ln.ProductID, ln.Qty)
		if err != nil {
			s.compensate(ctx, reserved)
			return nil, err
		}
		if !ok {
			s.compensate(ctx, reserved)
			return nil, orders.Errorf(orders.ErrInsufficientStock,
				"product %s: requested %d, available %d", p.Name, ln.Qty, p.Stock)
		}

		reserved = append(reserved, ReservedLine{
			ProductID:  p.ID,
			Name:       p.Name,
			Qty:        ln.Qty,
			PriceCents: p.PriceCents,
		})
	}
	return reserved, nil
}

// Release adds reserved quantities back (cancellation path).
func (s *Service) Release(ctx context.Context, lines []orders.OrderLine) error {
	for _, ln := range lines {
		if err := s.Products.IncrementStock(ctx, ln.ProductID, ln.Qty); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) compensate(ctx context.Context, reserved []ReservedLine) {
	for _, r := range reserved {
		if err := s.Products.IncrementStock(ctx, r.ProductID, r.Qty); err != nil {
			log.Printf("inventory: compensation failed for product %s qty %d: %v", r.ProductID, r.Qty, err)
		}
	}
}
