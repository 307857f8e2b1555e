// Package postgres implements the store contracts on pgx.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ariefcatur/go-food-orders.git/internal/orders"
)

type Store struct {
	DB *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Store { return &Store{DB: db} }

func notFound(err error, format string, args ...any) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return orders.Errorf(orders.ErrNotFound, format, args...)
	}
	return err
}

// ---- OrderStore ----

func (s *Store) CreateOrder(ctx context.Context, o *orders.Order) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO orders(id, customer_id, ordered_at, delivered_at,
		                   street, city, state, zip_code, country, phone,
		                   total_cents, status, payment_method, payment_status, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		o.ID, o.CustomerID, o.OrderedAt, o.DeliveredAt,
		o.Shipping.Street, o.Shipping.City, o.Shipping.State, o.Shipping.ZipCode, o.Shipping.Country, o.Phone,
		o.TotalCents, o.Status, o.PaymentMethod, o.PaymentStatus, o.Notes,
	)
	if err != nil {
		return err
	}

	for _, ln := range o.Lines {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_lines(order_id, product_id, name, qty, price_cents)
			VALUES ($1,$2,$3,$4,$5)`,
			o.ID, ln.ProductID, ln.Name, ln.Qty, ln.PriceCents,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *Store) FindOrder(ctx context.Context, id string) (*orders.Order, error) {
	var o orders.Order
	err := s.DB.QueryRow(ctx, `
		SELECT id, customer_id, ordered_at, delivered_at,
		       street, city, state, zip_code, country, phone,
		       total_cents, status, payment_method, payment_status, notes
		FROM orders WHERE id=$1`, id).Scan(
		&o.ID, &o.CustomerID, &o.OrderedAt, &o.DeliveredAt,
		&o.Shipping.Street, &o.Shipping.City, &o.Shipping.State, &o.Shipping.ZipCode, &o.Shipping.Country, &o.Phone,
		&o.TotalCents, &o.Status, &o.PaymentMethod, &o.PaymentStatus, &o.Notes,
	)
	if err != nil {
		return nil, notFound(err, "order not found: %s", id)
	}

	rows, err := s.DB.Query(ctx, `
		SELECT product_id, name, qty, price_cents
		FROM order_lines WHERE order_id=$1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var ln orders.OrderLine
		if err := rows.Scan(&ln.ProductID, &ln.Name, &ln.Qty, &ln.PriceCents); err != nil {
			return nil, err
		}
		o.Lines = append(o.Lines, ln)
	}
	return &o, rows.Err()
}

func (s *Store) FindOrdersByCustomer(ctx context.Context, customerID string, limit, offset int) ([]orders.Order, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.DB.Query(ctx, `
		SELECT id, customer_id, ordered_at, delivered_at,
		       street, city, state, zip_code, country, phone,
		       total_cents, status, payment_method, payment_status, notes
		FROM orders WHERE customer_id=$1
		ORDER BY ordered_at DESC LIMIT $2 OFFSET $3`, customerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []orders.Order
	for rows.Next() {
		var o orders.Order
		if err := rows.Scan(
			&o.ID, &o.CustomerID, &o.OrderedAt, &o.DeliveredAt,
			&o.Shipping.Street, &o.Shipping.City, &o.Shipping.State, &o.Shipping.ZipCode, &o.Shipping.Country, &o.Phone,
			&o.TotalCents, &o.Status, &o.PaymentMethod, &o.PaymentStatus, &o.Notes,
		); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id string, status orders.Status, pay orders.PaymentStatus, deliveredAt *time.Time) error {
	ct, err := s.DB.Exec(ctx, `
		UPDATE orders SET status=$2, payment_status=$3, delivered_at=$4 WHERE id=$1`,
		id, status, pay, deliveredAt)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return orders.Errorf(orders.ErrNotFound, "order not found: %s", id)
	}
	return nil
}

func (s *Store) DeleteOrder(ctx context.Context, id string) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM order_lines WHERE order_id=$1`, id); err != nil {
		return err
	}
	ct, err := tx.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return orders.Errorf(orders.ErrNotFound, "order not found: %s", id)
	}
	return tx.Commit(ctx)
}

// ---- ProductStore ----

func (s *Store) FindProduct(ctx context.Context, id string) (*orders.Product, error) {
	var p orders.Product
	err := s.DB.QueryRow(ctx, `
		SELECT id, name, price_cents, stock, sold, created_at, updated_at
		FROM products WHERE id=$1`, id).Scan(
		&p.ID, &p.Name, &p.PriceCents, &p.Stock, &p.Sold, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "product not found: %s", id)
	}
	return &p, nil
}

// DecrementStock relies on the conditional update for atomicity; zero rows
// affected means insufficient stock, never a negative balance.
func (s *Store) DecrementStock(ctx context.Context, id string, qty int) (bool, error) {
	ct, err := s.DB.Exec(ctx, `
		UPDATE products SET stock = stock - $2, updated_at = now()
		WHERE id=$1 AND stock >= $2`, id, qty)
	if err != nil {
		return false, err
	}
	if ct.RowsAffected() == 1 {
		return true, nil
	}
	// distinguish a short stock from a missing product
	if _, err := s.FindProduct(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

func (s *Store) IncrementStock(ctx context.Context, id string, qty int) error {
	ct, err := s.DB.Exec(ctx, `
		UPDATE products SET stock = stock + $2, updated_at = now() WHERE id=$1`, id, qty)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return orders.Errorf(orders.ErrNotFound, "product not found: %s", id)
	}
	return nil
}

func (s *Store) SetStock(ctx context.Context, id string, qty int) error {
	ct, err := s.DB.Exec(ctx, `
		UPDATE products SET stock = $2, updated_at = now() WHERE id=$1`, id, qty)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return orders.Errorf(orders.ErrNotFound, "product not found: %s", id)
	}
	return nil
}

func (s *Store) IncrementSold(ctx context.Context, id string, qty int) error {
	ct, err := s.DB.Exec(ctx, `
		UPDATE products SET sold = sold + $2, updated_at = now() WHERE id=$1`, id, qty)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return orders.Errorf(orders.ErrNotFound, "product not found: %s", id)
	}
	return nil
}

// ---- CartStore (items kept as a jsonb column) ----

func (s *Store) ActiveCart(ctx context.Context, customerID string) (*orders.Cart, error) {
	var c orders.Cart
	var items []byte
	err := s.DB.QueryRow(ctx, `
		SELECT id, customer_id, items, active, created_at, updated_at
		FROM carts WHERE customer_id=$1 AND active`, customerID).Scan(
		&c.ID, &c.CustomerID, &items, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "no active cart for customer %s", customerID)
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &c.Items); err != nil {
			return nil, err
		}
	}
	return &c, nil
}

func (s *Store) CreateCart(ctx context.Context, c *orders.Cart) error {
	items, err := json.Marshal(c.Items)
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(ctx, `
		INSERT INTO carts(id, customer_id, items, active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		c.ID, c.CustomerID, items, c.Active, c.CreatedAt, c.UpdatedAt)
	return err
}

func (s *Store) UpdateCart(ctx context.Context, c *orders.Cart) error {
	items, err := json.Marshal(c.Items)
	if err != nil {
		return err
	}
	ct, err := s.DB.Exec(ctx, `
		UPDATE carts SET items=$2, active=$3, updated_at=now() WHERE id=$1`,
		c.ID, items, c.Active)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return orders.Errorf(orders.ErrNotFound, "cart not found: %s", c.ID)
	}
	return nil
}

func (s *Store) ClearCart(ctx context.Context, cartID string) error {
	ct, err := s.DB.Exec(ctx, `
		UPDATE carts SET items='[]'::jsonb, updated_at=now() WHERE id=$1`, cartID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return orders.Errorf(orders.ErrNotFound, "cart not found: %s", cartID)
	}
	return nil
}

func (s *Store) DeactivateCart(ctx context.Context, cartID string) error {
	ct, err := s.DB.Exec(ctx, `
		UPDATE carts SET active=false, updated_at=now() WHERE id=$1`, cartID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return orders.Errorf(orders.ErrNotFound, "cart not found: %s", cartID)
	}
	return nil
}

// ---- UserStore ----

func (s *Store) FindUser(ctx context.Context, id string) (*orders.User, error) {
	var u orders.User
	err := s.DB.QueryRow(ctx, `
		SELECT id, name, email, phone, admin FROM users WHERE id=$1`, id).Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &u.Admin)
	if err != nil {
		return nil, notFound(err, "user not found: %s", id)
	}
	return &u, nil
}
