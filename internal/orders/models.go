package orders

import "time"

type Product struct {
	ID         string
	Name       string
	PriceCents int
	Stock      int
	Sold       int // lifetime units, bumped on delivery confirmation only
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type ShippingAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
}

// OrderLine snapshots name and price at order time; later product price
// changes do not touch persisted orders.
type OrderLine struct {
	ProductID  string `json:"product_id"`
	Name       string `json:"name"`
	Qty        int    `json:"qty"`
	PriceCents int    `json:"price_cents"`
}

type Order struct {
	ID            string
	CustomerID    string
	OrderedAt     time.Time
	DeliveredAt   *time.Time
	Lines         []OrderLine
	Shipping      ShippingAddress
	Phone         string
	TotalCents    int
	Status        Status
	PaymentMethod PaymentMethod
	PaymentStatus PaymentStatus
	Notes         string
}

// LineTotal recomputes the total from the lines. The builder guarantees
// TotalCents == LineTotal() on every order it produces.
func (o *Order) LineTotal() int {
	total := 0
	for _, ln := range o.Lines {
		total += ln.PriceCents * ln.Qty
	}
	return total
}

type CartItem struct {
	ProductID  string `json:"product_id"`
	Name       string `json:"name"`
	Qty        int    `json:"qty"`
	PriceCents int    `json:"price_cents"`
}

// Cart is the single active cart of a customer. Converting it into an order
// deactivates it; the next add creates a fresh one.
type Cart struct {
	ID         string
	CustomerID string
	Items      []CartItem
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (c *Cart) TotalCents() int {
	total := 0
	for _, it := range c.Items {
		total += it.PriceCents * it.Qty
	}
	return total
}

type User struct {
	ID    string
	Name  string
	Email string
	Phone string
	Admin bool
}

// ShippingInfo is the client-supplied part of a new order.
type ShippingInfo struct {
	Address       ShippingAddress `json:"address"`
	Phone         string          `json:"phone"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Notes         string          `json:"notes,omitempty"`
}

// Line is a requested (product, qty) pair before snapshots are taken.
type Line struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}
