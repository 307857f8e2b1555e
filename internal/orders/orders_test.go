package orders

import (
	"errors"
	"testing"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusPreparing, true},
		{StatusPending, StatusDelivered, true},
		{StatusPreparing, StatusReady, true},
		{StatusReady, StatusPreparing, false},
		{StatusDelivered, StatusPending, false},
		{StatusCancelled, StatusPreparing, false},
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestErrorKindMatching(t *testing.T) {
	err := Errorf(ErrInsufficientStock, "product %s: requested %d, available %d", "pho", 5, 2)

	if !errors.Is(err, ErrInsufficientStock) {
		t.Error("expected err to match ErrInsufficientStock")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("expected err not to match ErrNotFound")
	}

	var oerr *Error
	if !errors.As(err, &oerr) {
		t.Fatal("expected err to unwrap to *Error")
	}
	if oerr.Kind != ErrInsufficientStock.Kind {
		t.Errorf("expected kind %q, got %q", ErrInsufficientStock.Kind, oerr.Kind)
	}
}

func TestLineTotal(t *testing.T) {
	o := &Order{Lines: []OrderLine{
		{ProductID: "a", Qty: 2, PriceCents: 1200},
		{ProductID: "b", Qty: 3, PriceCents: 450},
	}}
	if got, want := o.LineTotal(), 2*1200+3*450; got != want {
		t.Errorf("LineTotal() = %d, want %d", got, want)
	}
}
