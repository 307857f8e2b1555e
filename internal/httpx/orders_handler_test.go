package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ariefcatur/go-food-orders.git/internal/eventbus"
	"github.com/ariefcatur/go-food-orders.git/internal/facade"
	"github.com/ariefcatur/go-food-orders.git/internal/inventory"
	"github.com/ariefcatur/go-food-orders.git/internal/orders"
	"github.com/ariefcatur/go-food-orders.git/internal/service"
	"github.com/ariefcatur/go-food-orders.git/internal/store/memory"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	st := memory.New()
	st.SeedUser(orders.User{ID: "cust-1", Name: "Linh"})
	st.SeedProduct(orders.Product{ID: "pho", Name: "Pho Bo", PriceCents: 1200, Stock: 10})

	inv := inventory.NewService(st)
	ordersvc := service.NewOrderService(st, inv)
	cartsvc := service.NewCartService(st, st)
	fac := facade.New(ordersvc, cartsvc, eventbus.New())

	r := NewRouter()
	h := &Handler{Facade: fac, Carts: cartsvc}
	h.Register(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	b, _ := json.Marshal(body)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	return resp
}

func TestCreateOrderEndToEnd(t *testing.T) {
	srv := newServer(t)

	resp := postJSON(t, srv.URL+"/cart/items", map[string]any{
		"customer_id": "cust-1", "product_id": "pho", "qty": 2,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add cart item: status %d", resp.StatusCode)
	}

	resp = postJSON(t, srv.URL+"/orders", map[string]any{
		"customer_id": "cust-1",
		"shipping": map[string]any{
			"phone":          "+84123456789",
			"payment_method": "cash",
			"address":        map[string]string{"street": "1 Tran Phu", "city": "Hanoi"},
		},
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create order: status %d", resp.StatusCode)
	}

	var created struct {
		ID         string `json:"ID"`
		TotalCents int    `json:"TotalCents"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.TotalCents != 2400 {
		t.Errorf("expected total 2400, got %d", created.TotalCents)
	}

	sresp, err := http.Get(srv.URL + "/orders/" + created.ID + "/status")
	if err != nil {
		t.Fatalf("get status: %v", err)
	}
	defer sresp.Body.Close()
	var status map[string]string
	if err := json.NewDecoder(sresp.Body).Decode(&status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status["status"] != "pending" || status["payment_status"] != "pending" {
		t.Errorf("unexpected status payload: %v", status)
	}
}

func TestCreateOrder_EmptyCartIsBadRequest(t *testing.T) {
	srv := newServer(t)

	resp := postJSON(t, srv.URL+"/orders", map[string]any{
		"customer_id": "cust-1",
		"shipping":    map[string]any{"payment_method": "cash"},
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty cart, got %d", resp.StatusCode)
	}
}

func TestGetOrder_StrangerIsForbidden(t *testing.T) {
	srv := newServer(t)

	resp := postJSON(t, srv.URL+"/cart/items", map[string]any{
		"customer_id": "cust-1", "product_id": "pho", "qty": 1,
	})
	resp.Body.Close()
	resp = postJSON(t, srv.URL+"/orders", map[string]any{
		"customer_id": "cust-1",
		"shipping":    map[string]any{"payment_method": "cash"},
	})
	var created struct {
		ID string `json:"ID"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/orders/"+created.ID, nil)
	req.Header.Set("X-User-Id", "somebody-else")
	got, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	defer got.Body.Close()
	if got.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403, got %d", got.StatusCode)
	}
}

func TestUndoEndpoint_EmptyHistory(t *testing.T) {
	srv := newServer(t)

	resp := postJSON(t, srv.URL+"/orders/undo", map[string]any{})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for empty history, got %d", resp.StatusCode)
	}
}
