package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-food-orders.git/internal/facade"
	"github.com/ariefcatur/go-food-orders.git/internal/orders"
	"github.com/ariefcatur/go-food-orders.git/internal/service"
)

// Handler is deliberately thin: decode, call the facade, translate the
// error kind. No business rules live here.
type Handler struct {
	Facade *facade.Facade
	Carts  *service.CartService
}

func (h *Handler) Register(r *chi.Mux) {
	r.Post("/orders", h.createOrder)
	r.Get("/orders", h.listOrders)
	r.Get("/orders/{id}", h.getOrder)
	r.Get("/orders/{id}/status", h.getOrderStatus)
	r.Post("/orders/{id}/cancel", h.cancelOrder)
	r.Post("/orders/{id}/status", h.updateStatus)
	r.Post("/orders/{id}/complete", h.completeOrder)
	r.Post("/orders/undo", h.undo)
	r.Get("/cart", h.getCart)
	r.Post("/cart/items", h.addCartItem)
	r.Put("/cart/items", h.updateCartItem)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	msg := "internal error"
	var oerr *orders.Error
	if errors.As(err, &oerr) {
		msg = oerr.Message
		switch {
		case errors.Is(err, orders.ErrValidation):
			code = http.StatusBadRequest
		case errors.Is(err, orders.ErrNotFound):
			code = http.StatusNotFound
		case errors.Is(err, orders.ErrInsufficientStock), errors.Is(err, orders.ErrIllegalTransition):
			code = http.StatusConflict
		case errors.Is(err, orders.ErrUnauthorized):
			code = http.StatusForbidden
		}
	}
	writeJSON(w, code, map[string]string{"error": msg})
}

func reqCtx(r *http.Request, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), d)
}

// requester identity comes from a header; real authentication is an
// upstream concern.
func userID(r *http.Request) string { return r.Header.Get("X-User-Id") }

type createOrderReq struct {
	CustomerID string              `json:"customer_id"`
	Shipping   orders.ShippingInfo `json:"shipping"`
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.CustomerID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing customer_id"})
		return
	}

	ctx, cancel := reqCtx(r, 5*time.Second)
	defer cancel()

	o, err := h.Facade.CreateOrderFromCart(ctx, req.CustomerID, req.Shipping)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r, 3*time.Second)
	defer cancel()

	o, err := h.Facade.GetOrderByID(ctx, chi.URLParam(r, "id"), userID(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) getOrderStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r, 3*time.Second)
	defer cancel()

	st, pay, err := h.Facade.OrderStatus(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(st), "payment_status": string(pay)})
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	customerID := r.URL.Query().Get("customer_id")
	if customerID == "" {
		customerID = userID(r)
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	ctx, cancel := reqCtx(r, 3*time.Second)
	defer cancel()

	out, err := h.Facade.GetCustomerOrders(ctx, customerID, limit, offset)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r, 5*time.Second)
	defer cancel()

	if err := h.Facade.CancelOrder(ctx, chi.URLParam(r, "id"), userID(r)); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"result": "cancelled"})
}

type updateStatusReq struct {
	Status        orders.Status        `json:"status"`
	PaymentStatus orders.PaymentStatus `json:"payment_status"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := reqCtx(r, 5*time.Second)
	defer cancel()

	o, err := h.Facade.UpdateOrderStatus(ctx, chi.URLParam(r, "id"), req.Status, req.PaymentStatus)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) completeOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r, 5*time.Second)
	defer cancel()

	o, err := h.Facade.CompleteOrder(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

type undoReq struct {
	OrderID string `json:"order_id,omitempty"`
}

func (h *Handler) undo(w http.ResponseWriter, r *http.Request) {
	var req undoReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	ctx, cancel := reqCtx(r, 5*time.Second)
	defer cancel()

	var err error
	if req.OrderID != "" {
		err = h.Facade.UndoLastForOrder(ctx, req.OrderID)
	} else {
		err = h.Facade.UndoLastOperation(ctx)
	}
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"result": "undone"})
}

type cartItemReq struct {
	CustomerID string `json:"customer_id"`
	ProductID  string `json:"product_id"`
	Qty        int    `json:"qty"`
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req cartItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := reqCtx(r, 3*time.Second)
	defer cancel()

	cart, err := h.Carts.AddItem(ctx, req.CustomerID, req.ProductID, req.Qty)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	var req cartItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := reqCtx(r, 3*time.Second)
	defer cancel()

	cart, err := h.Carts.UpdateItemQty(ctx, req.CustomerID, req.ProductID, req.Qty)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	customerID := r.URL.Query().Get("customer_id")
	if customerID == "" {
		customerID = userID(r)
	}

	ctx, cancel := reqCtx(r, 3*time.Second)
	defer cancel()

	cart, err := h.Carts.Get(ctx, customerID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}
