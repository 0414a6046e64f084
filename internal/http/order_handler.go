package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Sudarshan-812/tiffintales-sub000/internal/order"
)

// OrderService is the slice of order.Service the handlers need.
type OrderService interface {
	Submit(ctx context.Context, buyerID string) (*order.Order, error)
	Accept(ctx context.Context, sellerID, orderID string) (*order.Order, error)
	Reject(ctx context.Context, sellerID, orderID string) (*order.Order, error)
	MarkReady(ctx context.Context, sellerID, orderID string) (*order.Order, error)
}

type OrderHandler struct {
	svc  OrderService
	repo order.Repository
}

func NewOrderHandler(svc OrderService, repo order.Repository) *OrderHandler {
	return &OrderHandler{svc: svc, repo: repo}
}

func (h *OrderHandler) Submit(w http.ResponseWriter, r *http.Request) {
	buyerID := chi.URLParam(r, "buyerId")
	if buyerID == "" {
		writeError(w, http.StatusBadRequest, "missing buyerId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.svc.Submit(ctx, buyerID)
	if err != nil {
		if errors.Is(err, order.ErrEmptyCart) {
			writeError(w, http.StatusUnprocessableEntity, "cart is empty")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to submit order")
		return
	}

	writeJSON(w, http.StatusCreated, o)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "missing orderId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.repo.GetByID(ctx, orderID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load order")
		return
	}
	if o == nil {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}

	writeJSON(w, http.StatusOK, o)
}

func (h *OrderHandler) ListByBuyer(w http.ResponseWriter, r *http.Request) {
	buyerID := chi.URLParam(r, "buyerId")
	if buyerID == "" {
		writeError(w, http.StatusBadRequest, "missing buyerId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orders, err := h.repo.ListByBuyer(ctx, buyerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load orders")
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// ListBySeller returns the seller's orders, optionally filtered by lifecycle
// state (?status=pending is the chef's incoming-orders screen).
func (h *OrderHandler) ListBySeller(w http.ResponseWriter, r *http.Request) {
	sellerID := chi.URLParam(r, "sellerId")
	if sellerID == "" {
		writeError(w, http.StatusBadRequest, "missing sellerId")
		return
	}

	var status order.Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		var err error
		if status, err = order.ParseStatus(raw); err != nil {
			writeError(w, http.StatusBadRequest, "invalid status filter")
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orders, err := h.repo.ListBySeller(ctx, sellerID, status)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load orders")
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.Accept)
}

func (h *OrderHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.Reject)
}

func (h *OrderHandler) MarkReady(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.MarkReady)
}

func (h *OrderHandler) transition(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, sellerID, orderID string) (*order.Order, error)) {
	sellerID := chi.URLParam(r, "sellerId")
	orderID := chi.URLParam(r, "orderId")
	if sellerID == "" || orderID == "" {
		writeError(w, http.StatusBadRequest, "missing sellerId or orderId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := apply(ctx, sellerID, orderID)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, o)
	case errors.Is(err, order.ErrNotFound):
		writeError(w, http.StatusNotFound, "order not found")
	case errors.Is(err, order.ErrNotSeller):
		writeError(w, http.StatusForbidden, "order belongs to another seller")
	case errors.Is(err, order.ErrIllegalTransition):
		writeError(w, http.StatusConflict, "illegal status transition")
	default:
		// The store write failed; the client must re-invoke, nothing has
		// advanced.
		writeError(w, http.StatusInternalServerError, "failed to update order")
	}
}
