// Package httpapi exposes the cart and order lifecycle over JSON HTTP for
// the mobile clients.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(carts *CartHandler, orders *OrderHandler, sellers *SellerHandler, feed *FeedHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/health", healthHandler)

	r.Route("/api/buyers/{buyerId}", func(r chi.Router) {
		r.Get("/cart", carts.GetCart)
		r.Post("/cart/items", carts.AddItem)
		r.Delete("/cart/items/{itemId}", carts.RemoveItem)
		r.Delete("/cart", carts.ClearCart)

		r.Post("/orders", orders.Submit)
		r.Get("/orders", orders.ListByBuyer)
		r.Get("/orders/feed", feed.Stream)
	})

	r.Route("/api/sellers/{sellerId}", func(r chi.Router) {
		r.Get("/", sellers.GetSeller)
		r.Put("/location", sellers.PutLocation)

		r.Get("/orders", orders.ListBySeller)
		r.Post("/orders/{orderId}/accept", orders.Accept)
		r.Post("/orders/{orderId}/reject", orders.Reject)
		r.Post("/orders/{orderId}/ready", orders.MarkReady)
	})

	r.Get("/api/orders/{orderId}", orders.GetOrder)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "order-service",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
