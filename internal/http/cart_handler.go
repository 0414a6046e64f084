package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Sudarshan-812/tiffintales-sub000/internal/cart"
	"github.com/Sudarshan-812/tiffintales-sub000/internal/geo"
)

type CartHandler struct {
	carts  *cart.Store
	pricer *cart.Pricer
}

func NewCartHandler(carts *cart.Store, pricer *cart.Pricer) *CartHandler {
	return &CartHandler{carts: carts, pricer: pricer}
}

type cartResponse struct {
	BuyerID  string      `json:"buyerId"`
	SellerID string      `json:"sellerId"`
	Lines    []cart.Line `json:"lines"`
	Total    int64       `json:"totalPrice"`
	Quote    *cart.Quote `json:"quote,omitempty"`
}

func (h *CartHandler) respond(w http.ResponseWriter, status int, c *cart.Cart, q *cart.Quote) {
	writeJSON(w, status, cartResponse{
		BuyerID:  c.BuyerID(),
		SellerID: c.SellerID(),
		Lines:    c.Lines(),
		Total:    c.Total(),
		Quote:    q,
	})
}

// GetCart returns the cart with a delivery quote. The buyer's position comes
// in as lat/lon query params; both absent means location permission was
// denied and the quote falls back to the minimum fee.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	buyerID := chi.URLParam(r, "buyerId")
	if buyerID == "" {
		writeError(w, http.StatusBadRequest, "missing buyerId")
		return
	}

	c := h.carts.Get(buyerID)
	q := h.pricer.QuoteFor(r.Context(), c, positionFromQuery(r))
	h.respond(w, http.StatusOK, c, &q)
}

type addItemRequest struct {
	ItemID    string `json:"itemId"`
	SellerID  string `json:"sellerId"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unitPrice"`

	// Replace confirms a seller switch: discard the cart and start over
	// with this item. Never implied.
	Replace bool `json:"replace"`
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	buyerID := chi.URLParam(r, "buyerId")
	if buyerID == "" {
		writeError(w, http.StatusBadRequest, "missing buyerId")
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.ItemID == "" || req.SellerID == "" {
		writeError(w, http.StatusBadRequest, "missing itemId or sellerId")
		return
	}
	if req.UnitPrice < 0 {
		writeError(w, http.StatusBadRequest, "negative unitPrice")
		return
	}

	c := h.carts.Get(buyerID)
	item := cart.Item{ItemID: req.ItemID, SellerID: req.SellerID, Name: req.Name, UnitPrice: req.UnitPrice}

	err := c.AddItem(item)
	if errors.Is(err, cart.ErrSellerConflict) {
		if !req.Replace {
			writeJSON(w, http.StatusConflict, map[string]string{
				"error":         "cart holds items from another seller",
				"currentSeller": c.SellerID(),
			})
			return
		}
		c.Replace(item)
	}

	h.respond(w, http.StatusOK, c, nil)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	buyerID := chi.URLParam(r, "buyerId")
	itemID := chi.URLParam(r, "itemId")
	if buyerID == "" || itemID == "" {
		writeError(w, http.StatusBadRequest, "missing buyerId or itemId")
		return
	}

	c := h.carts.Get(buyerID)
	c.RemoveItem(itemID)
	h.respond(w, http.StatusOK, c, nil)
}

// ClearCart drops the session's cart entirely. The client calls this on
// sign-out.
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	buyerID := chi.URLParam(r, "buyerId")
	if buyerID == "" {
		writeError(w, http.StatusBadRequest, "missing buyerId")
		return
	}

	h.carts.Drop(buyerID)
	w.WriteHeader(http.StatusNoContent)
}

func positionFromQuery(r *http.Request) *geo.Point {
	latRaw := r.URL.Query().Get("lat")
	lonRaw := r.URL.Query().Get("lon")
	if latRaw == "" || lonRaw == "" {
		return nil
	}

	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		return nil
	}
	lon, err := strconv.ParseFloat(lonRaw, 64)
	if err != nil {
		return nil
	}
	return &geo.Point{Lat: lat, Lon: lon}
}
