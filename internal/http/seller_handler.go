package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Sudarshan-812/tiffintales-sub000/internal/geo"
	"github.com/Sudarshan-812/tiffintales-sub000/internal/seller"
)

type SellerHandler struct {
	repo seller.Repository
}

func NewSellerHandler(repo seller.Repository) *SellerHandler {
	return &SellerHandler{repo: repo}
}

func (h *SellerHandler) GetSeller(w http.ResponseWriter, r *http.Request) {
	sellerID := chi.URLParam(r, "sellerId")
	if sellerID == "" {
		writeError(w, http.StatusBadRequest, "missing sellerId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	s, err := h.repo.GetByID(ctx, sellerID)
	if err != nil {
		if errors.Is(err, seller.ErrNotFound) {
			writeError(w, http.StatusNotFound, "seller not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load seller")
		return
	}

	writeJSON(w, http.StatusOK, s)
}

// PutLocation sets the chef's kitchen coordinate. The fee quoter reads it
// back from the profile row, never from a client-side guess.
func (h *SellerHandler) PutLocation(w http.ResponseWriter, r *http.Request) {
	sellerID := chi.URLParam(r, "sellerId")
	if sellerID == "" {
		writeError(w, http.StatusBadRequest, "missing sellerId")
		return
	}

	var p geo.Point
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.repo.UpsertLocation(ctx, sellerID, p); err != nil {
		if errors.Is(err, seller.ErrNotFound) {
			writeError(w, http.StatusNotFound, "seller not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update location")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
