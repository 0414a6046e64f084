package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Sudarshan-812/tiffintales-sub000/internal/events"
)

// StatusFeed is the slice of events.Feed the handler needs.
type StatusFeed interface {
	Subscribe(ctx context.Context, buyerID string, h events.Handler) (events.Subscription, error)
}

// FeedHandler streams order-status changes to the buyer over SSE so the app
// reflects seller-driven transitions without polling.
type FeedHandler struct {
	feed   StatusFeed
	logger *log.Logger
}

func NewFeedHandler(feed StatusFeed, logger *log.Logger) *FeedHandler {
	return &FeedHandler{feed: feed, logger: logger}
}

func (h *FeedHandler) Stream(w http.ResponseWriter, r *http.Request) {
	buyerID := chi.URLParam(r, "buyerId")
	if buyerID == "" {
		writeError(w, http.StatusBadRequest, "missing buyerId")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	// The subscription goroutine hands updates to this channel; only the
	// request goroutine writes the response.
	updates := make(chan events.StatusUpdate, 16)
	sub, err := h.feed.Subscribe(r.Context(), buyerID, func(u events.StatusUpdate) {
		select {
		case updates <- u:
		default:
			h.logger.Printf("feed: dropping update for slow client %s", buyerID)
		}
	})
	if err != nil {
		h.logger.Printf("feed: subscribe %s: %v", buyerID, err)
		writeError(w, http.StatusServiceUnavailable, "change feed unavailable")
		return
	}
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case u := <-updates:
			body, err := json.Marshal(u)
			if err != nil {
				h.logger.Printf("feed: marshal update: %v", err)
				continue
			}
			fmt.Fprintf(w, "event: status\ndata: %s\n\n", body)
			flusher.Flush()
		}
	}
}
