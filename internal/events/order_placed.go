package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/Sudarshan-812/tiffintales-sub000/internal/order"
)

const (
	orderPlacedEventName    = "OrderPlaced"
	orderPlacedEventVersion = 1
)

// OrderPlacedPayload is the v1 payload carried to the seller's client when a
// buyer submits a cart.
type OrderPlacedPayload struct {
	OrderID    string      `json:"orderId"`
	BuyerID    string      `json:"buyerId"`
	SellerID   string      `json:"sellerId"`
	Lines      []OrderLine `json:"lines"`
	TotalPrice int64       `json:"totalPrice"`
	Timestamp  time.Time   `json:"timestamp"`
}

type OrderLine struct {
	ItemID    string `json:"itemId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
}

type OrderPlacedEnvelope = EventEnvelope[OrderPlacedPayload]

// BuildOrderPlacedEnvelope builds an enveloped OrderPlaced event.
func BuildOrderPlacedEnvelope(o *order.Order, seq int64) OrderPlacedEnvelope {
	lines := make([]OrderLine, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, OrderLine{
			ItemID:    l.ItemID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}

	return OrderPlacedEnvelope{
		EventName:    orderPlacedEventName,
		EventVersion: orderPlacedEventVersion,
		EventID:      uuid.NewString(),
		Producer:     producerName,
		PartitionKey: o.ID,
		Sequence:     &seq,
		OccurredAt:   time.Now().UTC(),
		Payload: OrderPlacedPayload{
			OrderID:    o.ID,
			BuyerID:    o.BuyerID,
			SellerID:   o.SellerID,
			Lines:      lines,
			TotalPrice: o.TotalPrice,
			Timestamp:  o.CreatedAt,
		},
	}
}
