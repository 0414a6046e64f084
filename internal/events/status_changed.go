package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/Sudarshan-812/tiffintales-sub000/internal/order"
)

const (
	statusChangedEventName    = "OrderStatusChanged"
	statusChangedEventVersion = 1
)

// StatusChangedPayload is the v1 payload fanned out to the buyer's change
// feed after a seller-driven transition.
type StatusChangedPayload struct {
	OrderID   string       `json:"orderId"`
	BuyerID   string       `json:"buyerId"`
	SellerID  string       `json:"sellerId"`
	Status    order.Status `json:"status"`
	Timestamp time.Time    `json:"timestamp"`
}

type StatusChangedEnvelope = EventEnvelope[StatusChangedPayload]

// BuildStatusChangedEnvelope builds an enveloped OrderStatusChanged event.
// seq is per-order and monotonic, so subscribers can discard stale or
// redelivered updates.
func BuildStatusChangedEnvelope(o *order.Order, seq int64) StatusChangedEnvelope {
	return StatusChangedEnvelope{
		EventName:    statusChangedEventName,
		EventVersion: statusChangedEventVersion,
		EventID:      uuid.NewString(),
		Producer:     producerName,
		PartitionKey: o.ID,
		Sequence:     &seq,
		OccurredAt:   time.Now().UTC(),
		Payload: StatusChangedPayload{
			OrderID:   o.ID,
			BuyerID:   o.BuyerID,
			SellerID:  o.SellerID,
			Status:    o.Status,
			Timestamp: time.Now().UTC(),
		},
	}
}
