package cart

import (
	"context"
	"log"

	"github.com/Sudarshan-812/tiffintales-sub000/internal/geo"
)

// SellerLocator resolves a seller's kitchen coordinate from its profile
// record. Implemented by the seller repository.
type SellerLocator interface {
	KitchenLocation(ctx context.Context, sellerID string) (*geo.Point, error)
}

// Quote is the delivery estimate shown alongside the cart.
type Quote struct {
	DistanceKm float64 `json:"distanceKm"`
	Fee        int64   `json:"deliveryFee"`
	OutOfRange bool    `json:"outOfRange"`
}

// Pricer computes delivery quotes for a cart. The seller coordinate always
// comes from the stored profile, never from a guessed fallback.
type Pricer struct {
	sellers SellerLocator
	logger  *log.Logger
}

func NewPricer(sellers SellerLocator, logger *log.Logger) *Pricer {
	return &Pricer{sellers: sellers, logger: logger}
}

// QuoteFor prices delivery for the cart given the buyer's last known
// position. An empty cart, a missing position, or an unresolvable seller
// degrade to distance 0 and the minimum fee rather than an error, since
// location is permission-gated on the device.
func (p *Pricer) QuoteFor(ctx context.Context, c *Cart, buyerPos *geo.Point) Quote {
	fallback := Quote{Fee: geo.MinFee}

	if c.IsEmpty() || buyerPos == nil {
		return fallback
	}

	kitchen, err := p.sellers.KitchenLocation(ctx, c.SellerID())
	if err != nil {
		p.logger.Printf("quote: resolve seller %s location: %v", c.SellerID(), err)
		return fallback
	}

	d := geo.HaversineDistanceKm(buyerPos, kitchen)
	return Quote{
		DistanceKm: d,
		Fee:        geo.DeliveryFee(d),
		OutOfRange: geo.IsOutOfRange(d),
	}
}
