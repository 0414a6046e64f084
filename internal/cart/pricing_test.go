package cart

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sudarshan-812/tiffintales-sub000/internal/geo"
)

type fakeLocator struct {
	locFunc func(ctx context.Context, sellerID string) (*geo.Point, error)
}

func (f *fakeLocator) KitchenLocation(ctx context.Context, sellerID string) (*geo.Point, error) {
	if f.locFunc != nil {
		return f.locFunc(ctx, sellerID)
	}
	return nil, nil
}

func discard() *log.Logger { return log.New(io.Discard, "", 0) }

func TestQuoteFor_EmptyCartFallsBack(t *testing.T) {
	p := NewPricer(&fakeLocator{}, discard())

	q := p.QuoteFor(context.Background(), New("buyer-1"), &geo.Point{Lat: 28.6, Lon: 77.2})

	assert.Equal(t, int64(geo.MinFee), q.Fee)
	assert.Equal(t, 0.0, q.DistanceKm)
	assert.False(t, q.OutOfRange)
}

func TestQuoteFor_NoPositionFallsBack(t *testing.T) {
	p := NewPricer(&fakeLocator{}, discard())
	c := New("buyer-1")
	require.NoError(t, c.AddItem(paneerThali))

	q := p.QuoteFor(context.Background(), c, nil)

	assert.Equal(t, int64(geo.MinFee), q.Fee)
}

func TestQuoteFor_UsesSellerProfileLocation(t *testing.T) {
	var asked string
	kitchen := &geo.Point{Lat: 28.5494, Lon: 77.2001}
	p := NewPricer(&fakeLocator{
		locFunc: func(ctx context.Context, sellerID string) (*geo.Point, error) {
			asked = sellerID
			return kitchen, nil
		},
	}, discard())

	c := New("buyer-1")
	require.NoError(t, c.AddItem(paneerThali))

	q := p.QuoteFor(context.Background(), c, &geo.Point{Lat: 28.6315, Lon: 77.2167})

	assert.Equal(t, "chef-a", asked)
	assert.InDelta(t, 9.2, q.DistanceKm, 0.3)
	assert.Equal(t, geo.DeliveryFee(q.DistanceKm), q.Fee)
	assert.True(t, q.OutOfRange)
}

func TestQuoteFor_LocatorErrorFallsBack(t *testing.T) {
	p := NewPricer(&fakeLocator{
		locFunc: func(ctx context.Context, sellerID string) (*geo.Point, error) {
			return nil, errors.New("db down")
		},
	}, discard())

	c := New("buyer-1")
	require.NoError(t, c.AddItem(paneerThali))

	q := p.QuoteFor(context.Background(), c, &geo.Point{Lat: 28.6, Lon: 77.2})

	assert.Equal(t, int64(geo.MinFee), q.Fee)
	assert.False(t, q.OutOfRange)
}
