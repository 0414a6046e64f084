// Package geo holds the pure distance and delivery-pricing rules shared by
// the cart and order components. No I/O, no state.
package geo

import "math"

const (
	// earthRadiusKm is the mean radius used for great-circle distances.
	earthRadiusKm = 6371.0

	// RangeKm is the maximum distance at which a kitchen accepts orders.
	RangeKm = 5.0

	// RatePerKm and MinFee define the delivery-fee tiering in rupees.
	RatePerKm = 10
	MinFee    = 20
)

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// HaversineDistanceKm returns the great-circle distance between two points.
// Either point being nil yields 0, since device location is frequently
// unavailable and callers treat that as "no distance known".
func HaversineDistanceKm(a, b *Point) float64 {
	if a == nil || b == nil {
		return 0
	}

	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// IsOutOfRange reports whether a kitchen at the given distance is too far to
// order from. The gate itself lives in the presentation layer; the threshold
// is a domain rule.
func IsOutOfRange(distanceKm float64) bool {
	return distanceKm > RangeKm
}

// DeliveryFee returns the fee in rupees for the given distance. The flat
// minimum keeps short-distance orders from rounding to near-zero fees.
func DeliveryFee(distanceKm float64) int64 {
	fee := int64(math.Round(distanceKm * RatePerKm))
	if fee < MinFee {
		return MinFee
	}
	return fee
}
