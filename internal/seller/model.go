package seller

import "github.com/Sudarshan-812/tiffintales-sub000/internal/geo"

// Seller is a home chef's profile. Kitchen is nil until the chef has set a
// location; fee quoting degrades to the minimum fee in that case.
type Seller struct {
	ID      string     `json:"sellerId"`
	Name    string     `json:"name"`
	Address string     `json:"address"`
	Kitchen *geo.Point `json:"kitchen,omitempty"`
}
