package order

import "time"

// Line is an immutable snapshot of a cart line at submission time. UnitPrice
// is copied, not referenced, so later catalog edits never touch placed
// orders.
type Line struct {
	ItemID    string `json:"itemId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
}

type Order struct {
	ID         string    `json:"orderId"`
	BuyerID    string    `json:"buyerId"`
	SellerID   string    `json:"sellerId"`
	Lines      []Line    `json:"lines"`
	TotalPrice int64     `json:"totalPrice"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}
