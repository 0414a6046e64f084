// Package cart holds a buyer's in-progress basket. A cart only ever contains
// dishes from a single seller; crossing that line is an explicit decision the
// buyer has to confirm, never a silent merge.
package cart

import (
	"errors"
	"sync"
)

// ErrSellerConflict is returned by AddItem when the cart already holds lines
// from a different seller. The caller either confirms with Replace or leaves
// the cart as it was.
var ErrSellerConflict = errors.New("cart holds items from another seller")

// Item is a catalog dish as the buyer picks it. UnitPrice is in whole rupees.
type Item struct {
	ItemID    string `json:"itemId"`
	SellerID  string `json:"sellerId"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unitPrice"`
}

// Line is one cart row. Merging the same item bumps Quantity instead of
// appending a duplicate line.
type Line struct {
	ItemID    string `json:"itemId"`
	SellerID  string `json:"sellerId"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
}

// Cart is owned by one buyer session but touched by concurrent requests, so
// every method takes the mutex. Construct with New; the zero value is not
// usable.
type Cart struct {
	mu      sync.Mutex
	buyerID string
	lines   []Line
}

func New(buyerID string) *Cart {
	return &Cart{buyerID: buyerID}
}

func (c *Cart) BuyerID() string { return c.buyerID }

// SellerID returns the seller all lines belong to, or "" for an empty cart.
func (c *Cart) SellerID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sellerID()
}

// sellerID is the lock-free form for callers already holding c.mu.
func (c *Cart) sellerID() string {
	if len(c.lines) == 0 {
		return ""
	}
	return c.lines[0].SellerID
}

func (c *Cart) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines) == 0
}

// Lines returns a copy so callers cannot mutate the cart behind its back.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copyLines()
}

func (c *Cart) copyLines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Snapshot reads seller, lines, and total under one lock so a concurrent add
// can never produce a snapshot whose total disagrees with its lines.
func (c *Cart) Snapshot() (sellerID string, lines []Line, total int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sellerID(), c.copyLines(), c.total()
}

// AddItem appends the item with quantity 1, or increments the existing line
// for the same item. Adding across sellers fails with ErrSellerConflict and
// leaves the cart untouched; there is no quantity ceiling.
func (c *Cart) AddItem(item Item) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.add(item)
}

func (c *Cart) add(item Item) error {
	if seller := c.sellerID(); seller != "" && seller != item.SellerID {
		return ErrSellerConflict
	}

	for i := range c.lines {
		if c.lines[i].ItemID == item.ItemID {
			c.lines[i].Quantity++
			return nil
		}
	}

	c.lines = append(c.lines, Line{
		ItemID:    item.ItemID,
		SellerID:  item.SellerID,
		Name:      item.Name,
		UnitPrice: item.UnitPrice,
		Quantity:  1,
	})
	return nil
}

// Replace resolves a seller conflict the buyer confirmed: the old cart is
// discarded and a fresh single-item cart starts for the new seller.
func (c *Cart) Replace(item Item) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
	_ = c.add(item)
}

// RemoveItem decrements the line's quantity, dropping the line entirely at
// quantity 1. An unknown itemID is a no-op, not an error.
func (c *Cart) RemoveItem(itemID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ItemID != itemID {
			continue
		}
		if c.lines[i].Quantity > 1 {
			c.lines[i].Quantity--
			return
		}
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
		return
	}
}

// Clear empties the cart unconditionally. Called after a successful order
// submission and on sign-out.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// Total is the sum of unitPrice*quantity over all lines, in whole rupees.
func (c *Cart) Total() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total()
}

func (c *Cart) total() int64 {
	var sum int64
	for _, l := range c.lines {
		sum += l.UnitPrice * int64(l.Quantity)
	}
	return sum
}
