package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Sudarshan-812/tiffintales-sub000/internal/cart"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrNotFound          = errors.New("order not found")
	ErrNotSeller         = errors.New("order belongs to another seller")
	ErrIllegalTransition = errors.New("illegal status transition")
)

// Publisher fans a lifecycle change out to the buyer's change feed.
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, o *Order) error
	PublishStatusChanged(ctx context.Context, o *Order) error
}

// Service enforces the order lifecycle. Transitions are seller-driven;
// submission snapshots the buyer's cart.
type Service struct {
	repo   Repository
	carts  *cart.Store
	pub    Publisher
	logger *log.Logger
}

func NewService(repo Repository, carts *cart.Store, pub Publisher, logger *log.Logger) *Service {
	return &Service{repo: repo, carts: carts, pub: pub, logger: logger}
}

// Submit turns the buyer's cart into a pending order. Line unit prices are
// copied from the cart so later catalog changes never affect the order. The
// cart is cleared only after the order is durably stored; on any store error
// the cart stays as it was so the buyer can retry.
func (s *Service) Submit(ctx context.Context, buyerID string) (*Order, error) {
	c := s.carts.Get(buyerID)
	sellerID, lines, total := c.Snapshot()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	o := &Order{
		BuyerID:    buyerID,
		SellerID:   sellerID,
		TotalPrice: total,
		CreatedAt:  time.Now().UTC(),
	}
	for _, l := range lines {
		o.Lines = append(o.Lines, Line{
			ItemID:    l.ItemID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	c.Clear()

	// The stored row is the source of truth; a lost event only delays the
	// seller's list refresh.
	if err := s.pub.PublishOrderPlaced(ctx, o); err != nil {
		s.logger.Printf("publish order placed %s: %v", o.ID, err)
	}

	return o, nil
}

// Accept moves a pending order to cooking.
func (s *Service) Accept(ctx context.Context, sellerID, orderID string) (*Order, error) {
	return s.transition(ctx, sellerID, orderID, StatusCooking)
}

// Reject moves a pending order to rejected.
func (s *Service) Reject(ctx context.Context, sellerID, orderID string) (*Order, error) {
	return s.transition(ctx, sellerID, orderID, StatusRejected)
}

// MarkReady moves a cooking order to ready.
func (s *Service) MarkReady(ctx context.Context, sellerID, orderID string) (*Order, error) {
	return s.transition(ctx, sellerID, orderID, StatusReady)
}

// transition applies a single forward step. Re-issuing an already-applied
// transition (seller double-tap) is a no-op that returns the current order;
// any other source state that does not permit the move is reported as
// ErrIllegalTransition. On a store error nothing advances and the caller
// re-invokes.
func (s *Service) transition(ctx context.Context, sellerID, orderID string, to Status) (*Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	if o == nil {
		return nil, ErrNotFound
	}
	if o.SellerID != sellerID {
		return nil, ErrNotSeller
	}

	if o.Status == to {
		return o, nil
	}
	if !o.Status.CanTransitionTo(to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, o.Status, to)
	}

	applied, err := s.repo.UpdateStatus(ctx, orderID, o.Status, to)
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	if !applied {
		// Lost a race with another transition on the same row. Re-read and
		// treat "already there" as success, anything else as illegal.
		o, err = s.repo.GetByID(ctx, orderID)
		if err != nil {
			return nil, fmt.Errorf("reload order: %w", err)
		}
		if o == nil {
			return nil, ErrNotFound
		}
		if o.Status == to {
			return o, nil
		}
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, o.Status, to)
	}

	o.Status = to

	if err := s.pub.PublishStatusChanged(ctx, o); err != nil {
		// A lost event is not replayed; the buyer still sees the stored
		// status the next time they list or fetch the order.
		s.logger.Printf("publish status change %s -> %s: %v", o.ID, to, err)
	}

	return o, nil
}
