package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, orderID string) (*Order, error)
	ListByBuyer(ctx context.Context, buyerID string) ([]Order, error)
	ListBySeller(ctx context.Context, sellerID string, status Status) ([]Order, error)
	// UpdateStatus performs the conditional single-field transition. It
	// reports applied=false when the row was not in `from`, which callers
	// use to resolve double-taps without a hard failure.
	UpdateStatus(ctx context.Context, orderID string, from, to Status) (applied bool, err error)
}

type repo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repo{db: db}
}

func (r *repo) Create(ctx context.Context, o *Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	o.Status = StatusPending

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO orders (id, buyer_id, seller_id, total_price, status, created_at)
         VALUES ($1, $2, $3, $4, $5, $6)`,
		o.ID, o.BuyerID, o.SellerID, o.TotalPrice, o.Status, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, l := range o.Lines {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_lines (id, order_id, item_id, name, quantity, unit_price)
             VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.NewString(), o.ID, l.ItemID, l.Name, l.Quantity, l.UnitPrice,
		)
		if err != nil {
			return fmt.Errorf("insert order_line: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *repo) GetByID(ctx context.Context, orderID string) (*Order, error) {
	var o Order
	var rawStatus string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, buyer_id, seller_id, total_price, status, created_at
         FROM orders WHERE id = $1`,
		orderID,
	).Scan(&o.ID, &o.BuyerID, &o.SellerID, &o.TotalPrice, &rawStatus, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select order: %w", err)
	}

	if o.Status, err = ParseStatus(rawStatus); err != nil {
		return nil, err
	}

	if o.Lines, err = r.loadLines(ctx, o.ID); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repo) ListByBuyer(ctx context.Context, buyerID string) ([]Order, error) {
	return r.list(ctx,
		`SELECT id, buyer_id, seller_id, total_price, status, created_at
         FROM orders WHERE buyer_id = $1 ORDER BY created_at DESC`,
		buyerID,
	)
}

func (r *repo) ListBySeller(ctx context.Context, sellerID string, status Status) ([]Order, error) {
	if status == "" {
		return r.list(ctx,
			`SELECT id, buyer_id, seller_id, total_price, status, created_at
             FROM orders WHERE seller_id = $1 ORDER BY created_at DESC`,
			sellerID,
		)
	}
	return r.list(ctx,
		`SELECT id, buyer_id, seller_id, total_price, status, created_at
         FROM orders WHERE seller_id = $1 AND status = $2 ORDER BY created_at DESC`,
		sellerID, status,
	)
}

func (r *repo) list(ctx context.Context, query string, args ...any) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		var rawStatus string
		if err := rows.Scan(&o.ID, &o.BuyerID, &o.SellerID, &o.TotalPrice, &rawStatus, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		if o.Status, err = ParseStatus(rawStatus); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	for i := range orders {
		if orders[i].Lines, err = r.loadLines(ctx, orders[i].ID); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *repo) loadLines(ctx context.Context, orderID string) ([]Line, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT item_id, name, quantity, unit_price FROM order_lines WHERE order_id = $1`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("select order_lines: %w", err)
	}
	defer rows.Close()

	var lines []Line
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ItemID, &l.Name, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan order_line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return lines, nil
}

func (r *repo) UpdateStatus(ctx context.Context, orderID string, from, to Status) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $3 WHERE id = $1 AND status = $2`,
		orderID, from, to,
	)
	if err != nil {
		return false, fmt.Errorf("update status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n == 1, nil
}
