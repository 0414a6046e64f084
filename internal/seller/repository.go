package seller

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Sudarshan-812/tiffintales-sub000/internal/geo"
)

var ErrNotFound = errors.New("seller not found")

// DBPool matches the methods from *pgxpool.Pool that we use.
// This allows us to mock the database in tests.
type DBPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type Repository interface {
	GetByID(ctx context.Context, sellerID string) (*Seller, error)
	UpsertLocation(ctx context.Context, sellerID string, kitchen geo.Point) error
	KitchenLocation(ctx context.Context, sellerID string) (*geo.Point, error)
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) GetByID(ctx context.Context, sellerID string) (*Seller, error) {
	var s Seller
	var lat, lon sql.NullFloat64

	row := r.pool.QueryRow(ctx,
		`SELECT id, name, address, kitchen_lat, kitchen_lon FROM sellers WHERE id=$1`,
		sellerID,
	)
	if err := row.Scan(&s.ID, &s.Name, &s.Address, &lat, &lon); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select seller: %w", err)
	}

	if lat.Valid && lon.Valid {
		s.Kitchen = &geo.Point{Lat: lat.Float64, Lon: lon.Float64}
	}
	return &s, nil
}

func (r *PostgresRepository) UpsertLocation(ctx context.Context, sellerID string, kitchen geo.Point) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE sellers SET kitchen_lat=$2, kitchen_lon=$3, updated_at=now() WHERE id=$1`,
		sellerID, kitchen.Lat, kitchen.Lon,
	)
	if err != nil {
		return fmt.Errorf("update kitchen location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// KitchenLocation satisfies cart.SellerLocator. The coordinate always comes
// from the stored profile row.
func (r *PostgresRepository) KitchenLocation(ctx context.Context, sellerID string) (*geo.Point, error) {
	s, err := r.GetByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	return s.Kitchen, nil
}
