package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sudarshan-812/tiffintales-sub000/internal/order"
	"github.com/Sudarshan-812/tiffintales-sub000/internal/testutil"
)

func TestOrderRepository_RoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, cleanup := testutil.StartPostgres(ctx, t)
	defer cleanup()

	repo := order.NewRepository(db)

	o := &order.Order{
		BuyerID:    "buyer-1",
		SellerID:   "chef-a",
		TotalPrice: 250,
		CreatedAt:  time.Now().UTC(),
		Lines: []order.Line{
			{ItemID: "dish-1", Name: "Paneer Thali", Quantity: 2, UnitPrice: 100},
			{ItemID: "dish-2", Name: "Dal Rice", Quantity: 1, UnitPrice: 50},
		},
	}
	require.NoError(t, repo.Create(ctx, o))
	require.NotEmpty(t, o.ID)

	got, err := repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, order.StatusPending, got.Status)
	assert.Equal(t, int64(250), got.TotalPrice)
	require.Len(t, got.Lines, 2)

	quantities := map[string]int{}
	for _, l := range got.Lines {
		quantities[l.ItemID] = l.Quantity
	}
	assert.Equal(t, map[string]int{"dish-1": 2, "dish-2": 1}, quantities)
}

func TestOrderRepository_ListBySellerStatusFilter(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, cleanup := testutil.StartPostgres(ctx, t)
	defer cleanup()

	repo := order.NewRepository(db)

	for n := 0; n < 2; n++ {
		require.NoError(t, repo.Create(ctx, &order.Order{
			BuyerID: "buyer-1", SellerID: "chef-a", TotalPrice: 100, CreatedAt: time.Now().UTC(),
			Lines: []order.Line{{ItemID: "dish-1", Name: "Paneer Thali", Quantity: 1, UnitPrice: 100}},
		}))
	}

	cooking := &order.Order{
		BuyerID: "buyer-2", SellerID: "chef-a", TotalPrice: 50, CreatedAt: time.Now().UTC(),
		Lines: []order.Line{{ItemID: "dish-2", Name: "Dal Rice", Quantity: 1, UnitPrice: 50}},
	}
	require.NoError(t, repo.Create(ctx, cooking))

	applied, err := repo.UpdateStatus(ctx, cooking.ID, order.StatusPending, order.StatusCooking)
	require.NoError(t, err)
	require.True(t, applied)

	pending, err := repo.ListBySeller(ctx, "chef-a", order.StatusPending)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	all, err := repo.ListBySeller(ctx, "chef-a", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestOrderRepository_ConditionalStatusUpdate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, cleanup := testutil.StartPostgres(ctx, t)
	defer cleanup()

	repo := order.NewRepository(db)

	o := &order.Order{
		BuyerID: "buyer-1", SellerID: "chef-a", TotalPrice: 100, CreatedAt: time.Now().UTC(),
		Lines: []order.Line{{ItemID: "dish-1", Name: "Paneer Thali", Quantity: 1, UnitPrice: 100}},
	}
	require.NoError(t, repo.Create(ctx, o))

	applied, err := repo.UpdateStatus(ctx, o.ID, order.StatusPending, order.StatusCooking)
	require.NoError(t, err)
	assert.True(t, applied)

	// Second identical attempt (double-tap) matches nothing.
	applied, err = repo.UpdateStatus(ctx, o.ID, order.StatusPending, order.StatusCooking)
	require.NoError(t, err)
	assert.False(t, applied)

	got, err := repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusCooking, got.Status)
}
