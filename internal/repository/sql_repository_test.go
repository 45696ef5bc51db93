package repository

import (
	"context"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zedlink-test/My-Shop/internal/domain"
)

func setupSQLiteDB(t *testing.T) *SQLRepository {
	t.Helper()
	ctx := context.Background()

	repo, err := NewSQLiteRepository(ctx, ":memory:")
	require.NoError(t, err)
	require.NoError(t, repo.RunMigrations())
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLite_RunMigrationsTwice(t *testing.T) {
	repo := setupSQLiteDB(t)
	assert.NoError(t, repo.RunMigrations())
	assert.NoError(t, repo.Ping(context.Background()))
	assert.Equal(t, DialectSQLite, repo.Dialect())
}

func TestSQLite_ProductRoundTrip(t *testing.T) {
	repo := setupSQLiteDB(t)
	ctx := context.Background()
	f := gofakeit.New(7)

	p := newTestProduct(f, "Perfume")
	require.NoError(t, repo.CreateProduct(ctx, p))
	require.NotEmpty(t, p.ID)
	require.False(t, p.CreatedAt.IsZero())

	got, err := repo.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, p.Description, got.Description)
	assert.True(t, p.Price.Equal(got.Price))
	assert.Equal(t, "Perfume", got.Category)
	require.Len(t, got.Sizes, 2)
	assert.Equal(t, "100ml", got.Sizes[1].Label)
	assert.True(t, p.Sizes[1].Price.Equal(got.Sizes[1].Price))
	assert.WithinDuration(t, p.CreatedAt, got.CreatedAt, time.Second)
}

func TestSQLite_ProductWithoutSizes(t *testing.T) {
	repo := setupSQLiteDB(t)
	ctx := context.Background()

	p := &domain.Product{Name: "Musk", Price: decimal.NewFromInt(1200), Category: "General", Image: domain.PlaceholderImage}
	require.NoError(t, repo.CreateProduct(ctx, p))

	got, err := repo.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Sizes)
}

func TestSQLite_ListProductsByCategory(t *testing.T) {
	repo := setupSQLiteDB(t)
	ctx := context.Background()
	f := gofakeit.New(11)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, category := range []string{"Perfume", "Oils", "Perfume"} {
		p := newTestProduct(f, category)
		p.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, repo.CreateProduct(ctx, p))
	}

	all, err := repo.ListProducts(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].CreatedAt.After(all[1].CreatedAt))

	perfumes, err := repo.ListProducts(ctx, "Perfume")
	require.NoError(t, err)
	assert.Len(t, perfumes, 2)

	none, err := repo.ListProducts(ctx, "Shoes")
	require.NoError(t, err)
	assert.Empty(t, none)

	n, err := repo.CountProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestSQLite_UpdateAndDeleteProduct(t *testing.T) {
	repo := setupSQLiteDB(t)
	ctx := context.Background()
	p := newTestProduct(gofakeit.New(3), "Perfume")
	require.NoError(t, repo.CreateProduct(ctx, p))

	p.Name = "Renamed"
	p.Price = decimal.NewFromInt(9999)
	p.Sizes = nil
	require.NoError(t, repo.UpdateProduct(ctx, p))

	got, err := repo.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.True(t, decimal.NewFromInt(9999).Equal(got.Price))
	assert.Nil(t, got.Sizes)

	require.NoError(t, repo.DeleteProduct(ctx, p.ID))
	_, err = repo.GetProduct(ctx, p.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)

	assert.ErrorIs(t, repo.DeleteProduct(ctx, p.ID), ErrProductNotFound)
	assert.ErrorIs(t, repo.UpdateProduct(ctx, p), ErrProductNotFound)
}

func TestSQLite_OrderRoundTrip(t *testing.T) {
	repo := setupSQLiteDB(t)
	ctx := context.Background()

	o := newTestOrder(time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC))
	require.NoError(t, repo.InsertOrder(ctx, o))

	got, err := repo.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.Customer, got.Customer)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Royal Oud", got.Items[0].Name)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.True(t, decimal.NewFromInt(9000).Equal(got.Subtotal))
	assert.True(t, decimal.NewFromInt(400).Equal(got.DeliveryFee))
	assert.True(t, decimal.NewFromInt(9400).Equal(got.Total))
	assert.Equal(t, domain.OrderStatusPending, got.Status)
	assert.True(t, o.CreatedAt.Equal(got.CreatedAt))
}

func TestSQLite_InsertOrderDuplicate(t *testing.T) {
	repo := setupSQLiteDB(t)
	ctx := context.Background()

	o := newTestOrder(time.Now())
	require.NoError(t, repo.InsertOrder(ctx, o))
	assert.ErrorIs(t, repo.InsertOrder(ctx, o), ErrDuplicateOrder)
}

func TestSQLite_ListOrdersNewestFirst(t *testing.T) {
	repo := setupSQLiteDB(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	older := newTestOrder(base)
	newer := newTestOrder(base.Add(time.Hour))
	require.NoError(t, repo.InsertOrder(ctx, older))
	require.NoError(t, repo.InsertOrder(ctx, newer))

	orders, err := repo.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, newer.ID, orders[0].ID)
	assert.Equal(t, older.ID, orders[1].ID)
}

func TestSQLite_OrderStatusAndDelete(t *testing.T) {
	repo := setupSQLiteDB(t)
	ctx := context.Background()

	o := newTestOrder(time.Now())
	require.NoError(t, repo.InsertOrder(ctx, o))

	require.NoError(t, repo.UpdateOrderStatus(ctx, o.ID, domain.OrderStatusPending, domain.OrderStatusShipped))
	got, err := repo.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusShipped, got.Status)

	// A writer that still believes the order is pending loses.
	err = repo.UpdateOrderStatus(ctx, o.ID, domain.OrderStatusPending, domain.OrderStatusConfirmed)
	assert.ErrorIs(t, err, ErrStatusChanged)
	got, err = repo.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusShipped, got.Status)

	require.NoError(t, repo.DeleteOrder(ctx, o.ID))
	_, err = repo.GetOrder(ctx, o.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.ErrorIs(t, repo.UpdateOrderStatus(ctx, o.ID, domain.OrderStatusShipped, domain.OrderStatusDelivered), ErrOrderNotFound)
	assert.ErrorIs(t, repo.DeleteOrder(ctx, o.ID), ErrOrderNotFound)
}

func TestSQLite_CancelledContext(t *testing.T) {
	repo := setupSQLiteDB(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.ListProducts(ctx, "")
	assert.ErrorIs(t, err, context.Canceled)
}
