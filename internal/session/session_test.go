package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zedlink-test/My-Shop/internal/domain"
)

func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, time.Hour), mr
}

func sampleLines() []domain.CartLine {
	return []domain.CartLine{
		{ProductID: "p1", Name: "Royal Oud", Size: "50ml", Quantity: 2, FinalPrice: decimal.NewFromInt(4500)},
		{ProductID: "p2", Name: "Musk", Quantity: 1, FinalPrice: decimal.RequireFromString("1250.50")},
	}
}

func stores(t *testing.T) map[string]Store {
	redisStore, _ := setupTestRedis(t)
	return map[string]Store{
		"redis":  redisStore,
		"memory": NewMemoryStore(),
	}
}

func TestStore_RoundTrip(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Save(ctx, "sid-1", sampleLines()))

			lines, err := store.Load(ctx, "sid-1")
			require.NoError(t, err)
			require.Len(t, lines, 2)
			assert.Equal(t, "50ml", lines[0].Size)
			assert.Equal(t, 2, lines[0].Quantity)
			assert.True(t, decimal.NewFromInt(4500).Equal(lines[0].FinalPrice))
			assert.True(t, decimal.RequireFromString("1250.50").Equal(lines[1].FinalPrice))
		})
	}
}

func TestStore_Missing(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Load(context.Background(), "nobody")
			assert.ErrorIs(t, err, ErrCartNotFound)
		})
	}
}

func TestStore_SaveEmptyDeletes(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Save(ctx, "sid", sampleLines()))
			require.NoError(t, store.Save(ctx, "sid", nil))

			_, err := store.Load(ctx, "sid")
			assert.ErrorIs(t, err, ErrCartNotFound)
		})
	}
}

func TestStore_Delete(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Save(ctx, "sid", sampleLines()))
			require.NoError(t, store.Delete(ctx, "sid"))
			require.NoError(t, store.Delete(ctx, "sid"))

			_, err := store.Load(ctx, "sid")
			assert.ErrorIs(t, err, ErrCartNotFound)
		})
	}
}

func TestRedisStore_KeyAndTTL(t *testing.T) {
	store, mr := setupTestRedis(t)
	require.NoError(t, store.Save(context.Background(), "abc", sampleLines()))

	assert.True(t, mr.Exists("cart:abc"))
	ttl := mr.TTL("cart:abc")
	assert.GreaterOrEqual(t, ttl, time.Hour)
	assert.Less(t, ttl, 2*time.Hour)
}

func TestRedisStore_Expires(t *testing.T) {
	store, mr := setupTestRedis(t)
	require.NoError(t, store.Save(context.Background(), "abc", sampleLines()))

	mr.FastForward(3 * time.Hour)

	_, err := store.Load(context.Background(), "abc")
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestRedisStore_InvalidJSON(t *testing.T) {
	store, mr := setupTestRedis(t)
	require.NoError(t, mr.Set("cart:bad", "{not json"))

	_, err := store.Load(context.Background(), "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCartNotFound)
}

func TestRedisStore_ConnectionError(t *testing.T) {
	store, mr := setupTestRedis(t)
	mr.Close()

	_, err := store.Load(context.Background(), "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis get failed")
}

func TestMemoryStore_CopiesLines(t *testing.T) {
	store := NewMemoryStore()
	lines := sampleLines()
	require.NoError(t, store.Save(context.Background(), "sid", lines))
	lines[0].Quantity = 99

	got, err := store.Load(context.Background(), "sid")
	require.NoError(t, err)
	assert.Equal(t, 2, got[0].Quantity)
}
