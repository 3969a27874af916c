package session

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickshop/backend/internal/domain/cart"
	"github.com/quickshop/backend/internal/domain/shared/valueobject"
)

// setupRedisCartStore creates a miniredis server and a store pointing at it
func setupRedisCartStore(t *testing.T) (*RedisCartStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	return NewRedisCartStoreWithClient(client, "quickshop:cart:", time.Hour), mr
}

func testSnapshot() cart.ProductSnapshot {
	return cart.ProductSnapshot{
		ProductID: uuid.New(),
		Name:      "Ceramic Mug",
		UnitPrice: valueobject.NewMoneyUSDFromFloat(12.50),
		Category:  "drinkware",
	}
}

func TestRedisCartStore_Get_Miss(t *testing.T) {
	store, _ := setupRedisCartStore(t)

	c, err := store.Get(context.Background(), "sess-1")

	require.NoError(t, err)
	assert.Equal(t, "sess-1", c.SessionID)
	assert.True(t, c.IsEmpty())
}

func TestRedisCartStore_Get_EmptySession(t *testing.T) {
	store, _ := setupRedisCartStore(t)

	_, err := store.Get(context.Background(), "")

	assert.ErrorIs(t, err, cart.ErrEmptySession)
}

func TestRedisCartStore_PutAndGet(t *testing.T) {
	store, _ := setupRedisCartStore(t)
	ctx := context.Background()

	c, err := cart.NewCart("sess-1")
	require.NoError(t, err)
	require.NoError(t, c.AddItem(testSnapshot(), 2))

	require.NoError(t, store.Put(ctx, c))

	loaded, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", loaded.SessionID)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, 2, loaded.Items[0].Quantity)
	assert.Equal(t, "12.50", loaded.Items[0].UnitPrice.StringFixed(2))
}

func TestRedisCartStore_Put_SetsTTL(t *testing.T) {
	store, mr := setupRedisCartStore(t)

	c, err := cart.NewCart("sess-ttl")
	require.NoError(t, err)

	require.NoError(t, store.Put(context.Background(), c))

	ttl := mr.TTL("quickshop:cart:sess-ttl")
	assert.Equal(t, time.Hour, ttl)
}

func TestRedisCartStore_Get_CorruptPayload(t *testing.T) {
	store, mr := setupRedisCartStore(t)

	require.NoError(t, mr.Set("quickshop:cart:sess-bad", "{not json"))

	_, err := store.Get(context.Background(), "sess-bad")

	require.ErrorContains(t, err, "failed to decode cart")
}

func TestRedisCartStore_Delete(t *testing.T) {
	store, mr := setupRedisCartStore(t)
	ctx := context.Background()

	c, err := cart.NewCart("sess-1")
	require.NoError(t, err)
	require.NoError(t, c.AddItem(testSnapshot(), 1))
	require.NoError(t, store.Put(ctx, c))
	require.True(t, mr.Exists("quickshop:cart:sess-1"))

	require.NoError(t, store.Delete(ctx, "sess-1"))

	assert.False(t, mr.Exists("quickshop:cart:sess-1"))
}

func TestRedisCartStore_Delete_Absent(t *testing.T) {
	store, _ := setupRedisCartStore(t)

	err := store.Delete(context.Background(), "sess-none")

	assert.NoError(t, err)
}

func TestRedisCartStore_StoredPayloadIsJSON(t *testing.T) {
	store, mr := setupRedisCartStore(t)

	c, err := cart.NewCart("sess-json")
	require.NoError(t, err)
	require.NoError(t, c.AddItem(testSnapshot(), 3))
	require.NoError(t, store.Put(context.Background(), c))

	stored, err := mr.Get("quickshop:cart:sess-json")
	require.NoError(t, err)

	var decoded cart.Cart
	require.NoError(t, json.Unmarshal([]byte(stored), &decoded))
	assert.Equal(t, "sess-json", decoded.SessionID)
	require.Len(t, decoded.Items, 1)
	assert.Equal(t, 3, decoded.Items[0].Quantity)
}

func TestNewRedisCartStoreWithClient_DefaultPrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := NewRedisCartStoreWithClient(client, "", time.Hour)

	assert.Equal(t, "quickshop:cart:", store.keyPrefix)
}
