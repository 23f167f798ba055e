package idempotency_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/shopcanvas/storefront/pkg/idempotency"
)

func TestSeen(t *testing.T) {
	ctx := t.Context()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)

	addr, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	opts, err := goredis.ParseURL(addr)
	require.NoError(t, err)

	store := idempotency.NewStore(goredis.NewClient(opts), time.Minute)

	key := idempotency.CheckoutKey(uuid.New(), "submit-1")

	seen, err := store.Seen(ctx, key)
	require.NoError(t, err)
	require.False(t, seen)

	seen, err = store.Seen(ctx, key)
	require.NoError(t, err)
	require.True(t, seen)

	// a different key for the same store is independent
	seen, err = store.Seen(ctx, idempotency.CheckoutKey(uuid.New(), "submit-1"))
	require.NoError(t, err)
	require.False(t, seen)

	// a forgotten key can be submitted again
	require.NoError(t, store.Forget(ctx, key))
	seen, err = store.Seen(ctx, key)
	require.NoError(t, err)
	require.False(t, seen)
}

func TestKeys(t *testing.T) {
	storeID := uuid.MustParse("5f0a3cb2-1f71-4dd0-9b60-eb203a9fd0b2")

	require.Equal(t,
		"checkout:5f0a3cb2-1f71-4dd0-9b60-eb203a9fd0b2:abc",
		idempotency.CheckoutKey(storeID, "abc"))
	require.Equal(t, "msg:storefront.orders:2:41", idempotency.MessageKey("storefront.orders", 2, 41))
}
