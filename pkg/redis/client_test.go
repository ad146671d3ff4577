package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petparadise/petparadise-api/pkg/config"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	raw := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = raw.Close() })
	return NewFromRaw(raw), mr
}

func TestFixedWindowAllow(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t)

	allowed, count, err := client.FixedWindowAllow(ctx, "test-scope", 2, time.Second)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.EqualValues(t, 1, count)
	assert.Equal(t, time.Second, mr.TTL("pp:rate_limit:test-scope"))

	allowed, count, err = client.FixedWindowAllow(ctx, "test-scope", 2, time.Second)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.EqualValues(t, 2, count)

	allowed, _, err = client.FixedWindowAllow(ctx, "test-scope", 2, time.Second)
	require.NoError(t, err)
	assert.False(t, allowed, "expected limit reached")

	mr.FastForward(2 * time.Second)
	allowed, count, err = client.FixedWindowAllow(ctx, "test-scope", 2, time.Second)
	require.NoError(t, err)
	assert.True(t, allowed, "window should reset after ttl")
	assert.EqualValues(t, 1, count)
}

func TestSetGetDel(t *testing.T) {
	ctx := context.Background()
	client, _ := newTestClient(t)

	require.NoError(t, client.Set(ctx, client.CartKey("user-1"), "payload", time.Minute))
	got, err := client.Get(ctx, client.CartKey("user-1"))
	require.NoError(t, err)
	assert.Equal(t, "payload", got)

	require.NoError(t, client.Del(ctx, client.CartKey("user-1")))
	_, err = client.Get(ctx, client.CartKey("user-1"))
	assert.ErrorIs(t, err, Nil)
}

func TestSetNX(t *testing.T) {
	ctx := context.Background()
	client, _ := newTestClient(t)

	ok, err := client.SetNX(ctx, "k", "first", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = client.SetNX(ctx, "k", "second", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	assert.Equal(t, "pp:idempotency:scope:id", client.IdempotencyKey("scope", "id"))
	assert.Equal(t, "pp:rate_limit:scope", client.RateLimitKey("scope"))
	assert.Equal(t, "pp:cart:user-1", client.CartKey("user-1"))
}

func TestUninitializedClient(t *testing.T) {
	client := &Client{}
	assert.Error(t, client.Ping(context.Background()))
	assert.NoError(t, client.Close())
}

func TestOptionsFromConfig(t *testing.T) {
	_, err := optionsFromConfig(config.RedisConfig{})
	assert.Error(t, err)

	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://localhost:6379/2", PoolSize: 7})
	require.NoError(t, err)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 7, opts.PoolSize)

	opts, err = optionsFromConfig(config.RedisConfig{Address: "cache:6379", DB: 3})
	require.NoError(t, err)
	assert.Equal(t, "cache:6379", opts.Addr)
	assert.Equal(t, 3, opts.DB)
}

func TestSnapshotRejectsOlderVersion(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t)
	key := client.CartKey("user-1")

	written, err := client.SetSnapshot(ctx, key, "v2", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, written)
	assert.Equal(t, time.Minute, mr.TTL(key))

	written, err = client.SetSnapshot(ctx, key, "v1", 1, time.Minute)
	require.NoError(t, err)
	assert.False(t, written, "older version must not overwrite")

	got, err := client.GetSnapshot(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "v2", got)

	written, err = client.SetSnapshot(ctx, key, "v2-again", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, written, "same version may be rewritten")
}

func TestDropSnapshotKeepsVersionFloor(t *testing.T) {
	ctx := context.Background()
	client, _ := newTestClient(t)
	key := client.CartKey("user-1")

	_, err := client.SetSnapshot(ctx, key, "v1", 1, time.Minute)
	require.NoError(t, err)
	require.NoError(t, client.DropSnapshot(ctx, key, 3, time.Minute))

	_, err = client.GetSnapshot(ctx, key)
	assert.ErrorIs(t, err, Nil)

	written, err := client.SetSnapshot(ctx, key, "v2", 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, written, "snapshot below the dropped version must be rejected")

	written, err = client.SetSnapshot(ctx, key, "v3", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, written)

	require.NoError(t, client.DropSnapshot(ctx, key, 1, time.Minute))
	written, err = client.SetSnapshot(ctx, key, "v2", 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, written, "dropping with a lower version keeps the higher floor")
}
