package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/petparadise/petparadise-api/pkg/redis"
)

const defaultCacheTTL = 5 * time.Minute

type cacheStore interface {
	GetSnapshot(ctx context.Context, key string) (string, error)
	SetSnapshot(ctx context.Context, key, value string, version int64, ttl time.Duration) (bool, error)
	DropSnapshot(ctx context.Context, key string, version int64, ttl time.Duration) error
	CartKey(userID string) string
}

// RedisCache keeps JSON cart snapshots under the namespaced cart key. Each
// entry records the cart version it was taken at, and a write carrying an
// older version than the recorded one is ignored.
type RedisCache struct {
	store cacheStore
	ttl   time.Duration
}

func NewRedisCache(store cacheStore, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &RedisCache{store: store, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, userID uuid.UUID) (*Cart, bool, error) {
	raw, err := c.store.GetSnapshot(ctx, c.store.CartKey(userID.String()))
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var cart Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return nil, false, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	if cart.Items == nil {
		cart.Items = []LineItem{}
	}
	return &cart, true, nil
}

func (c *RedisCache) Set(ctx context.Context, cart *Cart) error {
	payload, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}
	if _, err := c.store.SetSnapshot(ctx, c.store.CartKey(cart.UserID.String()), string(payload), cart.Version, c.ttl); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Invalidate drops the snapshot and blocks snapshots older than version.
func (c *RedisCache) Invalidate(ctx context.Context, userID uuid.UUID, version int64) error {
	if err := c.store.DropSnapshot(ctx, c.store.CartKey(userID.String()), version, c.ttl); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}
