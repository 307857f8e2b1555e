package redisx

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Cache is the facade's optional Redis sidecar: status reads and the
// cart-conversion idempotency key. Every method degrades to a miss on Redis
// errors; the store stays the source of truth.
type Cache struct {
	R *redis.Client
}

func NewCache(r *redis.Client) *Cache { return &Cache{R: r} }

type CachedStatus struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
}

func (c *Cache) SetOrderStatus(ctx context.Context, orderID string, st CachedStatus) {
	b, err := json.Marshal(st)
	if err != nil {
		return
	}
	key := fmt.Sprintf(KeyOrderStatus, orderID)
	_ = c.R.Set(ctx, key, b, TTLStatusCache).Err()
}

func (c *Cache) OrderStatus(ctx context.Context, orderID string) (CachedStatus, bool) {
	key := fmt.Sprintf(KeyOrderStatus, orderID)
	raw, err := c.R.Get(ctx, key).Result()
	if err != nil {
		return CachedStatus{}, false
	}
	var st CachedStatus
	if json.Unmarshal([]byte(raw), &st) != nil {
		return CachedStatus{}, false
	}
	return st, true
}

func (c *Cache) DropOrderStatus(ctx context.Context, orderID string) {
	_ = c.R.Del(ctx, fmt.Sprintf(KeyOrderStatus, orderID)).Err()
}

// AcquireCartConversion claims a cart for conversion; false means another
// request already converted (or is converting) this cart.
func (c *Cache) AcquireCartConversion(ctx context.Context, cartID string) (bool, error) {
	key := fmt.Sprintf(KeyIdemCartConvert, cartID)
	return c.R.SetNX(ctx, key, 1, TTLIdempotency).Result()
}

func (c *Cache) ReleaseCartConversion(ctx context.Context, cartID string) {
	_ = c.R.Del(ctx, fmt.Sprintf(KeyIdemCartConvert, cartID)).Err()
}

// SeenEvent marks an event id as processed by a service and reports whether
// it had been seen before (notifier dedup).
func (c *Cache) SeenEvent(ctx context.Context, service, eventID string) bool {
	key := fmt.Sprintf(KeyDedup, service, eventID)
	ok, err := c.R.SetNX(ctx, key, 1, TTLDedup).Result()
	if err != nil {
		return false
	}
	return !ok
}
