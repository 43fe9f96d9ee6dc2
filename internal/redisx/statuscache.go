package redisx

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// StatusEntry: isi cache status order. Customer/farmer id ikut disimpan
// supaya cache hit pun tetap bisa dicek otorisasinya, bukan cuma jalur
// fallback ke store.
type StatusEntry struct {
	Status     string    `json:"status"`
	UpdatedAt  time.Time `json:"updated_at"`
	CustomerID string    `json:"customer_id"`
	FarmerID   string    `json:"farmer_id"`
}

// OrderStatusCache: cache best-effort di atas Redis; error dianggap miss.
type OrderStatusCache struct{ R *redis.Client }

func (c *OrderStatusCache) Get(ctx context.Context, orderID string) (StatusEntry, bool) {
	key := fmt.Sprintf(KeyOrderStatus, orderID)
	s, err := c.R.Get(ctx, key).Result()
	if err != nil || s == "" {
		return StatusEntry{}, false
	}
	var e StatusEntry
	if err := json.Unmarshal([]byte(s), &e); err != nil {
		return StatusEntry{}, false
	}
	return e, true
}

func (c *OrderStatusCache) Set(ctx context.Context, orderID string, e StatusEntry) {
	key := fmt.Sprintf(KeyOrderStatus, orderID)
	b, err := json.Marshal(e)
	if err != nil {
		return
	}
	_ = c.R.Set(ctx, key, b, TTLStatusCache).Err()
}
