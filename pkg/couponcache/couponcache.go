package couponcache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/VishalDET/ASG/model"
	"github.com/VishalDET/ASG/pkg/memtable"
	"github.com/VishalDET/ASG/pkg/util"
)

// CacheClient for remote cache (like memcached)
type CacheClient interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttlSeconds uint32) error
	Delete(ctx context.Context, key string) error
}

// Cache is a two level read-through cache for coupon lookups by code.
// It is a convenience layer only; the database stays the source of truth
// and entries are deleted whenever a coupon is mutated.
type Cache struct {
	mem    *memtable.MemTable
	client CacheClient

	ttlSeconds uint32
}

// New ...
func New(mem *memtable.MemTable, client CacheClient, ttlSeconds uint32) *Cache {
	return &Cache{
		mem:        mem,
		client:     client,
		ttlSeconds: ttlSeconds,
	}
}

func cacheKey(code string) string {
	return fmt.Sprintf("coupon:%08x:%s", util.HashFunc(code), code)
}

// Get returns the cached coupon for code, if any. A decode failure is
// treated as a miss, never as an error.
func (c *Cache) Get(ctx context.Context, code string) (model.NullCoupon, error) {
	key := cacheKey(code)

	if data, ok := c.mem.GetBytes(key); ok {
		if coupon, ok := decode(data); ok {
			return model.NullCoupon{Valid: true, Coupon: coupon}, nil
		}
		c.mem.Delete(key)
	}

	data, ok, err := c.client.Get(ctx, key)
	if err != nil {
		return model.NullCoupon{}, err
	}
	if !ok {
		return model.NullCoupon{}, nil
	}

	coupon, ok := decode(data)
	if !ok {
		_ = c.client.Delete(ctx, key)
		return model.NullCoupon{}, nil
	}

	c.mem.SetBytes(key, data, int(c.ttlSeconds))
	return model.NullCoupon{Valid: true, Coupon: coupon}, nil
}

// Set ...
func (c *Cache) Set(ctx context.Context, coupon model.Coupon) error {
	data, err := json.Marshal(coupon)
	if err != nil {
		return err
	}

	key := cacheKey(coupon.Code)
	c.mem.SetBytes(key, data, int(c.ttlSeconds))
	return c.client.Set(ctx, key, data, c.ttlSeconds)
}

// Delete removes the entry from both levels, called after any mutation.
func (c *Cache) Delete(ctx context.Context, code string) error {
	key := cacheKey(code)
	c.mem.Delete(key)
	return c.client.Delete(ctx, key)
}

func decode(data []byte) (model.Coupon, bool) {
	var coupon model.Coupon
	if err := json.Unmarshal(data, &coupon); err != nil {
		return model.Coupon{}, false
	}
	return coupon, true
}
