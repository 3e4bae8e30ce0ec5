package couponcache

import (
	"context"
	"time"

	"github.com/QuangTung97/go-memcache/memcache"
)

// MemcacheClient ...
type MemcacheClient struct {
	client *memcache.Client
}

var _ CacheClient = &MemcacheClient{}

// NewMemcacheClient ...
func NewMemcacheClient(addr string, numConns int) *MemcacheClient {
	client, err := memcache.New(addr, numConns, memcache.WithRetryDuration(10*time.Second))
	if err != nil {
		panic(err)
	}
	return &MemcacheClient{
		client: client,
	}
}

// Close ...
func (c *MemcacheClient) Close() error {
	return c.client.Close()
}

// Get ...
func (c *MemcacheClient) Get(_ context.Context, key string) ([]byte, bool, error) {
	pipe := c.client.Pipeline()
	defer pipe.Finish()

	resp, err := pipe.MGet(key, memcache.MGetOptions{})()
	if err != nil {
		return nil, false, err
	}
	if resp.Type != memcache.MGetResponseTypeVA {
		return nil, false, nil
	}
	return resp.Data, true, nil
}

// Set ...
func (c *MemcacheClient) Set(_ context.Context, key string, data []byte, ttlSeconds uint32) error {
	pipe := c.client.Pipeline()
	defer pipe.Finish()

	_, err := pipe.MSet(key, data, memcache.MSetOptions{TTL: ttlSeconds})()
	return err
}

// Delete ...
func (c *MemcacheClient) Delete(_ context.Context, key string) error {
	pipe := c.client.Pipeline()
	defer pipe.Finish()

	_, err := pipe.MDel(key, memcache.MDelOptions{})()
	return err
}
