package memtable

import (
	"github.com/coocood/freecache"
)

// MemTable is a small in-process cache in front of the remote cache,
// holding marshalled records with a short TTL (with eviction).
type MemTable struct {
	cache *freecache.Cache
}

// New creates freecache with size
func New(size int) *MemTable {
	return &MemTable{
		cache: freecache.NewCache(size),
	}
}

// GetBytes ...
func (m *MemTable) GetBytes(key string) (data []byte, ok bool) {
	data, err := m.cache.Get([]byte(key))
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetBytes ...
func (m *MemTable) SetBytes(key string, data []byte, ttlSeconds int) {
	_ = m.cache.Set([]byte(key), data, ttlSeconds)
}

// Delete ...
func (m *MemTable) Delete(key string) {
	_ = m.cache.Del([]byte(key))
}
