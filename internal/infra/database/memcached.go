package database

import (
	"time"

	"github.com/bradfitz/gomemcache/memcache"
)

func NewMemcached(server string) *memcache.Client {
	return memcache.New(server)
}

// MemcacheAdapter exposes memcached as the byte cache the renewal
// dashboard reads through.
type MemcacheAdapter struct {
	client *memcache.Client
}

func NewMemcacheAdapter(client *memcache.Client) *MemcacheAdapter {
	return &MemcacheAdapter{client: client}
}

func (m *MemcacheAdapter) Get(key string) ([]byte, bool) {
	item, err := m.client.Get(key)
	if err != nil {
		return nil, false
	}
	return item.Value, true
}

func (m *MemcacheAdapter) Set(key string, value []byte, ttl time.Duration) {
	// cache misses are harmless, set failures are ignored
	_ = m.client.Set(&memcache.Item{
		Key:        key,
		Value:      value,
		Expiration: int32(ttl.Seconds()),
	})
}

func (m *MemcacheAdapter) Delete(key string) {
	_ = m.client.Delete(key)
}
