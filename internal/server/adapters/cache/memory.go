package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"notasapp/internal/server/ports/cache"
)

// MemoryCache - кэш в памяти процесса на go-cache.
type MemoryCache struct {
	c *gocache.Cache
}

// NewMemoryCache создает кэш с временем жизни по умолчанию и периодом очистки.
func NewMemoryCache(defaultTTL, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{c: gocache.New(defaultTTL, cleanupInterval)}
}

var _ cache.Cache = (*MemoryCache)(nil)

func (m *MemoryCache) Get(_ context.Context, key string) (string, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return "", nil
	}
	s, _ := v.(string)
	return s, nil
}

// Set сохраняет значение. Нулевой ttl означает время жизни по умолчанию.
func (m *MemoryCache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	if ttl == 0 {
		ttl = gocache.DefaultExpiration
	}
	m.c.Set(key, value, ttl)
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.c.Delete(key)
	return nil
}

func (m *MemoryCache) Close() error {
	m.c.Flush()
	return nil
}

// Nop ничего не хранит. Используется, когда кэш выключен.
type Nop struct{}

var _ cache.Cache = Nop{}

func (Nop) Get(context.Context, string) (string, error) { return "", nil }
func (Nop) Set(context.Context, string, string, time.Duration) error { return nil }
func (Nop) Delete(context.Context, string) error { return nil }
func (Nop) Close() error { return nil }
