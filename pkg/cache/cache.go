// Package cache: кэш расписаний групп в памяти процесса с версиями набора записей
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache обёртка над go-cache
type Cache struct {
	c *gocache.Cache
}

// New ttl: срок жизни записи; при ttl <= 0 записи живут до Delete или Flush
func New(ttl time.Duration) *Cache {
	cleanup := ttl * 2
	if cleanup <= 0 {
		cleanup = time.Minute
	}
	return &Cache{c: gocache.New(ttl, cleanup)}
}

func (c *Cache) Get(key string) (interface{}, bool) {
	return c.c.Get(key)
}

// Set сохраняет значение на срок по умолчанию
func (c *Cache) Set(key string, value interface{}) {
	c.c.SetDefault(key, value)
}

func (c *Cache) Delete(key string) {
	c.c.Delete(key)
}

// Flush очищает кэш
func (c *Cache) Flush() {
	c.c.Flush()
}
