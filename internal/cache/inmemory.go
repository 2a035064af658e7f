package cache

import (
	"context"
	"time"

	goCache "github.com/patrickmn/go-cache"
	"github.com/stayquote/stayquote/internal/config"
)

// DefaultExpiration is the default expiration time for cache entries
const DefaultExpiration = 30 * time.Minute

// DefaultCleanupInterval is how often expired items are removed from the cache
const DefaultCleanupInterval = 1 * time.Hour

// InMemoryCache is a Cache backed by go-cache. A disabled cache stores nothing.
type InMemoryCache struct {
	cache   *goCache.Cache
	enabled bool
}

// NewInMemoryCache creates a new InMemoryCache from the cache section of the configuration
func NewInMemoryCache(cfg *config.Configuration) *InMemoryCache {
	expiration := DefaultExpiration
	cleanup := DefaultCleanupInterval
	enabled := true
	if cfg != nil {
		if cfg.Cache.DefaultExpiration > 0 {
			expiration = cfg.Cache.DefaultExpiration
		}
		if cfg.Cache.CleanupInterval > 0 {
			cleanup = cfg.Cache.CleanupInterval
		}
		enabled = !cfg.Cache.Disabled
	}

	return &InMemoryCache{
		cache:   goCache.New(expiration, cleanup),
		enabled: enabled,
	}
}

func (c *InMemoryCache) Get(_ context.Context, key string) (any, bool) {
	if !c.enabled {
		return nil, false
	}
	return c.cache.Get(key)
}

// Set stores value until expiration, or the configured default when expiration is not positive
func (c *InMemoryCache) Set(_ context.Context, key string, value any, expiration time.Duration) {
	if !c.enabled {
		return
	}
	if expiration <= 0 {
		expiration = goCache.DefaultExpiration
	}
	c.cache.Set(key, value, expiration)
}

// Delete removes a key from the cache
func (c *InMemoryCache) Delete(_ context.Context, key string) {
	c.cache.Delete(key)
}

// Flush removes all items from the cache
func (c *InMemoryCache) Flush(_ context.Context) {
	c.cache.Flush()
}
