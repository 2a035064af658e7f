package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/stayquote/stayquote/internal/clock"
)

// ExpirableLRU is a capacity-bounded cache whose entries also expire after a fixed TTL.
// Reads refresh recency but never extend an entry's lifetime. All methods are safe for
// concurrent use.
type ExpirableLRU[V any] struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	clock    clock.Clock
	items    map[string]*list.Element
	order    *list.List
}

type lruEntry[V any] struct {
	key       string
	value     V
	expiresAt time.Time
}

// NewExpirableLRU creates a cache holding at most capacity entries, each living for ttl.
// A nil clock falls back to the system clock.
func NewExpirableLRU[V any](capacity int, ttl time.Duration, clk clock.Clock) *ExpirableLRU[V] {
	if capacity < 1 {
		capacity = 1
	}
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &ExpirableLRU[V]{
		capacity: capacity,
		ttl:      ttl,
		clock:    clk,
		items:    make(map[string]*list.Element, capacity),
		order:    list.New(),
	}
}

// Get returns the live value for key. Expired entries are dropped on access.
func (c *ExpirableLRU[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	el, ok := c.items[key]
	if !ok {
		return zero, false
	}

	entry := el.Value.(*lruEntry[V])
	if c.expired(entry) {
		c.removeElement(el)
		return zero, false
	}

	c.order.MoveToFront(el)
	return entry.value, true
}

// Set stores value under key, replacing any previous value and restarting its TTL.
// When the cache is full the least recently used entry is evicted.
func (c *ExpirableLRU[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.clock.Now().Add(c.ttl)
	if el, ok := c.items[key]; ok {
		entry := el.Value.(*lruEntry[V])
		entry.value = value
		entry.expiresAt = expiresAt
		c.order.MoveToFront(el)
		return
	}

	c.purgeExpired()
	for c.order.Len() >= c.capacity {
		c.removeElement(c.order.Back())
	}

	c.items[key] = c.order.PushFront(&lruEntry[V]{key: key, value: value, expiresAt: expiresAt})
}

// Delete removes key if present
func (c *ExpirableLRU[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.removeElement(el)
	}
}

// Len returns the number of entries, including ones that expired but were not yet purged
func (c *ExpirableLRU[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Keys returns the live keys from most to least recently used
func (c *ExpirableLRU[V]) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, c.order.Len())
	for el := c.order.Front(); el != nil; el = el.Next() {
		entry := el.Value.(*lruEntry[V])
		if !c.expired(entry) {
			keys = append(keys, entry.key)
		}
	}
	return keys
}

// Purge removes every entry
func (c *ExpirableLRU[V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element, c.capacity)
	c.order.Init()
}

func (c *ExpirableLRU[V]) expired(entry *lruEntry[V]) bool {
	return c.ttl > 0 && !c.clock.Now().Before(entry.expiresAt)
}

func (c *ExpirableLRU[V]) purgeExpired() {
	for el := c.order.Back(); el != nil; {
		prev := el.Prev()
		if c.expired(el.Value.(*lruEntry[V])) {
			c.removeElement(el)
		}
		el = prev
	}
}

func (c *ExpirableLRU[V]) removeElement(el *list.Element) {
	if el == nil {
		return
	}
	entry := el.Value.(*lruEntry[V])
	delete(c.items, entry.key)
	c.order.Remove(el)
}
