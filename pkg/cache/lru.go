package cache

import (
	"container/list"
	"sync"
	"time"
)

type lruEntry[K comparable, V any] struct {
	key       K
	value     V
	expiresAt time.Time // zero means no expiry
}

// LRU is a thread-safe fixed-capacity cache with optional per-entry TTL.
// All read-modify-write sequences on a single key can be made atomic through
// Update, which runs under the cache lock.
type LRU[K comparable, V any] struct {
	capacity int
	ttl      time.Duration
	items    map[K]*list.Element
	eviction *list.List
	mu       sync.Mutex
	now      func() time.Time
}

// NewLRU creates a cache holding at most capacity entries. A zero ttl
// disables expiry. The capacity must be positive, otherwise it panics.
func NewLRU[K comparable, V any](capacity int, ttl time.Duration) *LRU[K, V] {
	if capacity <= 0 {
		panic("cache: LRU capacity must be positive")
	}
	return &LRU[K, V]{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[K]*list.Element),
		eviction: list.New(),
		now:      time.Now,
	}
}

// SetClock replaces the time source, for deterministic expiry in tests.
func (c *LRU[K, V]) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if now != nil {
		c.now = now
	}
}

// Get retrieves a live value and marks it recently used. Expired entries are
// dropped on access and reported as absent.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.get(key)
}

// Put stores a value, refreshing its TTL. The least recently used entry is
// evicted once capacity is exceeded.
func (c *LRU[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.put(key, value)
}

// Update atomically transforms the entry for key. fn receives the current
// live value (and whether one exists) and returns the value to store; a
// false second return deletes the entry instead. The final value and its
// presence are returned. fn runs under the cache lock and must not call
// back into the cache.
func (c *LRU[K, V]) Update(key K, fn func(current V, exists bool) (V, bool)) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, exists := c.get(key)
	next, keep := fn(current, exists)
	if !keep {
		c.remove(key)
		var zero V
		return zero, false
	}
	c.put(key, next)
	return next, true
}

// Remove deletes an entry. Returns the removed value and whether it existed
// and was still live.
func (c *LRU[K, V]) Remove(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	value, ok := c.get(key)
	if ok {
		c.remove(key)
	}
	return value, ok
}

// Clear removes every entry.
func (c *LRU[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]*list.Element)
	c.eviction.Init()
}

// Len reports the number of stored entries, including any not yet reaped
// expired ones.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eviction.Len()
}

// Must be called with lock held.
func (c *LRU[K, V]) get(key K) (V, bool) {
	var zero V
	elem, ok := c.items[key]
	if !ok {
		return zero, false
	}
	entry := elem.Value.(*lruEntry[K, V])
	if !entry.expiresAt.IsZero() && c.now().After(entry.expiresAt) {
		c.removeElement(elem)
		return zero, false
	}
	c.eviction.MoveToFront(elem)
	return entry.value, true
}

// Must be called with lock held.
func (c *LRU[K, V]) put(key K, value V) {
	var expiresAt time.Time
	if c.ttl > 0 {
		expiresAt = c.now().Add(c.ttl)
	}

	if elem, ok := c.items[key]; ok {
		c.eviction.MoveToFront(elem)
		entry := elem.Value.(*lruEntry[K, V])
		entry.value = value
		entry.expiresAt = expiresAt
		return
	}

	elem := c.eviction.PushFront(&lruEntry[K, V]{key: key, value: value, expiresAt: expiresAt})
	c.items[key] = elem
	if c.eviction.Len() > c.capacity {
		if oldest := c.eviction.Back(); oldest != nil {
			c.removeElement(oldest)
		}
	}
}

// Must be called with lock held.
func (c *LRU[K, V]) remove(key K) {
	if elem, ok := c.items[key]; ok {
		c.removeElement(elem)
	}
}

// Must be called with lock held.
func (c *LRU[K, V]) removeElement(elem *list.Element) {
	c.eviction.Remove(elem)
	entry := elem.Value.(*lruEntry[K, V])
	delete(c.items, entry.key)
}
