// Package cache provides a generic, thread-safe LRU cache with optional
// per-entry TTL and an atomic read-modify-write primitive.
//
// The cache evicts the least recently used entry once capacity is reached,
// and lazily drops entries whose TTL elapsed. Update runs a caller-supplied
// function under the cache lock, which is what lets higher layers (such as
// the CMAB decision cache) perform lookup-then-save sequences without lost
// updates under concurrent requests for the same key.
//
// # Key Features
//
//   - Generic over comparable keys and any value type
//   - O(1) Get, Put, Remove
//   - LRU eviction on capacity, lazy expiry on TTL
//   - Update for atomic check-and-set on a single key
//   - Injectable clock for deterministic expiry tests
//
// # Usage
//
//	c := cache.NewLRU[string, Decision](100, 30*time.Minute)
//	c.Put("k", d)
//	if v, ok := c.Get("k"); ok {
//		// fresh value
//	}
//
// Atomic read-modify-write:
//
//	v, _ := c.Update("k", func(cur Decision, ok bool) (Decision, bool) {
//		if ok && cur.Valid() {
//			return cur, true // keep
//		}
//		return recompute(), true // replace
//	})
package cache
