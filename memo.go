package memo

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrKeyNotFound is returned by Get when a key has never been set (or was
// removed) for an instance. The memoizing paths never return it; they
// compute and populate on miss instead.
var ErrKeyNotFound = errors.New("memo: key not found")

// Cache is the per-instance key/value mapping. Keys are arbitrary
// comparable values; values are arbitrary, including nil. Presence is what
// counts: a stored nil is a hit, not a miss.
//
// A Cache is safe for concurrent access at the single-operation level.
// Compound sequences (check-then-act across calls) are the caller's
// responsibility to serialize.
type Cache struct {
	mu       sync.RWMutex
	entries  map[any]any
	observer Observer
}

// New creates an empty cache. Most callers never construct one directly;
// For hands out the cache tied to an owner instance.
//
// Example: standalone cache
//
//	c := memo.New()
//	c.Set("greeting", "hello")
//	v, _ := c.Get("greeting")
//	fmt.Println(v) // hello
func New() *Cache {
	return &Cache{entries: make(map[any]any)}
}

// WithObserver attaches an observer to receive operation events.
func (c *Cache) WithObserver(o Observer) *Cache {
	c.observer = o
	return c
}

// Set stores value under key, overwriting any previous entry.
func (c *Cache) Set(key, value any) {
	start := time.Now()
	c.mu.Lock()
	c.entries[key] = value
	c.mu.Unlock()
	c.observe("set", key, false, start)
}

// Get returns the value stored under key. A missing key fails with
// ErrKeyNotFound; the error carries the key and unwraps to the sentinel.
func (c *Cache) Get(key any) (any, error) {
	start := time.Now()
	c.mu.RLock()
	value, ok := c.entries[key]
	c.mu.RUnlock()
	c.observe("get", key, ok, start)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrKeyNotFound, key)
	}
	return value, nil
}

// Lookup is the presence-based probe: it reports whether key is cached and
// returns the stored value, which may legitimately be nil.
func (c *Cache) Lookup(key any) (any, bool) {
	start := time.Now()
	c.mu.RLock()
	value, ok := c.entries[key]
	c.mu.RUnlock()
	c.observe("lookup", key, ok, start)
	return value, ok
}

// Remove deletes the entry for key. Removing an absent key is a no-op.
func (c *Cache) Remove(key any) {
	start := time.Now()
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	c.observe("remove", key, false, start)
}

// Remember returns the cached value for key, or invokes fn, stores its
// result and returns it. An error from fn propagates unmodified and leaves
// the cache untouched for key.
//
// Example: compute once
//
//	c := memo.New()
//	v, _ := c.Remember("answer", func() (any, error) { return 42, nil })
//	fmt.Println(v) // 42
func (c *Cache) Remember(key any, fn func() (any, error)) (any, error) {
	start := time.Now()
	c.mu.RLock()
	value, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		c.observe("remember", key, true, start)
		return value, nil
	}
	value, err := fn()
	if err != nil {
		c.observe("remember", key, false, start)
		return nil, err
	}
	c.mu.Lock()
	c.entries[key] = value
	c.mu.Unlock()
	c.observe("remember", key, false, start)
	return value, nil
}

// Replace invokes fn and unconditionally stores its result under key,
// whether or not an entry already existed, then returns it. On error
// nothing is stored and any previous entry survives.
func (c *Cache) Replace(key any, fn func() (any, error)) (any, error) {
	start := time.Now()
	value, err := fn()
	if err != nil {
		c.observe("replace", key, false, start)
		return nil, err
	}
	c.mu.Lock()
	c.entries[key] = value
	c.mu.Unlock()
	c.observe("replace", key, false, start)
	return value, nil
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Keys returns a snapshot of the cached keys in unspecified order.
func (c *Cache) Keys() []any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]any, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	return keys
}

// Flush drops every entry.
func (c *Cache) Flush() {
	start := time.Now()
	c.mu.Lock()
	c.entries = make(map[any]any)
	c.mu.Unlock()
	c.observe("flush", nil, false, start)
}

func (c *Cache) observe(op string, key any, hit bool, start time.Time) {
	if c.observer == nil {
		return
	}
	c.observer.OnMemoOp(op, key, hit, time.Since(start))
}
