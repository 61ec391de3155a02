package memo

import (
	"runtime"
	"sync"
	"weak"
)

// registry associates live owner instances with their caches. Keys are
// weak pointers, so holding an entry never keeps an owner alive; the
// cleanup registered in For drops the entry once the owner is collected.
var registry = struct {
	mu     sync.Mutex
	caches map[any]*Cache
}{caches: make(map[any]*Cache)}

// For returns the cache associated with owner, creating an empty one on
// first use. The association is weak: once all other references to owner
// are gone the garbage collector reclaims it and its cache entry is
// discarded, with no teardown call required.
//
// Owners are identified by pointer, so two distinct instances with equal
// field values get independent caches.
//
// Example: per-instance memoized state
//
//	type Client struct{ base string }
//
//	cl := &Client{base: "https://api"}
//	memo.For(cl).Set("token", "abc")
//	v, _ := memo.For(cl).Get("token")
//	fmt.Println(v) // abc
func For[O any](owner *O) *Cache {
	if owner == nil {
		panic("memo: nil owner")
	}
	ref := weak.Make(owner)
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if c, ok := registry.caches[ref]; ok {
		return c
	}
	c := New()
	registry.caches[ref] = c
	runtime.AddCleanup(owner, dropOwner, any(ref))
	return c
}

// dropOwner runs after the owner is collected. It must not touch the
// owner; it only knows the weak key.
func dropOwner(ref any) {
	registry.mu.Lock()
	delete(registry.caches, ref)
	registry.mu.Unlock()
}

// Set stores value under key in owner's cache, creating the cache if the
// owner has never been seen.
func Set[O any](owner *O, key, value any) {
	For(owner).Set(key, value)
}

// Get returns the value stored under key in owner's cache. A missing key
// fails with ErrKeyNotFound.
func Get[O any](owner *O, key any) (any, error) {
	return For(owner).Get(key)
}

// Remove deletes key from owner's cache. Removing an absent key is a
// no-op.
func Remove[O any](owner *O, key any) {
	For(owner).Remove(key)
}

// registrySize reports how many owners currently have a cache. Tests use
// it to observe reclamation.
func registrySize() int {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	return len(registry.caches)
}
